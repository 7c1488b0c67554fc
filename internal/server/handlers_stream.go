package server

import (
	"log"
	"net/http"
	"time"

	"github.com/jonathan/job-copilot/internal/notify"
)

// heartbeatInterval keeps idle event streams alive through proxies.
const heartbeatInterval = 15 * time.Second

// handleEvents is the per-user event stream. The client subscribes once and
// receives every pipeline event for their account until they disconnect.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	sub := s.notifier.Subscribe(userID)
	defer s.notifier.Unsubscribe(sub)

	// Opening snapshot so a client that reconnects mid-processing shows the
	// right pending count immediately.
	if err := sse.WriteEvent(string(notify.EventProcessingCount), notify.ProcessingCountPayload{
		Count: s.counter.Count(userID),
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if err := sse.WriteComment("ping"); err != nil {
				return
			}
		case event, ok := <-sub.C():
			if !ok {
				return
			}
			if err := sse.WriteEvent(string(event.Kind), event.Payload); err != nil {
				log.Printf("[events] write failed for user %s: %v", userID, err)
				return
			}
		}
	}
}
