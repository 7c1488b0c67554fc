package notify

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls this far behind starts losing events; the client recovers by
// re-fetching state on reconnect.
const subscriberBuffer = 32

// Subscriber is one live event destination, owned by a single stream
// connection. Read events from C until it is closed.
type Subscriber struct {
	userID uuid.UUID
	ch     chan Event
	closed bool // guarded by the owning Notifier's mutex
}

// C returns the receive side of the subscriber's event channel. It is closed
// by Unsubscribe.
func (s *Subscriber) C() <-chan Event {
	return s.ch
}

// Notifier fans events out to every live subscriber for a user id. It is an
// injected dependency, constructed once at startup and shared by the server
// and the pipeline; it holds no global state.
type Notifier struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[*Subscriber]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uuid.UUID]map[*Subscriber]struct{})}
}

// Subscribe registers a new destination for the user's events. Multiple
// subscribers per user are allowed (one per browser tab).
func (n *Notifier) Subscribe(userID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		userID: userID,
		ch:     make(chan Event, subscriberBuffer),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[*Subscriber]struct{})
	}
	n.subs[userID][sub] = struct{}{}
	return sub
}

// Unsubscribe deregisters a subscriber and closes its channel. It is
// idempotent; calling it twice (teardown races are common) is safe.
func (n *Notifier) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true

	if set, ok := n.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(n.subs, sub.userID)
		}
	}
	close(sub.ch)
}

// Publish delivers the event to all currently-registered subscribers for the
// user. With no subscribers the event is dropped. Publish never blocks: a
// subscriber whose buffer is full loses the event instead of stalling the
// pipeline.
func (n *Notifier) Publish(userID uuid.UUID, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for sub := range n.subs[userID] {
		select {
		case sub.ch <- event:
		default:
			log.Printf("[notify] dropping %s event for slow subscriber (user %s)", event.Kind, userID)
		}
	}
}

// SubscriberCount returns the number of live subscribers for a user.
func (n *Notifier) SubscriberCount(userID uuid.UUID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[userID])
}
