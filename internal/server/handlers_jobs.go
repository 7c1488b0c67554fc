package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-copilot/internal/db"
	"github.com/jonathan/job-copilot/internal/ingestion"
	"github.com/jonathan/job-copilot/internal/notify"
	"github.com/jonathan/job-copilot/internal/server/middleware"
)

// authedUserID reads the user ID the auth middleware stored on the request.
func authedUserID(r *http.Request) (uuid.UUID, error) {
	return middleware.GetUserID(r)
}

// maxRawTextBytes caps submitted posting text. Real postings are a few KB.
const maxRawTextBytes = 100 * 1024

// SubmitJobRequest is the payload for raw-text job submission.
type SubmitJobRequest struct {
	Content string `json:"content"`
}

// SubmitJobFromURLRequest is the payload for URL-based job submission.
type SubmitJobFromURLRequest struct {
	URL string `json:"url"`
}

// SubmitJobResponse acknowledges an accepted submission. Analysis continues
// in the background; results arrive on the event stream.
type SubmitJobResponse struct {
	ID               uuid.UUID `json:"id"`
	Status           string    `json:"status"`
	CreditsRemaining int       `json:"credits_remaining"`
}

// handleSubmitJob accepts raw posting text, deducts a credit and starts the
// analysis pipeline. Responds 202; the client learns the outcome via events.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitJobRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRawTextBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.errorResponse(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	s.acceptJob(w, r, userID, req.Content, "")
}

// handleSubmitJobFromURL fetches a posting page, reduces it to text and then
// follows the same submission path as raw text.
func (s *Server) handleSubmitJobFromURL(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitJobFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.errorResponse(w, http.StatusBadRequest, "url must not be empty")
		return
	}

	text, err := ingestion.FetchPostingText(r.Context(), req.URL)
	if err != nil {
		log.Printf("[jobs] fetch posting failed: %v", err)
		s.errorResponse(w, http.StatusUnprocessableEntity, "could not retrieve a readable posting from that URL")
		return
	}

	s.acceptJob(w, r, userID, text, req.URL)
}

// acceptJob is the shared tail of both submission endpoints: charge, persist
// the raw record, then hand off to the background pipeline.
func (s *Server) acceptJob(w http.ResponseWriter, r *http.Request, userID uuid.UUID, rawText, sourceURL string) {
	remaining, err := s.store.DeductCredit(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrInsufficientCredits) {
			s.errorResponse(w, http.StatusPaymentRequired, "no credits remaining")
			return
		}
		log.Printf("[jobs] credit deduction failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to submit job")
		return
	}

	jobID, err := s.store.CreateJob(r.Context(), userID, rawText, sourceURL)
	if err != nil {
		log.Printf("[jobs] create failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to submit job")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("[jobs] profile lookup failed, proceeding without: %v", err)
		profile = nil
	}

	// Increment before scheduling so the count never reads zero while a run
	// is pending.
	s.counter.Increment(userID)
	s.processor.Schedule(jobID, rawText, userID, profile)

	s.jsonResponse(w, http.StatusAccepted, SubmitJobResponse{
		ID:               jobID,
		Status:           "processing",
		CreditsRemaining: remaining,
	})
}

// handleListJobs returns all of the user's jobs, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), userID)
	if err != nil {
		log.Printf("[jobs] list failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleGetJob returns a single job owned by the user.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID, userID)
	if err != nil {
		log.Printf("[jobs] get failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get job")
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob removes a job. Any in-flight analysis keeps running; its
// store writes become no-ops once the row is gone.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), jobID, userID)
	if err != nil {
		log.Printf("[jobs] delete failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.notifier.Publish(userID, notify.Event{
		Kind:    notify.EventJobDeleted,
		Payload: notify.JobDeletedPayload{JobID: jobID},
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleRankJob re-runs scoring for one job synchronously. This is the
// recovery path when automatic scoring failed or the profile changed.
func (s *Server) handleRankJob(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID, userID)
	if err != nil {
		log.Printf("[jobs] get failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to rank job")
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Title == "" {
		s.errorResponse(w, http.StatusConflict, "job has not been extracted yet")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("[jobs] profile lookup failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to rank job")
		return
	}
	if profile == nil || profile.IsEmpty() {
		s.errorResponse(w, http.StatusConflict, "a profile is required before ranking")
		return
	}

	ranking, err := s.processor.Rank(r.Context(), jobID, userID, profile, job.Structured())
	if err != nil {
		log.Printf("[jobs] rank failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "Ranking failed, try again later")
		return
	}
	s.jsonResponse(w, http.StatusOK, ranking)
}
