// Package notify provides the per-user progress event fan-out and the
// in-flight processing counter. Events are transient: there is no
// durability, no replay, and no delivery guarantee. Clients that miss an
// event re-fetch full state over the REST API.
package notify

import "github.com/google/uuid"

// EventKind identifies the type of a progress event. The values are a wire
// contract with the frontend.
type EventKind string

const (
	// EventJobCreated fires after the extract stage persists title/company.
	EventJobCreated EventKind = "job_created"
	// EventJobRanked fires after the score stage persists score/explanation.
	EventJobRanked EventKind = "job_ranked"
	// EventJobTailored fires after the tailor stage persists suggestions.
	EventJobTailored EventKind = "job_tailored"
	// EventJobDeleted fires when a job is deleted by the user.
	EventJobDeleted EventKind = "job_deleted"
	// EventJobError fires when a pipeline stage fails.
	EventJobError EventKind = "job_error"
	// EventProcessingCount fires whenever the in-flight counter changes.
	EventProcessingCount EventKind = "processing_count_update"
)

// Event is one progress message for one user. Payload must be
// JSON-serializable; it is marshalled once per subscriber by the transport.
type Event struct {
	Kind    EventKind `json:"event"`
	Payload any       `json:"data"`
}

// JobCreatedPayload carries the fields that become available after
// extraction.
type JobCreatedPayload struct {
	JobID    uuid.UUID `json:"job_id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location,omitempty"`
}

// JobRankedPayload carries the fields that become available after scoring.
type JobRankedPayload struct {
	JobID       uuid.UUID `json:"job_id"`
	Score       float64   `json:"score"`
	Explanation string    `json:"explanation"`
}

// JobTailoredPayload carries the suggestions produced by the tailor stage.
type JobTailoredPayload struct {
	JobID       uuid.UUID `json:"job_id"`
	Suggestions []string  `json:"suggestions"`
}

// JobDeletedPayload identifies a deleted job.
type JobDeletedPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// JobErrorPayload carries a human-readable stage failure message.
type JobErrorPayload struct {
	JobID   uuid.UUID `json:"job_id"`
	Message string    `json:"message"`
}

// ProcessingCountPayload carries the current in-flight job count.
type ProcessingCountPayload struct {
	Count int `json:"count"`
}
