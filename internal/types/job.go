// Package types defines the shared domain types for the job copilot backend.
package types

import (
	"time"

	"github.com/google/uuid"
)

// StructuredJob is the cleaned, structured form of a raw job posting as
// produced by the extraction stage.
type StructuredJob struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Requirements     []string `json:"requirements,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
}

// Job is a persisted job record with its derived analysis fields.
// Derived fields are nil until the corresponding pipeline stage has run;
// a nil RankingScore means the job is still in flight or that scoring
// failed and is awaiting a manual re-rank.
type Job struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location,omitempty"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities,omitempty"`
	Requirements     []string   `json:"requirements,omitempty"`
	Benefits         []string   `json:"benefits,omitempty"`
	RawText          string     `json:"raw_text,omitempty"`
	SourceURL        string     `json:"source_url,omitempty"`
	RankingScore     *float64   `json:"ranking_score"`
	RankingReason    *string    `json:"ranking_explanation"`
	Suggestions      []string   `json:"tailoring_suggestions"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Structured returns the structured-description view of the job, used when
// re-running analysis stages against an already-extracted record.
func (j *Job) Structured() *StructuredJob {
	return &StructuredJob{
		Title:            j.Title,
		Company:          j.Company,
		Location:         j.Location,
		Description:      j.Description,
		Responsibilities: j.Responsibilities,
		Requirements:     j.Requirements,
		Benefits:         j.Benefits,
	}
}
