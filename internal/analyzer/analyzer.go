// Package analyzer provides the LLM-backed analysis capability: structured
// extraction of job postings, fit scoring against an applicant profile,
// tailoring suggestions, and resume parsing. Callers treat every method as a
// fallible, high-latency black box and must pass a bounded context.
package analyzer

import (
	"context"

	"github.com/jonathan/job-copilot/internal/types"
)

// Ranking is the result of scoring a job against a profile.
type Ranking struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Tailoring is the result of generating resume edit suggestions for a job.
type Tailoring struct {
	Suggestions []string `json:"suggestions"`
}

// Analyzer is the capability contract consumed by the pipeline and the
// profile handlers.
type Analyzer interface {
	// Extract turns a raw job posting into a structured description.
	Extract(ctx context.Context, rawText string) (*types.StructuredJob, error)
	// Score rates how well the profile fits the structured job, 0-10.
	// Callers must not trust the range; out-of-range values are possible.
	Score(ctx context.Context, profile *types.Profile, job *types.StructuredJob) (*Ranking, error)
	// Tailor produces 3-5 short resume edit suggestions for the job.
	Tailor(ctx context.Context, profile *types.Profile, job *types.StructuredJob) (*Tailoring, error)
	// ParseResume turns raw resume text into a structured profile.
	ParseResume(ctx context.Context, resumeText string) (*types.Profile, error)
}
