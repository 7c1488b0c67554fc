// Package pipeline drives one submitted job from raw text to a fully
// analyzed record: extract, score, tailor, finalize. Runs are background
// tasks detached from the submitting request; the pipeline communicates only
// through the store and through notifier events, never by returning a value
// to a caller.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/job-copilot/internal/analyzer"
	"github.com/jonathan/job-copilot/internal/notify"
	"github.com/jonathan/job-copilot/internal/types"
)

// Sentinel values persisted when the extract stage fails. The record stays
// visible and editable instead of being left fully null.
const (
	FailedExtractionTitle   = "Processing Error"
	FailedExtractionCompany = "Unknown"
)

// Store is the narrow persistence surface the pipeline needs. All three
// update methods must treat a missing job id as a silent no-op: deletion can
// race in-flight processing.
type Store interface {
	UpdateJobExtraction(ctx context.Context, jobID uuid.UUID, sj *types.StructuredJob) error
	UpdateJobRanking(ctx context.Context, jobID uuid.UUID, score float64, explanation string) error
	UpdateJobTailoring(ctx context.Context, jobID uuid.UUID, suggestions []string) error
}

// Options tunes processor behavior.
type Options struct {
	// StageTimeout bounds each Analyzer call so a hung upstream cannot pin a
	// pipeline task forever. Zero means the 45s default.
	StageTimeout time.Duration
	// MaxConcurrent bounds the number of runs executing at once. Zero means 8.
	MaxConcurrent int64
}

// Processor owns the background execution of job analysis runs.
type Processor struct {
	store        Store
	analyzer     analyzer.Analyzer
	notifier     *notify.Notifier
	counter      *notify.Counter
	sem          *semaphore.Weighted
	stageTimeout time.Duration
	wg           sync.WaitGroup
}

// New creates a processor. All dependencies are injected; the processor
// holds no global state.
func New(store Store, a analyzer.Analyzer, notifier *notify.Notifier, counter *notify.Counter, opts Options) *Processor {
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = 45 * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	return &Processor{
		store:        store,
		analyzer:     a,
		notifier:     notifier,
		counter:      counter,
		sem:          semaphore.NewWeighted(opts.MaxConcurrent),
		stageTimeout: opts.StageTimeout,
	}
}

// Schedule runs Process as a fire-and-forget background task. The caller
// (the submission endpoint) must have incremented the processing counter
// before calling; the run decrements it exactly once when it terminates.
func (p *Processor) Schedule(jobID uuid.UUID, rawText string, userID uuid.UUID, profile *types.Profile) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[pipeline] job %s: recovered from panic: %v", jobID, r)
			}
		}()
		p.Process(context.Background(), jobID, rawText, userID, profile)
	}()
}

// Wait blocks until all scheduled runs have terminated. Used on shutdown and
// in tests.
func (p *Processor) Wait() {
	p.wg.Wait()
}

// Process runs the full stage sequence for one job. Each stage gets a single
// attempt: a failed stage emits job_error, skips the remaining stages and
// leaves recovery to the user (re-submit or re-rank). There is deliberately
// no automatic retry here; retrying a flaky upstream would multiply LLM cost
// with no cap.
//
// Every store write happens before its corresponding event is emitted, so a
// client that reacts to an event always reads fresh state.
func (p *Processor) Process(ctx context.Context, jobID uuid.UUID, rawText string, userID uuid.UUID, profile *types.Profile) {
	// Finalize runs unconditionally, exactly once, whatever the stages did.
	defer p.counter.Decrement(userID)

	if err := p.sem.Acquire(ctx, 1); err != nil {
		log.Printf("[pipeline] job %s: not started: %v", jobID, err)
		p.publishError(userID, jobID, "job processing could not be started")
		return
	}
	defer p.sem.Release(1)

	// --- Extract stage ---
	job, err := p.extract(ctx, jobID, rawText)
	if err != nil {
		log.Printf("[pipeline] job %s: extract failed: %v", jobID, err)
		p.persistSentinel(ctx, jobID, rawText)
		p.publishError(userID, jobID, "failed to extract job details")
		return
	}
	p.notifier.Publish(userID, notify.Event{
		Kind: notify.EventJobCreated,
		Payload: notify.JobCreatedPayload{
			JobID:    jobID,
			Title:    job.Title,
			Company:  job.Company,
			Location: job.Location,
		},
	})

	// Without a profile there is nothing to score against; the job stays in
	// the extracted-only state, which is terminal and valid.
	if profile.IsEmpty() {
		log.Printf("[pipeline] job %s: no profile on file, skipping score and tailor", jobID)
		return
	}

	// --- Score stage ---
	ranking, err := p.score(ctx, jobID, profile, job)
	if err != nil {
		log.Printf("[pipeline] job %s: score failed: %v", jobID, err)
		p.publishError(userID, jobID, "failed to score job fit")
		return
	}
	p.notifier.Publish(userID, notify.Event{
		Kind: notify.EventJobRanked,
		Payload: notify.JobRankedPayload{
			JobID:       jobID,
			Score:       ranking.Score,
			Explanation: ranking.Explanation,
		},
	})

	// --- Tailor stage ---
	tailoring, err := p.tailor(ctx, jobID, profile, job)
	if err != nil {
		log.Printf("[pipeline] job %s: tailor failed: %v", jobID, err)
		p.publishError(userID, jobID, "failed to generate tailoring suggestions")
		return
	}
	p.notifier.Publish(userID, notify.Event{
		Kind: notify.EventJobTailored,
		Payload: notify.JobTailoredPayload{
			JobID:       jobID,
			Suggestions: tailoring.Suggestions,
		},
	})

	log.Printf("[pipeline] job %s: completed all stages", jobID)
}

// Rank re-runs the score stage for an already-extracted job, synchronously.
// It backs the user-initiated re-rank endpoint, the manual recovery path for
// a job whose automatic scoring failed.
func (p *Processor) Rank(ctx context.Context, jobID, userID uuid.UUID, profile *types.Profile, job *types.StructuredJob) (*analyzer.Ranking, error) {
	if profile.IsEmpty() {
		return nil, fmt.Errorf("no profile on file")
	}

	ranking, err := p.score(ctx, jobID, profile, job)
	if err != nil {
		return nil, err
	}
	p.notifier.Publish(userID, notify.Event{
		Kind: notify.EventJobRanked,
		Payload: notify.JobRankedPayload{
			JobID:       jobID,
			Score:       ranking.Score,
			Explanation: ranking.Explanation,
		},
	})
	return ranking, nil
}

func (p *Processor) extract(ctx context.Context, jobID uuid.UUID, rawText string) (*types.StructuredJob, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	job, err := p.analyzer.Extract(stageCtx, rawText)
	if err != nil {
		return nil, err
	}
	if err := p.store.UpdateJobExtraction(ctx, jobID, job); err != nil {
		return nil, fmt.Errorf("persist extraction: %w", err)
	}
	return job, nil
}

func (p *Processor) score(ctx context.Context, jobID uuid.UUID, profile *types.Profile, job *types.StructuredJob) (*analyzer.Ranking, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	ranking, err := p.analyzer.Score(stageCtx, profile, job)
	if err != nil {
		return nil, err
	}
	ranking.Score = clampScore(ranking.Score)

	if err := p.store.UpdateJobRanking(ctx, jobID, ranking.Score, ranking.Explanation); err != nil {
		return nil, fmt.Errorf("persist ranking: %w", err)
	}
	return ranking, nil
}

func (p *Processor) tailor(ctx context.Context, jobID uuid.UUID, profile *types.Profile, job *types.StructuredJob) (*analyzer.Tailoring, error) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	tailoring, err := p.analyzer.Tailor(stageCtx, profile, job)
	if err != nil {
		return nil, err
	}
	if err := p.store.UpdateJobTailoring(ctx, jobID, tailoring.Suggestions); err != nil {
		return nil, fmt.Errorf("persist tailoring: %w", err)
	}
	return tailoring, nil
}

// persistSentinel writes the failed-extraction fallback so the record never
// stays fully null. The raw text is kept as the description so the user can
// still read what they submitted.
func (p *Processor) persistSentinel(ctx context.Context, jobID uuid.UUID, rawText string) {
	sentinel := &types.StructuredJob{
		Title:       FailedExtractionTitle,
		Company:     FailedExtractionCompany,
		Description: rawText,
	}
	if err := p.store.UpdateJobExtraction(ctx, jobID, sentinel); err != nil {
		log.Printf("[pipeline] job %s: failed to persist sentinel: %v", jobID, err)
	}
}

func (p *Processor) publishError(userID, jobID uuid.UUID, message string) {
	p.notifier.Publish(userID, notify.Event{
		Kind:    notify.EventJobError,
		Payload: notify.JobErrorPayload{JobID: jobID, Message: message},
	})
}

// clampScore forces a score into [0, 10] with one decimal of precision.
func clampScore(score float64) float64 {
	score = math.Max(0, math.Min(10, score))
	return math.Round(score*10) / 10
}
