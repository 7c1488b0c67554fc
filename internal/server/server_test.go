package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-copilot/internal/analyzer"
	"github.com/jonathan/job-copilot/internal/config"
	"github.com/jonathan/job-copilot/internal/db"
	"github.com/jonathan/job-copilot/internal/notify"
	"github.com/jonathan/job-copilot/internal/types"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	credits  int
	jobs     map[uuid.UUID]*types.Job
	profiles map[uuid.UUID]*types.Profile

	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		credits:  10,
		jobs:     make(map[uuid.UUID]*types.Job),
		profiles: make(map[uuid.UUID]*types.Profile),
	}
}

func (f *fakeStore) CreateJob(_ context.Context, userID uuid.UUID, rawText, sourceURL string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	id := uuid.New()
	f.jobs[id] = &types.Job{
		ID:        id,
		UserID:    userID,
		RawText:   rawText,
		SourceURL: sourceURL,
		CreatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakeStore) GetJob(_ context.Context, jobID, userID uuid.UUID) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, nil
	}
	return job, nil
}

func (f *fakeStore) ListJobs(_ context.Context, userID uuid.UUID) ([]types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Job
	for _, job := range f.jobs {
		if job.UserID == userID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteJob(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok || job.UserID != userID {
		return false, nil
	}
	delete(f.jobs, jobID)
	return true, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, userID uuid.UUID, profile *types.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID] = profile
	return nil
}

func (f *fakeStore) DeductCredit(_ context.Context, _ uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.credits <= 0 {
		return 0, db.ErrInsufficientCredits
	}
	f.credits--
	return f.credits, nil
}

// fakeScheduler records scheduled runs instead of executing them.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []uuid.UUID

	rankResult *analyzer.Ranking
	rankErr    error
}

func (f *fakeScheduler) Schedule(jobID uuid.UUID, _ string, _ uuid.UUID, _ *types.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, jobID)
}

func (f *fakeScheduler) Rank(_ context.Context, _, _ uuid.UUID, _ *types.Profile, _ *types.StructuredJob) (*analyzer.Ranking, error) {
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	return f.rankResult, nil
}

func (f *fakeScheduler) Wait() {}

func (f *fakeScheduler) scheduledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled)
}

// stubResumeAnalyzer only implements ParseResume; job handlers never touch
// the other methods through the server.
type stubResumeAnalyzer struct {
	profile *types.Profile
	err     error
}

func (a *stubResumeAnalyzer) Extract(context.Context, string) (*types.StructuredJob, error) {
	panic("not used")
}

func (a *stubResumeAnalyzer) Score(context.Context, *types.Profile, *types.StructuredJob) (*analyzer.Ranking, error) {
	panic("not used")
}

func (a *stubResumeAnalyzer) Tailor(context.Context, *types.Profile, *types.StructuredJob) (*analyzer.Tailoring, error) {
	panic("not used")
}

func (a *stubResumeAnalyzer) ParseResume(context.Context, string) (*types.Profile, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.profile, nil
}

type testServer struct {
	*Server
	store     *fakeStore
	scheduler *fakeScheduler
	resumes   *stubResumeAnalyzer
}

func newTestServer(_ *testing.T) *testServer {
	store := newFakeStore()
	scheduler := &fakeScheduler{rankResult: &analyzer.Ranking{Score: 7.5, Explanation: "ok"}}
	resumes := &stubResumeAnalyzer{profile: &types.Profile{Summary: "parsed"}}
	notifier := notify.NewNotifier()

	jwtService := NewJWTService(&config.JWTConfig{
		Secret: "test-secret-key-for-jwt-signing-minimum-32-bytes",
		TTL:    time.Hour,
	})

	s := &Server{
		store:      store,
		analyzer:   resumes,
		notifier:   notifier,
		counter:    notify.NewCounter(notifier),
		processor:  scheduler,
		jwtService: jwtService,
	}
	return &testServer{Server: s, store: store, scheduler: scheduler, resumes: resumes}
}
