package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-copilot/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
//
// The three UpdateJob* methods are deliberately tolerant of a vanished row:
// a user can delete a job while its pipeline run is still in flight, and the
// late writes must land as silent no-ops rather than errors.
// -----------------------------------------------------------------------------

const jobColumns = `id, user_id, title, company, location, description,
		responsibilities, requirements, benefits, raw_text, source_url,
		ranking_score, ranking_explanation, tailoring_suggestions,
		created_at, updated_at`

func scanJob(row pgx.Row) (*types.Job, error) {
	var j types.Job
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Location,
		&j.Description, &j.Responsibilities, &j.Requirements, &j.Benefits,
		&j.RawText, &j.SourceURL, &j.RankingScore, &j.RankingReason,
		&j.Suggestions, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob creates a placeholder job record holding only the raw submitted
// text and returns its ID. Derived fields stay null until the pipeline
// populates them.
func (db *DB) CreateJob(ctx context.Context, userID uuid.UUID, rawText, sourceURL string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, raw_text, source_url)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, rawText, sourceURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a job scoped to its owner. Returns (nil, nil) when not
// found.
func (db *DB) GetJob(ctx context.Context, jobID, userID uuid.UUID) (*types.Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves all jobs for a user, newest first.
func (db *DB) ListJobs(ctx context.Context, userID uuid.UUID) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJobExtraction persists the structured description produced by the
// extract stage. A missing job id is a no-op.
func (db *DB) UpdateJobExtraction(ctx context.Context, jobID uuid.UUID, sj *types.StructuredJob) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET title = $2, company = $3, location = $4, description = $5,
			responsibilities = $6, requirements = $7, benefits = $8, updated_at = NOW()
		 WHERE id = $1`,
		jobID, sj.Title, sj.Company, sj.Location, sj.Description,
		sj.Responsibilities, sj.Requirements, sj.Benefits,
	)
	if err != nil {
		return fmt.Errorf("failed to update job extraction: %w", err)
	}
	return nil
}

// UpdateJobRanking persists the score and explanation produced by the score
// stage. A missing job id is a no-op.
func (db *DB) UpdateJobRanking(ctx context.Context, jobID uuid.UUID, score float64, explanation string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET ranking_score = $2, ranking_explanation = $3, updated_at = NOW()
		 WHERE id = $1`,
		jobID, score, explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to update job ranking: %w", err)
	}
	return nil
}

// UpdateJobTailoring persists the suggestion list produced by the tailor
// stage. A missing job id is a no-op.
func (db *DB) UpdateJobTailoring(ctx context.Context, jobID uuid.UUID, suggestions []string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET tailoring_suggestions = $2, updated_at = NOW()
		 WHERE id = $1`,
		jobID, suggestions,
	)
	if err != nil {
		return fmt.Errorf("failed to update job tailoring: %w", err)
	}
	return nil
}

// DeleteJob removes a job scoped to its owner. Returns false when the job
// did not exist.
func (db *DB) DeleteJob(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
