package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.ScheduledJob = (*JobRepository)(nil)

// JobRepository stores one-time scheduled jobs
type JobRepository struct {
	db *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

const (
	sqlUpsertJob = `
		INSERT INTO scheduled_jobs (id, name, payload, run_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			run_at = EXCLUDED.run_at,
			created_at = EXCLUDED.created_at`

	sqlClaimJob = `DELETE FROM scheduled_jobs WHERE id = $1 AND run_at = $2`

	sqlDeleteJob = `DELETE FROM scheduled_jobs WHERE id = $1`

	// payload @> match selects jobs whose payload contains every match pair
	sqlDeleteMatchingJobs = `DELETE FROM scheduled_jobs WHERE name = $1 AND payload @> $2`

	sqlListJobs = `
		SELECT id, name, payload, run_at, created_at
		FROM scheduled_jobs
		WHERE ($1 = '' OR name = $1) AND payload @> $2
		ORDER BY run_at`
)

// UpsertJob inserts the job or replaces the one with the same ID
func (r *JobRepository) UpsertJob(ctx context.Context, job *domain.ScheduledJob) error {
	payload, err := encodePayload(job.Payload)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sqlUpsertJob, job.ID, job.Name, payload, job.RunAt, job.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertJob, err)
	}
	return nil
}

// ClaimJob deletes the job only if it still runs at runAt
func (r *JobRepository) ClaimJob(ctx context.Context, id uuid.UUID, runAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, sqlClaimJob, id, runAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToClaimJob, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteJob removes a job by ID
func (r *JobRepository) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, sqlDeleteJob, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteJob, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteMatching removes jobs by name and payload subset
func (r *JobRepository) DeleteMatching(ctx context.Context, name string, match map[string]string) (int, error) {
	payload, err := encodePayload(match)
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, sqlDeleteMatchingJobs, name, payload)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteJob, err)
	}
	return int(tag.RowsAffected()), nil
}

// ListJobs returns matching jobs ordered by run time
func (r *JobRepository) ListJobs(ctx context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error) {
	payload, err := encodePayload(match)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlListJobs, name, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJobs, err)
	}
	defer rows.Close()

	var out []domain.ScheduledJob
	for rows.Next() {
		var (
			job domain.ScheduledJob
			raw []byte
		)
		if err := rows.Scan(&job.ID, &job.Name, &raw, &job.RunAt, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJobs, err)
		}
		if err := json.Unmarshal(raw, &job.Payload); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJobs, err)
		}
		job.RunAt = job.RunAt.UTC()
		job.CreatedAt = job.CreatedAt.UTC()
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListJobs, err)
	}
	return out, nil
}

func encodePayload(payload map[string]string) ([]byte, error) {
	if payload == nil {
		payload = map[string]string{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEncodePayload, err)
	}
	return b, nil
}
