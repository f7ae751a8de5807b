package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// ScheduledJob defines the interface for durable one-time jobs
type ScheduledJob interface {
	// UpsertJob inserts the job or replaces the one with the same ID
	UpsertJob(ctx context.Context, job *domain.ScheduledJob) error

	// ClaimJob deletes the job only if it still carries runAt. A false result means the
	// job was cancelled or rescheduled after its timer was armed.
	ClaimJob(ctx context.Context, id uuid.UUID, runAt time.Time) (bool, error)

	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteMatching removes every job with the name whose payload contains match
	DeleteMatching(ctx context.Context, name string, match map[string]string) (int, error)

	// ListJobs returns matching jobs ordered by run time; an empty name lists every job
	ListJobs(ctx context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error)
}
