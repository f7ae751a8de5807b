package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

var _ repository.ScheduledJob = (*JobRepository)(nil)

// JobRepository stores one-time scheduled jobs
type JobRepository struct {
	s *Store
}

// UpsertJob inserts or replaces the job with the same ID
func (r *JobRepository) UpsertJob(_ context.Context, job *domain.ScheduledJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs[job.ID] = cloneJob(*job)
	return nil
}

// ClaimJob deletes the job if it still runs at runAt
func (r *JobRepository) ClaimJob(_ context.Context, id uuid.UUID, runAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	job, ok := r.s.jobs[id]
	if !ok || !job.RunAt.Equal(runAt) {
		return false, nil
	}
	delete(r.s.jobs, id)
	return true, nil
}

// DeleteJob removes a job by ID
func (r *JobRepository) DeleteJob(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return false, nil
	}
	delete(r.s.jobs, id)
	return true, nil
}

// DeleteMatching removes jobs by name and payload subset
func (r *JobRepository) DeleteMatching(_ context.Context, name string, match map[string]string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for id, job := range r.s.jobs {
		if job.Matches(name, match) {
			delete(r.s.jobs, id)
			n++
		}
	}
	return n, nil
}

// ListJobs returns matching jobs ordered by run time
func (r *JobRepository) ListJobs(_ context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.ScheduledJob
	for _, job := range r.s.jobs {
		if name == "" || job.Matches(name, match) {
			out = append(out, cloneJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunAt.Before(out[j].RunAt) })
	return out, nil
}

func cloneJob(j domain.ScheduledJob) domain.ScheduledJob {
	payload := make(map[string]string, len(j.Payload))
	for k, v := range j.Payload {
		payload[k] = v
	}
	j.Payload = payload
	return j
}
