package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
	"github.com/osse101/BrandishRaid_Go/internal/worker"
)

// Handler processes a fired one-time job. It is an alias so that packages the
// scheduler depends on can register handlers without importing it.
type Handler = func(ctx context.Context, job domain.ScheduledJob) error

// jobNamespace seeds deterministic job IDs
var jobNamespace = uuid.MustParse("6f1c2a4e-8d0b-4c37-9a51-3e7b2f90d4c8")

// Scheduler runs interval jobs and durable named one-time jobs on a worker pool.
// One-time jobs are persisted through the store and armed as in-process timers;
// a job is identified by its name plus key payload fields, so scheduling the same
// key again replaces the earlier job.
type Scheduler struct {
	workerPool *worker.Pool
	store      repository.ScheduledJob
	timers     *worker.TimerSet
	now        func() time.Time

	mu       sync.RWMutex
	handlers map[string]Handler

	// jobsMu keeps store writes and timer arming in step, so a cancel
	// cannot strand a timer whose job it just deleted
	jobsMu sync.Mutex

	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a new scheduler
func New(pool *worker.Pool, store repository.ScheduledJob, opts ...Option) *Scheduler {
	s := &Scheduler{
		workerPool: pool,
		store:      store,
		timers:     worker.NewTimerSet("scheduler"),
		now:        time.Now,
		handlers:   make(map[string]Handler),
		quit:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// JobID derives the identity of a one-time job from its name and key fields.
// With no key fields every payload field is part of the key.
func JobID(name string, payload map[string]string, keyFields ...string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, errors.New(ErrMsgEmptyJobName)
	}
	if len(keyFields) == 0 {
		for k := range payload {
			keyFields = append(keyFields, k)
		}
	}
	keys := append([]string(nil), keyFields...)
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		v, ok := payload[k]
		if !ok {
			return uuid.Nil, fmt.Errorf("%s: %s", ErrMsgMissingKeyField, k)
		}
		b.WriteString(keySeparator)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return uuid.NewSHA1(jobNamespace, []byte(b.String())), nil
}

// Schedule registers a job to run at a fixed interval
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// A sweep that is still queued does not need a second copy
				if !s.workerPool.TryEnqueue(job) {
					logger.Warn(LogMsgIntervalJobDropped, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Register sets the handler for one-time jobs with the given name
func (s *Scheduler) Register(name string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = handler
}

// ScheduleOneTime persists and arms a job to run at runAt. keyFields name the payload
// fields that identify the job; an existing job with the same identity is replaced.
func (s *Scheduler) ScheduleOneTime(ctx context.Context, name string, runAt time.Time, payload map[string]string, keyFields ...string) (*domain.ScheduledJob, error) {
	id, err := JobID(name, payload, keyFields...)
	if err != nil {
		return nil, err
	}

	job := &domain.ScheduledJob{
		ID:        id,
		Name:      name,
		Payload:   copyPayload(payload),
		RunAt:     runAt.UTC().Truncate(time.Microsecond),
		CreatedAt: s.now().UTC(),
	}
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	if err := s.store.UpsertJob(ctx, job); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpsertJobFailed, err)
	}
	s.arm(*job)

	logger.FromContext(ctx).Debug(LogMsgJobScheduled, "job", name, "job_id", id, "run_at", job.RunAt)
	return job, nil
}

// Cancel removes every pending job with the name whose payload contains match
func (s *Scheduler) Cancel(ctx context.Context, name string, match map[string]string) (int, error) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	jobs, err := s.store.ListJobs(ctx, name, match)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgCancelJobFailed, err)
	}
	for _, job := range jobs {
		s.timers.Disarm(job.ID.String())
	}

	n, err := s.store.DeleteMatching(ctx, name, match)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgCancelJobFailed, err)
	}
	if n > 0 {
		logger.FromContext(ctx).Debug(LogMsgJobCancelled, "job", name, "count", n)
	}
	return n, nil
}

// Pending lists jobs with the name whose payload contains match
func (s *Scheduler) Pending(ctx context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error) {
	jobs, err := s.store.ListJobs(ctx, name, match)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListJobsFailed, err)
	}
	return jobs, nil
}

// Start re-arms every persisted job; overdue jobs fire immediately
func (s *Scheduler) Start(ctx context.Context) error {
	jobs, err := s.store.ListJobs(ctx, "", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgListJobsFailed, err)
	}
	for _, job := range jobs {
		s.arm(job)
	}
	logger.FromContext(ctx).Info(LogMsgJobsReloaded, "count", len(jobs))
	return nil
}

// Stop stops interval jobs and pending timers. Persisted jobs survive for the next Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	_ = s.timers.Shutdown(ctx)
}

func (s *Scheduler) arm(job domain.ScheduledJob) {
	delay := job.RunAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers.Arm(job.ID.String(), delay, func() {
		s.workerPool.Enqueue(&firedJob{scheduler: s, job: job})
	})
}

// firedJob claims a due job and runs its handler on a pool worker
type firedJob struct {
	scheduler *Scheduler
	job       domain.ScheduledJob
}

func (f *firedJob) Name() string { return f.job.Name }

func (f *firedJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	claimed, err := f.scheduler.store.ClaimJob(ctx, f.job.ID, f.job.RunAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgClaimJobFailed, err)
	}
	if !claimed {
		log.Debug(LogMsgJobAlreadyClaimed, "job", f.job.Name, "job_id", f.job.ID)
		return nil
	}

	f.scheduler.mu.RLock()
	handler, ok := f.scheduler.handlers[f.job.Name]
	f.scheduler.mu.RUnlock()
	if !ok {
		log.Warn(LogMsgNoHandlerRegistered, "job", f.job.Name)
		return nil
	}

	metrics.SchedulerJobsFired.WithLabelValues(f.job.Name).Inc()
	log.Debug(LogMsgJobFiring, "job", f.job.Name, "job_id", f.job.ID)
	if err := handler(ctx, f.job); err != nil {
		return fmt.Errorf("%s: %s: %w", ErrMsgHandlerFailed, f.job.Name, err)
	}
	return nil
}

func copyPayload(p map[string]string) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
