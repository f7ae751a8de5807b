package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/raid"
)

// RaidJobs is the part of the raid service driven by scheduled jobs
type RaidJobs interface {
	SkipTurn(ctx context.Context, payload raid.TurnSkipPayload) (bool, error)
	CheckExpiration(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error)
	SweepExpired(ctx context.Context) (int, error)
}

// JobRegistry accepts one-time job handlers and interval jobs
type JobRegistry interface {
	Register(name string, handler func(ctx context.Context, job domain.ScheduledJob) error)
	Schedule(interval time.Duration, job Job)
}

// RaidWorker turns fired turn-skip and expiration jobs into raid operations
// and runs the periodic sweep that backs them up
type RaidWorker struct {
	raids         RaidJobs
	sweepInterval time.Duration
}

// NewRaidWorker creates a new RaidWorker. A non-positive interval uses DefaultRaidSweepInterval.
func NewRaidWorker(raids RaidJobs, sweepInterval time.Duration) *RaidWorker {
	if sweepInterval <= 0 {
		sweepInterval = DefaultRaidSweepInterval
	}
	return &RaidWorker{raids: raids, sweepInterval: sweepInterval}
}

// Register wires the worker's handlers and sweep into the registry
func (w *RaidWorker) Register(reg JobRegistry) {
	reg.Register(domain.JobNameTurnSkip, w.HandleTurnSkip)
	reg.Register(domain.JobNameRaidExpire, w.HandleRaidExpire)
	reg.Schedule(w.sweepInterval, &raidSweepJob{worker: w})

	logger.Info(LogMsgRaidWorkerStarted, "sweep_interval", w.sweepInterval)
}

// HandleTurnSkip skips the idle holder named in the job. A malformed payload
// can never succeed, so it is logged and dropped rather than returned.
func (w *RaidWorker) HandleTurnSkip(ctx context.Context, job domain.ScheduledJob) error {
	log := logger.FromContext(ctx)

	payload, err := raid.ParseTurnSkipPayload(job.Payload)
	if err != nil {
		log.Warn(LogMsgInvalidJobPayload, "job", job.Name, "job_id", job.ID, "error", err)
		return nil
	}
	log.Debug(LogMsgTurnSkipFired, "raid_id", payload.RaidID, "character_id", payload.CharacterID)

	skipped, err := w.raids.SkipTurn(ctx, payload)
	if err != nil {
		return err
	}
	if skipped {
		log.Info(LogMsgTurnSkipApplied, "raid_id", payload.RaidID, "character_id", payload.CharacterID)
	} else {
		log.Debug(LogMsgTurnSkipIgnored, "raid_id", payload.RaidID)
	}
	return nil
}

// HandleRaidExpire fails the raid if it is past its deadline
func (w *RaidWorker) HandleRaidExpire(ctx context.Context, job domain.ScheduledJob) error {
	log := logger.FromContext(ctx)

	raidID, err := raid.ParseRaidIDPayload(job.Payload)
	if err != nil {
		log.Warn(LogMsgInvalidJobPayload, "job", job.Name, "job_id", job.ID, "error", err)
		return nil
	}
	log.Debug(LogMsgRaidExpireFired, "raid_id", raidID)

	_, err = w.raids.CheckExpiration(ctx, raidID)
	return err
}

// Sweep runs one pass of the expired raid sweep
func (w *RaidWorker) Sweep(ctx context.Context) error {
	log := logger.FromContext(ctx)

	n, err := w.raids.SweepExpired(ctx)
	if err != nil {
		log.Error(LogMsgRaidSweepFailed, "error", err)
		return err
	}
	if n > 0 {
		log.Info(LogMsgRaidSweepCompleted, "expired", n)
	}
	return nil
}

type raidSweepJob struct {
	worker *RaidWorker
}

func (j *raidSweepJob) Name() string { return JobNameRaidSweep }

func (j *raidSweepJob) Process(ctx context.Context) error {
	return j.worker.Sweep(ctx)
}
