package raid

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// JobScheduler is the part of the scheduler the raid manager uses
type JobScheduler interface {
	ScheduleOneTime(ctx context.Context, name string, runAt time.Time, payload map[string]string, keyFields ...string) (*domain.ScheduledJob, error)
	Cancel(ctx context.Context, name string, match map[string]string) (int, error)
	Pending(ctx context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error)
}

// TurnSkipPayload is the decoded payload of a turn skip job
type TurnSkipPayload struct {
	RaidID      uuid.UUID
	CharacterID uuid.UUID
	ScheduledAt time.Time
}

// ParseTurnSkipPayload decodes a turn skip job payload
func ParseTurnSkipPayload(payload map[string]string) (TurnSkipPayload, error) {
	var p TurnSkipPayload
	var err error

	if p.RaidID, err = uuid.Parse(payload[domain.PayloadKeyRaidID]); err != nil {
		return p, fmt.Errorf("%s: %s: %w", ErrContextInvalidSkipPayload, domain.PayloadKeyRaidID, err)
	}
	if p.CharacterID, err = uuid.Parse(payload[domain.PayloadKeyCharacterID]); err != nil {
		return p, fmt.Errorf("%s: %s: %w", ErrContextInvalidSkipPayload, domain.PayloadKeyCharacterID, err)
	}
	if p.ScheduledAt, err = time.Parse(time.RFC3339Nano, payload[domain.PayloadKeyScheduledAt]); err != nil {
		return p, fmt.Errorf("%s: %s: %w", ErrContextInvalidSkipPayload, domain.PayloadKeyScheduledAt, err)
	}
	return p, nil
}

// ParseRaidIDPayload decodes the raid ID of a raid-keyed job
func ParseRaidIDPayload(payload map[string]string) (uuid.UUID, error) {
	id, err := uuid.Parse(payload[domain.PayloadKeyRaidID])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %s: %w", ErrContextInvalidSkipPayload, domain.PayloadKeyRaidID, err)
	}
	return id, nil
}

// TurnTimer keeps at most one pending skip job per raid. Skip jobs are keyed by
// raid ID alone, so scheduling again replaces the earlier job.
type TurnTimer struct {
	scheduler JobScheduler
	now       func() time.Time
	delay     time.Duration
}

// NewTurnTimer creates a turn timer with the standard skip delay
func NewTurnTimer(scheduler JobScheduler, now func() time.Time) *TurnTimer {
	if now == nil {
		now = time.Now
	}
	return &TurnTimer{scheduler: scheduler, now: now, delay: domain.TurnSkipDelay}
}

// Schedule cancels the raid's skip job and, when the current holder can be
// skipped, arms a new one. It returns nil when no job was armed.
func (t *TurnTimer) Schedule(ctx context.Context, r *domain.Raid) (*domain.ScheduledJob, error) {
	if _, err := t.Cancel(ctx, r.ID); err != nil {
		return nil, err
	}

	holder := r.CurrentHolder()
	if !r.IsActive() || len(r.Participants) == 0 || r.IsExpeditionLinked() || holder == nil {
		return nil, nil
	}

	now := t.now()
	payload := map[string]string{
		domain.PayloadKeyRaidID:      r.ID.String(),
		domain.PayloadKeyCharacterID: holder.CharacterID.String(),
		domain.PayloadKeyScheduledAt: now.UTC().Format(time.RFC3339Nano),
	}
	job, err := t.scheduler.ScheduleOneTime(ctx, domain.JobNameTurnSkip, now.Add(t.delay), payload, domain.PayloadKeyRaidID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug(LogMsgSkipTimerArmed, "raid_id", r.ID, "character_id", holder.CharacterID, "run_at", job.RunAt)
	return job, nil
}

// Rearm puts back a skip job that fired early. It keeps the original scheduledAt
// so the job runs once the full delay has passed.
func (t *TurnTimer) Rearm(ctx context.Context, p TurnSkipPayload) (*domain.ScheduledJob, error) {
	payload := map[string]string{
		domain.PayloadKeyRaidID:      p.RaidID.String(),
		domain.PayloadKeyCharacterID: p.CharacterID.String(),
		domain.PayloadKeyScheduledAt: p.ScheduledAt.UTC().Format(time.RFC3339Nano),
	}
	return t.scheduler.ScheduleOneTime(ctx, domain.JobNameTurnSkip, p.ScheduledAt.Add(t.delay), payload, domain.PayloadKeyRaidID)
}

// Cancel removes every skip job for the raid
func (t *TurnTimer) Cancel(ctx context.Context, raidID uuid.UUID) (int, error) {
	return t.scheduler.Cancel(ctx, domain.JobNameTurnSkip, raidMatch(raidID))
}

// Pending lists the raid's skip jobs
func (t *TurnTimer) Pending(ctx context.Context, raidID uuid.UUID) ([]domain.ScheduledJob, error) {
	return t.scheduler.Pending(ctx, domain.JobNameTurnSkip, raidMatch(raidID))
}

// Due reports whether a skip scheduled at scheduledAt may run at now
func (t *TurnTimer) Due(scheduledAt, now time.Time) bool {
	return now.Sub(scheduledAt) >= t.delay
}

func raidMatch(raidID uuid.UUID) map[string]string {
	return map[string]string{domain.PayloadKeyRaidID: raidID.String()}
}
