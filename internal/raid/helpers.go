package raid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
)

func attrRaidID(id uuid.UUID) attribute.KeyValue {
	return attribute.String(AttrRaidID, id.String())
}

func isExhausted(err error) bool {
	return errors.Is(err, domain.ErrConcurrencyExhausted)
}

// loadRaid reads the current raid document from the store
func (s *service) loadRaid(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error) {
	r, err := s.raids.GetRaid(ctx, raidID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetRaid, err)
	}
	if !r.IsActive() {
		s.cache.Set(r)
	}
	return r, nil
}

// loadActiveRaid fails fast on terminal raids, answering from the cache when it can
func (s *service) loadActiveRaid(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error) {
	if _, ok := s.cache.Get(raidID); ok {
		return nil, domain.ErrRaidNotActive
	}
	r, err := s.loadRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	if !r.IsActive() {
		return nil, domain.ErrRaidNotActive
	}
	return r, nil
}

func (s *service) updateRaid(ctx context.Context, r *domain.Raid) error {
	if err := s.raids.UpdateRaid(ctx, r); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToUpdateRaid, err)
	}
	return nil
}

func (s *service) loadCharacter(ctx context.Context, characterID uuid.UUID) (*domain.Character, error) {
	c, err := s.characters.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetCharacter, err)
	}
	return c, nil
}

// cancelRaidJobs drops the expiration and skip jobs of a raid that just ended
func (s *service) cancelRaidJobs(ctx context.Context, raidID uuid.UUID) string {
	return s.secondary(ctx, EffectCancelJobs, func(ctx context.Context) error {
		if _, err := s.jobs.Cancel(ctx, domain.JobNameRaidExpire, raidMatch(raidID)); err != nil {
			return err
		}
		_, err := s.timer.Cancel(ctx, raidID)
		return err
	})
}

// rescheduleSkip re-arms the skip timer; a failure is logged and reported, never fatal
func (s *service) rescheduleSkip(ctx context.Context, r *domain.Raid) string {
	if _, err := s.timer.Schedule(ctx, r); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSkipTimerFailed, "raid_id", r.ID, "error", err)
		return EffectSkipTimer
	}
	return ""
}

// restoreSkip re-arms a skip timer that a failed turn cancelled. A job armed
// in the meantime by another path is left alone.
func (s *service) restoreSkip(ctx context.Context, raidID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	if jobs, err := s.timer.Pending(ctx, raidID); err == nil && len(jobs) > 0 {
		return
	}
	r, err := s.loadRaid(ctx, raidID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgSkipTimerFailed, "raid_id", raidID, "error", err)
		return
	}
	if r.IsActive() {
		s.rescheduleSkip(ctx, r)
	}
}

// endRaid runs the bookkeeping shared by every path that makes a raid terminal
func (s *service) endRaid(ctx context.Context, r *domain.Raid, actor *domain.RaidParticipant) []string {
	var failed []string
	if f := s.cancelRaidJobs(ctx, r.ID); f != "" {
		failed = append(failed, f)
	}

	s.cache.Set(r)
	metrics.RaidsEnded.WithLabelValues(string(r.Status)).Inc()
	metrics.RaidActive.Dec()
	s.publish(ctx, event.NewRaidEvent(event.RaidEndType(r.Status), r, actor))

	logger.FromContext(ctx).Info(LogMsgRaidEnded, "raid_id", r.ID, "status", r.Status, "turns", r.Analytics.TurnsTaken)
	return failed
}

// notifyExpedition journals a raid end for the linked expedition
func (s *service) notifyExpedition(ctx context.Context, r *domain.Raid, outcome domain.RaidOutcome) string {
	if !r.IsExpeditionLinked() || s.pools == nil {
		return ""
	}
	return s.secondary(ctx, EffectExpeditionOutcome, func(ctx context.Context) error {
		_, err := s.pools.RecordRaidOutcome(ctx, *r.ExpeditionID, r.ID, outcome)
		return err
	})
}

func appendIf(list []string, name string) []string {
	if name == "" {
		return list
	}
	return append(list, name)
}
