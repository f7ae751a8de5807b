package raid

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
)

// errSkipStale ends a skip attempt that no longer applies to the raid
var errSkipStale = errors.New(ErrMsgSkipStale)

// SkipTurn advances past a holder who did not act in time. It does nothing if
// the job fired early or the turn has moved on since it was scheduled.
func (s *service) SkipTurn(ctx context.Context, payload TurnSkipPayload) (skipped bool, err error) {
	ctx, span := s.startSpan(ctx, SpanSkipTurn, payload.RaidID)
	span.SetAttributes(attribute.String(AttrCharacterID, payload.CharacterID.String()))
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)

	if !s.timer.Due(payload.ScheduledAt, s.now()) {
		log.Info(LogMsgSkipTooEarly, "raid_id", payload.RaidID, "scheduled_at", payload.ScheduledAt)
		return false, s.rearmEarlySkip(ctx, payload)
	}

	var skippedHolder domain.RaidParticipant
	res, err := retry(ctx, OpSkip, func(ctx context.Context, attempt int) (*domain.Raid, error) {
		r, err := s.loadRaid(ctx, payload.RaidID)
		if err != nil {
			return nil, err
		}
		holder := r.CurrentHolder()
		if !r.IsActive() || r.IsExpeditionLinked() || holder == nil || holder.CharacterID != payload.CharacterID {
			return nil, errSkipStale
		}
		skippedHolder = *holder

		advanceTurn(r)
		if err := s.updateRaid(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	})
	if errors.Is(err, errSkipStale) || errors.Is(err, domain.ErrRaidNotFound) {
		log.Debug(LogMsgSkipStale, "raid_id", payload.RaidID, "character_id", payload.CharacterID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	r := res.Value
	metrics.RaidTurnSkips.Inc()
	s.rescheduleSkip(ctx, r)
	s.publish(ctx, event.NewRaidEvent(event.RaidSkipped, r, &skippedHolder))

	log.Info(LogMsgTurnSkipped, "raid_id", r.ID, "character_id", payload.CharacterID)
	return true, nil
}

// rearmEarlySkip restores the job an early fire consumed, as long as the
// payload's holder still holds the turn
func (s *service) rearmEarlySkip(ctx context.Context, payload TurnSkipPayload) error {
	r, err := s.loadRaid(ctx, payload.RaidID)
	if errors.Is(err, domain.ErrRaidNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	holder := r.CurrentHolder()
	if !r.IsActive() || r.IsExpeditionLinked() || holder == nil || holder.CharacterID != payload.CharacterID {
		return nil
	}
	if _, err := s.timer.Rearm(ctx, payload); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSkipTimerFailed, "raid_id", r.ID, "error", err)
		return err
	}
	return nil
}
