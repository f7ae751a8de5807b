package raid

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

type expireResult struct {
	raid    *domain.Raid
	expired bool
}

// CheckExpiration fails an active raid that is past its deadline. It is safe to
// call any number of times: a raid that is terminal or not yet due comes back
// unchanged and nothing else happens.
func (s *service) CheckExpiration(ctx context.Context, raidID uuid.UUID) (r *domain.Raid, err error) {
	ctx, span := s.startSpan(ctx, SpanCheckExpiration, raidID)
	defer func() { endSpan(span, err) }()

	res, err := retry(ctx, OpExpire, func(ctx context.Context, attempt int) (expireResult, error) {
		r, err := s.loadRaid(ctx, raidID)
		if err != nil {
			return expireResult{}, err
		}
		now := s.now().UTC()
		if !r.IsExpired(now) {
			return expireResult{raid: r}, nil
		}

		r.Status = domain.RaidStatusFailed
		r.EndedAt = &now
		for i := range r.Participants {
			r.Participants[i].CharacterState.Hearts = 0
			r.Participants[i].CharacterState.KO = true
		}
		if err := s.updateRaid(ctx, r); err != nil {
			return expireResult{}, err
		}
		return expireResult{raid: r, expired: true}, nil
	})
	if err != nil {
		return nil, err
	}

	r = res.Value.raid
	if !res.Value.expired {
		return r, nil
	}

	s.endRaid(ctx, r, nil)
	if r.IsExpeditionLinked() {
		s.notifyExpedition(ctx, r, domain.RaidOutcomeTimeout)
	} else {
		s.knockOutParticipants(ctx, r)
	}

	logger.FromContext(ctx).Info(LogMsgRaidExpired, "raid_id", r.ID, "participants", len(r.Participants))
	return r, nil
}

// knockOutParticipants writes the KO of every non-mod participant of a failed village raid
func (s *service) knockOutParticipants(ctx context.Context, r *domain.Raid) {
	for _, p := range r.Participants {
		if p.IsModCharacter {
			continue
		}
		s.secondary(ctx, EffectCharacterWrite, func(ctx context.Context) error {
			return s.characters.UpdateCombatState(ctx, p.CharacterID, domain.CombatStateUpdate{
				Hearts:     0,
				Stamina:    p.CharacterState.Stamina,
				KnockedOut: true,
			})
		})
	}
}

// SweepExpired is the backstop for lost expiration jobs and skip timers: it
// expires overdue raids and re-arms skip timers that have gone missing
func (s *service) SweepExpired(ctx context.Context) (n int, err error) {
	ctx, span := s.tracer.Start(ctx, SpanSweepExpired)
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)

	expired, err := s.raids.ListExpiredRaids(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToListRaids, err)
	}
	for _, r := range expired {
		res, cerr := s.CheckExpiration(ctx, r.ID)
		if cerr != nil {
			log.Warn(LogMsgSweepCheckFailed, "raid_id", r.ID, "error", cerr)
			continue
		}
		if res.Status == domain.RaidStatusFailed {
			n++
		}
	}

	active, err := s.raids.ListActiveRaids(ctx)
	if err != nil {
		return n, fmt.Errorf("%s: %w", ErrContextFailedToListRaids, err)
	}
	for _, r := range active {
		if r.IsExpeditionLinked() || r.CurrentHolder() == nil {
			continue
		}
		pending, perr := s.timer.Pending(ctx, r.ID)
		if perr != nil || len(pending) > 0 {
			continue
		}
		if s.rescheduleSkip(ctx, r) == "" {
			log.Info(LogMsgSkipTimerRearmed, "raid_id", r.ID)
		}
	}
	return n, nil
}
