package raid

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

type leaveResult struct {
	raid     *domain.Raid
	leaver   domain.RaidParticipant
	heldTurn bool
}

// LeaveRaid removes one participant from a village raid. Damage already dealt
// stays dealt; only the party-size scaling is recomputed.
func (s *service) LeaveRaid(ctx context.Context, raidID, characterID uuid.UUID) (lr *domain.LeaveResult, err error) {
	ctx, span := s.startSpan(ctx, SpanLeaveRaid, raidID)
	span.SetAttributes(attribute.String(AttrCharacterID, characterID.String()))
	defer func() { endSpan(span, err) }()

	res, err := retry(ctx, OpLeave, func(ctx context.Context, attempt int) (leaveResult, error) {
		r, err := s.loadActiveRaid(ctx, raidID)
		if err != nil {
			return leaveResult{}, err
		}
		if r.IsExpeditionLinked() {
			return leaveResult{}, domain.ErrCannotLeaveExpeditionRaid
		}
		idx := r.ParticipantIndex(characterID)
		if idx < 0 {
			return leaveResult{}, domain.ErrNotInRaid
		}

		leaver := r.Participants[idx]
		heldTurn := removeParticipant(r, idx)
		ApplyScaling(r)

		if err := s.updateRaid(ctx, r); err != nil {
			return leaveResult{}, err
		}
		return leaveResult{raid: r, leaver: leaver, heldTurn: heldTurn}, nil
	})
	if err != nil {
		return nil, err
	}

	r := res.Value.raid
	leaver := res.Value.leaver
	if res.Value.heldTurn {
		s.rescheduleSkip(ctx, r)
	}

	lr = &domain.LeaveResult{
		EligibleForLoot: leaver.Damage >= domain.LootMinDamage || leaver.RoundsParticipated >= domain.LootMinRounds,
	}
	if holder := r.CurrentHolder(); holder != nil {
		id := holder.CharacterID
		lr.NextTurnCharacterID = &id
		lr.NextTurnUserID = holder.UserID
		lr.NextTurnName = holder.Name
	}

	s.publish(ctx, event.NewRaidEvent(event.RaidLeft, r, &leaver))
	logger.FromContext(ctx).Info(LogMsgRaidLeft, "raid_id", r.ID, "character_id", characterID,
		"eligible_for_loot", lr.EligibleForLoot, "participants", len(r.Participants), "max_hearts", r.Monster.MaxHearts)
	return lr, nil
}

// RetreatRaid ends the raid as fled. For expedition raids any party member may
// call it and the expedition journals the retreat.
func (s *service) RetreatRaid(ctx context.Context, raidID, characterID uuid.UUID) (r *domain.Raid, err error) {
	ctx, span := s.startSpan(ctx, SpanRetreatRaid, raidID)
	span.SetAttributes(attribute.String(AttrCharacterID, characterID.String()))
	defer func() { endSpan(span, err) }()

	var actor *domain.RaidParticipant
	res, err := retry(ctx, OpRetreat, func(ctx context.Context, attempt int) (*domain.Raid, error) {
		r, err := s.loadActiveRaid(ctx, raidID)
		if err != nil {
			return nil, err
		}
		if err := s.canRetreat(ctx, r, characterID); err != nil {
			return nil, err
		}
		if idx := r.ParticipantIndex(characterID); idx >= 0 {
			p := r.Participants[idx]
			actor = &p
		}

		now := s.now().UTC()
		r.Status = domain.RaidStatusFled
		r.EndedAt = &now
		if err := s.updateRaid(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}

	r = res.Value
	s.endRaid(ctx, r, actor)
	s.notifyExpedition(ctx, r, domain.RaidOutcomeFled)

	logger.FromContext(ctx).Info(LogMsgRaidRetreated, "raid_id", r.ID, "character_id", characterID)
	return r, nil
}

func (s *service) canRetreat(ctx context.Context, r *domain.Raid, characterID uuid.UUID) error {
	if r.ParticipantIndex(characterID) >= 0 {
		return nil
	}
	if !r.IsExpeditionLinked() {
		return domain.ErrNotInRaid
	}
	pool, err := s.activePool(ctx, *r.ExpeditionID)
	if err != nil {
		return err
	}
	if !pool.HasCharacter(characterID) {
		return domain.ErrNotInExpedition
	}
	return nil
}
