package raid

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

type joinResult struct {
	raid        *domain.Raid
	participant domain.RaidParticipant
	armTimer    bool
}

func (s *service) JoinRaid(ctx context.Context, raidID, characterID uuid.UUID) (p *domain.RaidParticipant, err error) {
	ctx, span := s.startSpan(ctx, SpanJoinRaid, raidID)
	span.SetAttributes(attribute.String(AttrCharacterID, characterID.String()))
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)

	// The character and party membership do not change with the raid version,
	// so they are read once and only the raid is revalidated per attempt.
	var character *domain.Character
	var pool *domain.PartyPool

	res, err := retry(ctx, OpJoin, func(ctx context.Context, attempt int) (joinResult, error) {
		r, err := s.loadActiveRaid(ctx, raidID)
		if err != nil {
			return joinResult{}, err
		}

		if character == nil {
			if character, err = s.loadCharacter(ctx, characterID); err != nil {
				return joinResult{}, err
			}
		}
		snapshot := character.Snapshot()
		if snapshot.KO && len(r.Participants) == 0 {
			return joinResult{}, domain.ErrCannotStartAloneWhileKO
		}

		if r.IsExpeditionLinked() {
			if pool == nil {
				if pool, err = s.activePool(ctx, *r.ExpeditionID); err != nil {
					return joinResult{}, err
				}
			}
			if !pool.HasCharacter(character.ID) {
				return joinResult{}, domain.ErrNotInExpedition
			}
		} else if !strings.EqualFold(strings.TrimSpace(character.CurrentVillage), r.Village) {
			return joinResult{}, domain.ErrWrongVillage
		}

		if !character.IsModCharacter && r.NonModCount() >= domain.MaxRaidParticipants {
			return joinResult{}, domain.ErrRaidFull
		}
		if r.HasUser(character.UserID) || r.ParticipantIndex(character.ID) >= 0 {
			return joinResult{}, domain.ErrAlreadyJoined
		}

		participant := domain.RaidParticipant{
			UserID:         character.UserID,
			CharacterID:    character.ID,
			Name:           character.Name,
			JoinedAt:       s.now().UTC(),
			IsModCharacter: character.IsModCharacter,
			CharacterState: snapshot,
		}
		r.Participants = append(r.Participants, participant)
		ApplyScaling(r)
		normalizePointer(r)
		r.Analytics.PeakParticipants = max(r.Analytics.PeakParticipants, len(r.Participants))

		if err := s.updateRaid(ctx, r); err != nil {
			return joinResult{}, err
		}
		return joinResult{
			raid:        r,
			participant: participant,
			// later holders get their timer from the turn path
			armTimer: !participant.IsModCharacter && r.NonModCount() == 1,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	r := res.Value.raid
	if res.Value.armTimer {
		s.rescheduleSkip(ctx, r)
	}

	joined := res.Value.participant
	s.publish(ctx, event.NewRaidEvent(event.RaidJoined, r, &joined))
	log.Info(LogMsgRaidJoined, "raid_id", r.ID, "character_id", characterID, "participants", len(r.Participants),
		"max_hearts", r.Monster.MaxHearts, "attempts", res.Attempts)
	return &joined, nil
}
