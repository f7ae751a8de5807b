package raid

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/encounter"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
)

type turnResult struct {
	raid          *domain.Raid
	participant   domain.RaidParticipant
	outcome       encounter.Outcome
	penalty       int
	adjusted      int
	monsterBefore int
	heartsBefore  int
	poolExhausted bool
}

// TakeTurn resolves one action. The base roll is drawn once; everything that
// depends on raid state, including the penalty, is recomputed on every attempt.
func (s *service) TakeTurn(ctx context.Context, raidID, characterID uuid.UUID) (res *domain.BattleResult, err error) {
	ctx, span := s.startSpan(ctx, SpanTakeTurn, raidID)
	span.SetAttributes(attribute.String(AttrCharacterID, characterID.String()))
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)

	loaded, err := s.loadActiveRaid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	idx, err := validateTurn(loaded, characterID)
	if err != nil {
		return nil, err
	}
	isMod := loaded.Participants[idx].IsModCharacter
	if !isMod {
		// a skip must not fire while the turn resolves
		if _, cerr := s.timer.Cancel(ctx, raidID); cerr != nil {
			log.Warn(LogMsgCancelJobsFailed, "raid_id", raidID, "error", cerr)
		}
	}

	roll := s.roller.Roll()
	span.SetAttributes(attribute.Int(AttrTier, loaded.Monster.Tier))

	out, err := retry(ctx, OpTurn, func(ctx context.Context, attempt int) (turnResult, error) {
		r := loaded
		loaded = nil
		if r == nil {
			var lerr error
			if r, lerr = s.loadActiveRaid(ctx, raidID); lerr != nil {
				return turnResult{}, lerr
			}
		}
		i, verr := validateTurn(r, characterID)
		if verr != nil {
			return turnResult{}, verr
		}
		tr, rerr := s.resolveTurn(ctx, r, i, roll)
		if rerr != nil {
			return turnResult{}, rerr
		}
		if uerr := s.updateRaid(ctx, r); uerr != nil {
			return turnResult{}, uerr
		}
		return tr, nil
	})
	if err != nil {
		if !isMod {
			s.restoreSkip(ctx, raidID)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int(AttrAttempts, out.Attempts))

	tr := out.Value
	r := tr.raid
	metrics.RaidTurns.WithLabelValues(metrics.TierBand(r.Monster.Tier, domain.HighTierCutoff)).Inc()

	result := &domain.BattleResult{
		RaidID:                r.ID,
		CharacterID:           characterID,
		Roll:                  roll,
		Penalty:               tr.penalty,
		AdjustedRoll:          tr.adjusted,
		DamageDealt:           tr.outcome.DamageDealt,
		DamageTaken:           tr.outcome.DamageTaken,
		MonsterHeartsBefore:   tr.monsterBefore,
		MonsterHeartsAfter:    tr.outcome.MonsterHeartsAfter,
		CharacterHeartsBefore: tr.heartsBefore,
		CharacterHeartsAfter:  tr.outcome.CharacterHeartsAfter,
		Narrative:             tr.outcome.Narrative,
		RaidStatus:            r.Status,
		Defeated:              r.Status == domain.RaidStatusDefeated,
		Fled:                  r.Status == domain.RaidStatusFled,
		Attempts:              out.Attempts,
	}

	result.SecondaryFailures = s.persistTurnSide(ctx, r, &tr, result)
	s.publish(ctx, event.NewRaidEvent(event.RaidTurn, r, &tr.participant))

	switch {
	case r.Status == domain.RaidStatusDefeated:
		result.SecondaryFailures = append(result.SecondaryFailures, s.endRaid(ctx, r, &tr.participant)...)
		result.SecondaryFailures = appendIf(result.SecondaryFailures, s.notifyExpedition(ctx, r, domain.RaidOutcomeDefeated))
	case tr.poolExhausted:
		result.SecondaryFailures = append(result.SecondaryFailures, s.endRaid(ctx, r, &tr.participant)...)
		result.SecondaryFailures = appendIf(result.SecondaryFailures, s.failExpedition(ctx, r))
	case !tr.participant.IsModCharacter:
		result.SecondaryFailures = appendIf(result.SecondaryFailures, s.rescheduleSkip(ctx, r))
	}

	if holder := r.CurrentHolder(); holder != nil && r.IsActive() {
		id := holder.CharacterID
		result.NextTurnCharacterID = &id
		result.NextTurnUserID = holder.UserID
	}

	log.Info(LogMsgTurnResolved, "raid_id", r.ID, "character_id", characterID, "strategy", tr.outcome.Strategy,
		"roll", roll, "penalty", tr.penalty, "dealt", tr.outcome.DamageDealt, "taken", tr.outcome.DamageTaken,
		"monster_hearts", r.Monster.CurrentHearts, "status", r.Status, "attempts", out.Attempts)
	return result, nil
}

// validateTurn checks turn ownership and returns the caller's participant index.
// Losing the turn and having already acted share one error so racing callers
// cannot tell which happened.
func validateTurn(r *domain.Raid, characterID uuid.UUID) (int, error) {
	idx := r.ParticipantIndex(characterID)
	if idx < 0 {
		return -1, domain.ErrNotInRaid
	}
	p := &r.Participants[idx]
	if p.IsModCharacter {
		return idx, nil
	}
	if r.CurrentTurn != idx || p.HasTakenActionThisTurn {
		return -1, domain.ErrNotYourTurn
	}
	if isKnockedOut(r, p) {
		return -1, domain.ErrCharacterKnockedOut
	}
	return idx, nil
}

// resolveTurn computes the outcome and applies it to r in memory
func (s *service) resolveTurn(ctx context.Context, r *domain.Raid, idx int, roll int) (turnResult, error) {
	p := &r.Participants[idx]
	isMod := p.IsModCharacter

	penalty := RollPenalty(r.NonModCount(), r.Monster.Tier)
	adjusted := AdjustRoll(roll, penalty)

	state := p.CharacterState
	if r.IsExpeditionLinked() {
		// the pool is the party's only health while traveling
		pool, err := s.activePool(ctx, *r.ExpeditionID)
		if err != nil {
			return turnResult{}, err
		}
		state.Hearts = pool.TotalHearts
		state.Stamina = pool.TotalStamina
		state.KO = false
	}

	outcome, err := s.resolver.Resolve(encounter.Input{
		CharacterName: p.Name,
		Character:     state,
		IsMod:         isMod,
		Monster:       r.Monster,
		Roll:          roll,
		AdjustedRoll:  adjusted,
	})
	if err != nil {
		return turnResult{}, fmt.Errorf("%s: %w", ErrContextFailedToResolve, err)
	}

	tr := turnResult{
		raid:          r,
		outcome:       outcome,
		penalty:       penalty,
		adjusted:      adjusted,
		monsterBefore: r.Monster.CurrentHearts,
		heartsBefore:  state.Hearts,
	}

	p.Damage += outcome.DamageDealt
	p.RoundsParticipated++
	if !r.IsExpeditionLinked() && !isMod {
		p.CharacterState.Hearts = outcome.CharacterHeartsAfter
		p.CharacterState.Stamina = outcome.StaminaAfter
		p.CharacterState.KO = outcome.KnockedOut
	}
	r.Monster.CurrentHearts = outcome.MonsterHeartsAfter
	r.Analytics.TotalDamage += outcome.DamageDealt
	r.Analytics.TurnsTaken++

	now := s.now().UTC()
	switch {
	case r.Monster.CurrentHearts == 0:
		r.Status = domain.RaidStatusDefeated
		r.EndedAt = &now
	case r.IsExpeditionLinked() && outcome.CharacterHeartsAfter == 0:
		r.Status = domain.RaidStatusFled
		r.EndedAt = &now
		tr.poolExhausted = true
	case !isMod:
		p.HasTakenActionThisTurn = true
		tr.participant = *p
		advanceTurn(r)
		return tr, nil
	}

	tr.participant = *p
	return tr, nil
}

// persistTurnSide writes the character side of a committed turn exactly once
func (s *service) persistTurnSide(ctx context.Context, r *domain.Raid, tr *turnResult, result *domain.BattleResult) []string {
	var failed []string
	out := tr.outcome
	characterID := tr.participant.CharacterID

	switch {
	case r.IsExpeditionLinked():
		hearts := out.CharacterHeartsAfter
		result.PoolHeartsAfter = &hearts
		if out.DamageTaken == 0 || s.pools == nil {
			break
		}
		failed = appendIf(failed, s.secondary(ctx, EffectPoolDebit, func(ctx context.Context) error {
			pool, err := s.pools.ApplyRaidDamage(ctx, *r.ExpeditionID, out.DamageTaken)
			if err != nil {
				return err
			}
			hearts = pool.TotalHearts
			return nil
		}))

	case tr.participant.IsModCharacter:
		// mods take no damage

	case s.resolver.PersistsCharacter(r.Monster.Tier):
		failed = appendIf(failed, s.secondary(ctx, EffectCharacterWrite, func(ctx context.Context) error {
			return s.resolver.Commit(ctx, characterID, r.Monster.Tier, false, out)
		}))

	default:
		failed = appendIf(failed, s.secondary(ctx, EffectCharacterWrite, func(ctx context.Context) error {
			return s.characters.UpdateCombatState(ctx, characterID, domain.CombatStateUpdate{
				Hearts:     out.CharacterHeartsAfter,
				Stamina:    out.StaminaAfter,
				KnockedOut: out.KnockedOut,
			})
		}))
	}
	return failed
}

// failExpedition fails the linked expedition once its pool is exhausted
func (s *service) failExpedition(ctx context.Context, r *domain.Raid) string {
	if !r.IsExpeditionLinked() || s.pools == nil {
		return ""
	}
	return s.secondary(ctx, EffectExpeditionFailure, func(ctx context.Context) error {
		_, err := s.pools.FailExpedition(ctx, *r.ExpeditionID, r.ID)
		return err
	})
}
