// Package encounter computes one raid turn's damage exchange.
//
// Resolution is pure: the same Input always yields the same Outcome. Rules are
// selected from a Table keyed by monster tier range, and every rule returns the
// same Outcome shape.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

// Input is everything a rule may look at
type Input struct {
	CharacterName string
	Character     domain.CharacterState
	IsMod         bool
	Monster       domain.Monster
	Roll          int
	AdjustedRoll  int
}

// Outcome is the normalized result of one turn
type Outcome struct {
	Strategy             string
	DamageDealt          int
	DamageTaken          int
	MonsterHeartsAfter   int
	CharacterHeartsAfter int
	StaminaAfter         int
	KnockedOut           bool
	Narrative            string
}

// Strategy resolves turns for a band of tiers
type Strategy interface {
	Name() string
	Resolve(in Input) Outcome

	// PersistsCharacter reports whether Commit writes the character for this rule.
	// When false the caller owns the write.
	PersistsCharacter() bool
}

type tierRange struct {
	min, max int
	strategy Strategy
}

// Table maps tier ranges to strategies
type Table struct {
	ranges []tierRange
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// DefaultTable wires the incremental rule below domain.HighTierCutoff and the
// per-tier table from the cutoff to domain.MaxMonsterTier
func DefaultTable() *Table {
	t := NewTable()
	_ = t.Register(domain.MinMonsterTier, domain.HighTierCutoff-1, IncrementalStrategy{})
	_ = t.Register(domain.HighTierCutoff, domain.MaxMonsterTier, NewTierTableStrategy(DefaultTierProfiles()))
	return t
}

// Register adds a strategy for tiers min..max inclusive
func (t *Table) Register(min, max int, s Strategy) error {
	if min > max {
		return fmt.Errorf("%s: %d..%d", ErrMsgInvalidTierRange, min, max)
	}
	for _, r := range t.ranges {
		if min <= r.max && r.min <= max {
			return fmt.Errorf("%s: %d..%d vs %s %d..%d", ErrMsgOverlappingRange, min, max, r.strategy.Name(), r.min, r.max)
		}
	}
	t.ranges = append(t.ranges, tierRange{min: min, max: max, strategy: s})
	sort.Slice(t.ranges, func(i, j int) bool { return t.ranges[i].min < t.ranges[j].min })
	return nil
}

// StrategyFor returns the strategy covering tier
func (t *Table) StrategyFor(tier int) (Strategy, error) {
	for _, r := range t.ranges {
		if tier >= r.min && tier <= r.max {
			return r.strategy, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNoStrategy, tier)
}

// ErrNoStrategy is returned when a tier has no registered rule
var ErrNoStrategy = errors.New(ErrMsgNoStrategyForTier)

// Resolver dispatches turns through a Table and owns the character write for
// strategies that persist it
type Resolver struct {
	table      *Table
	characters repository.Character
}

// NewResolver creates a resolver; a nil table means DefaultTable
func NewResolver(table *Table, characters repository.Character) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table, characters: characters}
}

// Resolve computes the outcome without side effects. Mod characters always
// one-hit-kill regardless of tier.
func (r *Resolver) Resolve(in Input) (Outcome, error) {
	if in.IsMod {
		return ModStrategy{}.Resolve(in), nil
	}
	s, err := r.table.StrategyFor(in.Monster.Tier)
	if err != nil {
		return Outcome{}, err
	}
	return s.Resolve(in), nil
}

// PersistsCharacter reports whether Commit writes the character for a tier
func (r *Resolver) PersistsCharacter(tier int) bool {
	s, err := r.table.StrategyFor(tier)
	return err == nil && s.PersistsCharacter()
}

// Commit writes the character side of an outcome for strategies that own it.
// It is a no-op for other tiers and for mod characters.
func (r *Resolver) Commit(ctx context.Context, characterID uuid.UUID, tier int, isMod bool, out Outcome) error {
	if isMod || !r.PersistsCharacter(tier) {
		return nil
	}
	err := r.characters.UpdateCombatState(ctx, characterID, domain.CombatStateUpdate{
		Hearts:     out.CharacterHeartsAfter,
		Stamina:    out.StaminaAfter,
		KnockedOut: out.KnockedOut,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitFailed, err)
	}
	return nil
}

// finish clamps damage against both sides and fills the derived fields
func finish(in Input, strategy string, dealt, taken int, narrative string) Outcome {
	dealt = clamp(dealt, 0, in.Monster.CurrentHearts)
	taken = clamp(taken, 0, in.Character.Hearts)

	out := Outcome{
		Strategy:             strategy,
		DamageDealt:          dealt,
		DamageTaken:          taken,
		MonsterHeartsAfter:   in.Monster.CurrentHearts - dealt,
		CharacterHeartsAfter: in.Character.Hearts - taken,
		StaminaAfter:         in.Character.Stamina,
		Narrative:            narrative,
	}
	out.KnockedOut = out.CharacterHeartsAfter <= 0
	if out.KnockedOut && taken > 0 {
		out.Narrative += fmt.Sprintf(NarrativeKOTail, in.CharacterName)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
