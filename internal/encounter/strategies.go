package encounter

import "fmt"

// ModStrategy is the privileged one-hit-kill rule
type ModStrategy struct{}

func (ModStrategy) Name() string            { return StrategyModStrike }
func (ModStrategy) PersistsCharacter() bool { return false }

func (ModStrategy) Resolve(in Input) Outcome {
	return finish(in, StrategyModStrike, in.Monster.CurrentHearts, 0,
		fmt.Sprintf(NarrativeModKO, in.CharacterName, in.Monster.Name))
}

// IncrementalStrategy is the low-tier rule: the monster hits for its tier,
// softened by defense, and the character deals one heart plus a share of attack.
// It writes the character's hearts itself on Commit.
type IncrementalStrategy struct{}

func (IncrementalStrategy) Name() string            { return StrategyIncremental }
func (IncrementalStrategy) PersistsCharacter() bool { return true }

func (IncrementalStrategy) Resolve(in Input) Outcome {
	tier := in.Monster.Tier
	def := in.Character.Defense
	atk := in.Character.Attack
	name, monster := in.CharacterName, in.Monster.Name

	switch roll := in.AdjustedRoll; {
	case roll >= IncrementalCritFrom:
		dealt := 2 + atk/2
		return finish(in, StrategyIncremental, dealt, 0, fmt.Sprintf(NarrativeCrit, name, monster, dealt))
	case roll >= IncrementalHitFrom:
		dealt := 1 + atk/3
		taken := max(0, tier-1-def/2)
		return finish(in, StrategyIncremental, dealt, taken, fmt.Sprintf(NarrativeHit, name, monster, dealt, taken))
	case roll >= IncrementalGrazeFrom:
		taken := max(0, tier-def/2)
		return finish(in, StrategyIncremental, 1, taken, fmt.Sprintf(NarrativeGraze, name, monster, 1, taken))
	default:
		taken := max(1, tier-def/2)
		return finish(in, StrategyIncremental, 0, taken, fmt.Sprintf(NarrativeMiss, name, monster, taken))
	}
}

// TierProfile is one row of the high-tier table
type TierProfile struct {
	HitFrom      int // adjusted roll needed to land a hit
	CritFrom     int // adjusted roll needed for a critical
	MonsterPower int // hearts the monster deals on a miss
	CritBonus    int // extra hearts dealt on a critical
}

// DefaultTierProfiles returns the table for tiers 5..10
func DefaultTierProfiles() map[int]TierProfile {
	return map[int]TierProfile{
		5:  {HitFrom: 30, CritFrom: 88, MonsterPower: 3, CritBonus: 2},
		6:  {HitFrom: 34, CritFrom: 90, MonsterPower: 3, CritBonus: 2},
		7:  {HitFrom: 38, CritFrom: 91, MonsterPower: 4, CritBonus: 3},
		8:  {HitFrom: 42, CritFrom: 93, MonsterPower: 4, CritBonus: 3},
		9:  {HitFrom: 46, CritFrom: 95, MonsterPower: 5, CritBonus: 4},
		10: {HitFrom: 50, CritFrom: 97, MonsterPower: 6, CritBonus: 5},
	}
}

// TierTableStrategy is the high-tier rule driven by a per-tier table.
// It returns in-memory hearts and leaves the character write to the caller.
type TierTableStrategy struct {
	profiles map[int]TierProfile
	fallback TierProfile
}

// NewTierTableStrategy builds the strategy; tiers missing from profiles use the highest row
func NewTierTableStrategy(profiles map[int]TierProfile) TierTableStrategy {
	s := TierTableStrategy{profiles: profiles}
	top := -1
	for tier, p := range profiles {
		if tier > top {
			top, s.fallback = tier, p
		}
	}
	return s
}

func (TierTableStrategy) Name() string            { return StrategyTierTable }
func (TierTableStrategy) PersistsCharacter() bool { return false }

func (s TierTableStrategy) Resolve(in Input) Outcome {
	p, ok := s.profiles[in.Monster.Tier]
	if !ok {
		p = s.fallback
	}
	def := in.Character.Defense
	atk := in.Character.Attack
	name, monster := in.CharacterName, in.Monster.Name

	switch roll := in.AdjustedRoll; {
	case roll >= p.CritFrom:
		dealt := 1 + atk/2 + p.CritBonus
		return finish(in, StrategyTierTable, dealt, 0, fmt.Sprintf(NarrativeCrit, name, monster, dealt))
	case roll >= p.HitFrom:
		dealt := 1 + atk/2
		taken := max(0, p.MonsterPower/2-def/3)
		return finish(in, StrategyTierTable, dealt, taken, fmt.Sprintf(NarrativeHit, name, monster, dealt, taken))
	default:
		taken := max(1, p.MonsterPower-def/3)
		return finish(in, StrategyTierTable, 0, taken, fmt.Sprintf(NarrativeMiss, name, monster, taken))
	}
}
