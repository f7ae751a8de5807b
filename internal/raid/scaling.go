package raid

import (
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// ScaleMaxHearts returns the monster's max hearts for a party of n
func ScaleMaxHearts(base, n int) int {
	if n <= domain.ScalingPartyThreshold {
		return base
	}
	return base + domain.HeartsPerExtraMember*(n-domain.ScalingPartyThreshold)
}

// ApplyScaling rescales the monster for the current party size, keeping the
// damage already dealt. Every participant, mod or not, occupies a slot.
func ApplyScaling(r *domain.Raid) {
	if r.Analytics.BaseMonsterHearts <= 0 {
		r.Analytics.BaseMonsterHearts = r.Monster.MaxHearts
	}

	dealt := r.Monster.MaxHearts - r.Monster.CurrentHearts
	newMax := ScaleMaxHearts(r.Analytics.BaseMonsterHearts, len(r.Participants))

	r.Monster.MaxHearts = newMax
	r.Monster.CurrentHearts = clampInt(newMax-dealt, 0, newMax)
}

// RollPenalty grows with party size and monster tier, capped at domain.MaxRollPenalty
func RollPenalty(nonModCount, tier int) int {
	penalty := domain.PenaltyPerExtraMember*max(0, nonModCount-1) + max(0, tier-domain.PenaltyTierBase)
	return min(domain.MaxRollPenalty, penalty)
}

// AdjustRoll applies the penalty without dropping below the minimum roll
func AdjustRoll(roll, penalty int) int {
	return max(domain.MinRoll, roll-penalty)
}

// ExpiryForTier is how long a village raid lasts: linear between the min and max
// duration tiers, clamped outside them
func ExpiryForTier(tier int) time.Duration {
	tier = clampInt(tier, domain.MinDurationTier, domain.MaxDurationTier)
	span := domain.MaxVillageRaidDuration - domain.MinVillageRaidDuration
	steps := domain.MaxDurationTier - domain.MinDurationTier
	return domain.MinVillageRaidDuration + span*time.Duration(tier-domain.MinDurationTier)/time.Duration(steps)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
