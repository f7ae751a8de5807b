package domain

import "time"

// Raid participation limits
const (
	// MaxRaidParticipants caps non-mod participants; mod characters bypass the cap
	MaxRaidParticipants = 10

	// LootMinDamage and LootMinRounds decide loot eligibility when a participant leaves
	LootMinDamage = 1
	LootMinRounds = 3
)

// HP scaling
const (
	// ScalingPartyThreshold is the party size up to which monster hearts are not scaled
	ScalingPartyThreshold = 5

	// HeartsPerExtraMember is added to the monster's max hearts per participant past the threshold
	HeartsPerExtraMember = 2
)

// Monster tiers
const (
	MinMonsterTier = 1
	MaxMonsterTier = 10

	// HighTierCutoff is the first tier resolved with per-tier tables instead of the incremental rule
	HighTierCutoff = 5
)

// Raid timing
const (
	// TurnSkipDelay is how long a turn holder has before the turn is skipped
	TurnSkipDelay = 60 * time.Second

	// MinVillageRaidDuration applies to tiers at or below MinDurationTier
	MinVillageRaidDuration = 10 * time.Minute

	// MaxVillageRaidDuration applies to tiers at or above MaxDurationTier
	MaxVillageRaidDuration = 20 * time.Minute

	MinDurationTier = 5
	MaxDurationTier = 10

	// ExpeditionRaidHorizon is the effectively infinite lifetime of expedition raids
	ExpeditionRaidHorizon = 100 * 365 * 24 * time.Hour
)

// Roll penalty applied before resolution
const (
	MinRoll = 1
	MaxRoll = 100

	// PenaltyPerExtraMember grows the penalty with party size
	PenaltyPerExtraMember = 2

	// PenaltyTierBase is the tier above which each tier adds one penalty point
	PenaltyTierBase = 4

	// MaxRollPenalty caps the total penalty
	MaxRollPenalty = 20
)

// Optimistic concurrency
const (
	// MaxRaidWriteAttempts is the total number of versioned write attempts per operation
	MaxRaidWriteAttempts = 3
)

// Scheduler job names
const (
	JobNameTurnSkip   = "raid.turn_skip"
	JobNameRaidExpire = "raid.expire"
)

// Scheduler payload keys
const (
	PayloadKeyRaidID      = "raidId"
	PayloadKeyCharacterID = "characterId"
	PayloadKeyScheduledAt = "scheduledAt"
)

// Cooldown scopes and subjects
const (
	CooldownScopeVillage = "village"
	CooldownScopeGlobal  = "global"

	// CooldownSubjectGlobal is the single key used for the process-wide raid cooldown
	CooldownSubjectGlobal = "*"

	// ActionRaidStart names the raid start action in cooldown bookkeeping
	ActionRaidStart = "raid_start"
)

// Default raid cooldowns
const (
	DefaultVillageRaidCooldown = 30 * time.Minute
	DefaultGlobalRaidCooldown  = 5 * time.Minute
)
