package encounter

// Strategy names
const (
	StrategyIncremental = "incremental"
	StrategyTierTable   = "tier_table"
	StrategyModStrike   = "mod_strike"
)

// Incremental rule roll bands (adjusted roll, inclusive lower bounds)
const (
	IncrementalGrazeFrom = 21
	IncrementalHitFrom   = 61
	IncrementalCritFrom  = 90
)

// Error messages
const (
	ErrMsgNoStrategyForTier = "no encounter strategy for tier"
	ErrMsgOverlappingRange  = "tier range overlaps an existing strategy"
	ErrMsgInvalidTierRange  = "invalid tier range"
	ErrMsgCommitFailed      = "failed to persist encounter damage"
	ErrMsgRollerSeedFailed  = "failed to seed roller"
)

// Narrative templates; the presentation layer decides how to render them
const (
	NarrativeMiss   = "%s misses and %s strikes back for %d"
	NarrativeGraze  = "%s grazes %s for %d and takes %d"
	NarrativeHit    = "%s hits %s for %d and takes %d"
	NarrativeCrit   = "%s lands a critical blow on %s for %d"
	NarrativeModKO  = "%s fells %s in a single strike"
	NarrativeKOTail = "; %s is knocked out"
)
