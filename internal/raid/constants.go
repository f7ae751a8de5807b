package raid

import "time"

// TracerName identifies spans opened by the raid lifecycle manager
const TracerName = "github.com/osse101/BrandishRaid_Go/internal/raid"

// Span names
const (
	SpanStartRaid       = "raid.Start"
	SpanJoinRaid        = "raid.Join"
	SpanTakeTurn        = "raid.TakeTurn"
	SpanLeaveRaid       = "raid.Leave"
	SpanRetreatRaid     = "raid.Retreat"
	SpanCheckExpiration = "raid.CheckExpiration"
	SpanSkipTurn        = "raid.SkipTurn"
	SpanSweepExpired    = "raid.SweepExpired"
)

// Span attribute keys
const (
	AttrRaidID      = "raid.id"
	AttrCharacterID = "raid.character_id"
	AttrTier        = "raid.tier"
	AttrAttempts    = "raid.attempts"
)

// Operation labels for retries and metrics
const (
	OpStart   = "start"
	OpJoin    = "join"
	OpTurn    = "turn"
	OpLeave   = "leave"
	OpRetreat = "retreat"
	OpExpire  = "expire"
	OpSkip    = "skip"
)

// Secondary effect names reported in BattleResult.SecondaryFailures
const (
	EffectPoolDebit         = "pool_debit"
	EffectCharacterWrite    = "character_write"
	EffectSkipTimer         = "skip_timer"
	EffectExpeditionFailure = "expedition_failure"
	EffectExpeditionOutcome = "expedition_outcome"
	EffectCancelJobs        = "cancel_jobs"
)

// Terminal raid cache
const (
	// CacheSchemaVersion invalidates cached raids when the document shape changes
	CacheSchemaVersion = "1.0"

	DefaultCacheSize = 512
	DefaultCacheTTL  = 10 * time.Minute
)

// Error context constants
const (
	ErrContextFailedToGetRaid      = "failed to get raid"
	ErrContextFailedToCreateRaid   = "failed to create raid"
	ErrContextFailedToUpdateRaid   = "failed to update raid"
	ErrContextFailedToGetCharacter = "failed to get character"
	ErrContextFailedToGetPool      = "failed to get party pool"
	ErrContextFailedToListRaids    = "failed to list raids"
	ErrContextFailedToResolve      = "failed to resolve turn"
	ErrContextInvalidSkipPayload   = "invalid turn skip payload"

	ErrMsgSkipStale = "turn skip no longer applies"
)

// Log message constants
const (
	LogMsgRaidStarted             = "Raid started"
	LogMsgRaidJoined              = "Character joined raid"
	LogMsgTurnResolved            = "Raid turn resolved"
	LogMsgRaidLeft                = "Character left raid"
	LogMsgRaidRetreated           = "Party retreated from raid"
	LogMsgRaidExpired             = "Raid expired"
	LogMsgRaidEnded               = "Raid ended"
	LogMsgTurnSkipped             = "Turn skipped"
	LogMsgSkipTooEarly            = "Turn skip fired early, re-arming"
	LogMsgSkipStale               = "Turn skip no longer applies"
	LogMsgExpireJobScheduleFailed = "Failed to schedule raid expiration, sweep will catch it"
	LogMsgSkipTimerFailed         = "Failed to schedule turn skip timer"
	LogMsgSkipTimerArmed          = "Turn skip armed"
	LogMsgCancelJobsFailed        = "Failed to cancel raid jobs"
	LogMsgSecondaryFailed         = "Secondary raid effect failed"
	LogMsgSkipTimerRearmed        = "Re-armed missing turn skip timer"
	LogMsgSweepCheckFailed        = "Expiration check failed during sweep"
	LogMsgRaidCacheHit            = "Terminal raid served from cache"
)
