package cooldown

import "time"

// =============================================================================
// Duration Constants
// =============================================================================

const (
	// DefaultCooldownDuration is the fallback cooldown for unknown scopes
	DefaultCooldownDuration = 5 * time.Minute

	// DefaultMemoryCapacity bounds the in-memory backend's key count
	DefaultMemoryCapacity = 4096
)

// =============================================================================
// Hash Constants
// =============================================================================

const (
	// HashSeparator joins scope and subject for keys and advisory lock hashing
	HashSeparator = ":"

	// HashMaskPositiveInt64 keeps advisory lock keys positive
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
)

// =============================================================================
// SQL Query Constants
// =============================================================================

const (
	// SQLAdvisoryLock acquires a PostgreSQL advisory transaction lock
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	// SQLSelectLastUsed retrieves the last used timestamp for a key
	SQLSelectLastUsed = `
		SELECT last_used_at
		FROM raid_cooldowns
		WHERE scope = $1 AND subject = $2
	`

	// SQLDeleteCooldown removes a cooldown record
	SQLDeleteCooldown = `DELETE FROM raid_cooldowns WHERE scope = $1 AND subject = $2`

	// SQLUpsertCooldown inserts or updates a cooldown timestamp
	SQLUpsertCooldown = `
		INSERT INTO raid_cooldowns (scope, subject, last_used_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (scope, subject) DO UPDATE
		SET last_used_at = EXCLUDED.last_used_at
	`
)

// =============================================================================
// Error Message Constants
// =============================================================================

const (
	ErrMsgCheckCooldownFailed     = "failed to check cooldown: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgAcquireLockFailed       = "failed to acquire advisory lock: %w"
	ErrMsgGetCooldownTxFailed     = "failed to get cooldown within transaction: %w"
	ErrMsgUpdateCooldownFailed    = "failed to update cooldown: %w"
	ErrMsgCommitTransactionFailed = "failed to commit cooldown transaction: %w"
	ErrMsgResetCooldownFailed     = "failed to reset cooldown: %w"
	ErrMsgGetLastUsedFailed       = "failed to get last used: %w"
)

// =============================================================================
// Log Message Constants
// =============================================================================

const (
	LogMsgDevModeBypass         = "DEV_MODE: Bypassing cooldown enforcement"
	LogMsgRaceConditionDetected = "Concurrent request found the key already on cooldown"
	LogMsgCooldownEnforced      = "Cooldown enforced successfully"
	LogMsgCooldownBypassed      = "Raid trigger bypasses cooldowns"
)

// =============================================================================
// Error Message Format Strings (for ErrOnCooldown.Error())
// =============================================================================

const (
	// ErrFmtCooldownWithMinutes formats cooldown error with minutes and seconds
	ErrFmtCooldownWithMinutes = "raids in %s resume in %dm %ds"

	// ErrFmtCooldownSecondsOnly formats cooldown error with seconds only
	ErrFmtCooldownSecondsOnly = "raids in %s resume in %ds"

	// LabelGlobal names the process-wide key in messages
	LabelGlobal = "every village"
)

// SecondsPerMinute is used for time duration calculations
const SecondsPerMinute = 60
