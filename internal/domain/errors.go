package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Raid lookup and state errors
	ErrMsgRaidNotFound  = "raid not found"
	ErrMsgRaidNotActive = "raid is no longer active"

	// Raid start errors
	ErrMsgInvalidMonsterSnapshot = "invalid monster snapshot: name, tier and hearts are required"
	ErrMsgMissingLinkage         = "raid needs a village or an expedition"
	ErrMsgRaidOnCooldown         = "raid on cooldown"

	// Join errors
	ErrMsgCannotStartAloneWhileKO = "a knocked out character cannot start a raid alone"
	ErrMsgNotInExpedition         = "character is not part of this expedition"
	ErrMsgWrongVillage            = "character is not in the raid's village"
	ErrMsgRaidFull                = "raid is full"
	ErrMsgAlreadyJoined           = "already joined this raid"

	// Turn errors. The turn message is shared so racing callers cannot tell why they lost.
	ErrMsgNotYourTurn          = "it is not your turn or your action was already processed"
	ErrMsgNotInRaid            = "character is not in this raid"
	ErrMsgCharacterKnockedOut  = "character is knocked out"
	ErrMsgCannotLeaveExpedRaid = "expedition raids can only be left by retreating as a party"

	// Concurrency errors
	ErrMsgVersionConflict       = "version conflict"
	ErrMsgConcurrencyExhausted  = "too many concurrent updates, please try again"
	ErrMsgCharacterNotFound     = "character not found"
	ErrMsgExpeditionNotFound    = "expedition not found"
	ErrMsgExpeditionNotActive   = "expedition is not active"
	ErrMsgScheduledJobNotFound  = "scheduled job not found"

	// Database/System errors
	ErrMsgConnectionTimeout = "connection timeout"
	ErrMsgDatabaseError     = "database error"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrRaidNotFound  = errors.New(ErrMsgRaidNotFound)
	ErrRaidNotActive = errors.New(ErrMsgRaidNotActive)

	ErrInvalidMonsterSnapshot = errors.New(ErrMsgInvalidMonsterSnapshot)
	ErrMissingLinkage         = errors.New(ErrMsgMissingLinkage)
	ErrRaidOnCooldown         = errors.New(ErrMsgRaidOnCooldown)

	ErrCannotStartAloneWhileKO = errors.New(ErrMsgCannotStartAloneWhileKO)
	ErrNotInExpedition         = errors.New(ErrMsgNotInExpedition)
	ErrWrongVillage            = errors.New(ErrMsgWrongVillage)
	ErrRaidFull                = errors.New(ErrMsgRaidFull)
	ErrAlreadyJoined           = errors.New(ErrMsgAlreadyJoined)

	ErrNotYourTurn               = errors.New(ErrMsgNotYourTurn)
	ErrNotInRaid                 = errors.New(ErrMsgNotInRaid)
	ErrCharacterKnockedOut       = errors.New(ErrMsgCharacterKnockedOut)
	ErrCannotLeaveExpeditionRaid = errors.New(ErrMsgCannotLeaveExpedRaid)

	// ErrVersionConflict is returned by repositories when a write carries a stale version
	ErrVersionConflict = errors.New(ErrMsgVersionConflict)

	// ErrConcurrencyExhausted is returned when every optimistic retry hit a conflict
	ErrConcurrencyExhausted = errors.New(ErrMsgConcurrencyExhausted)

	ErrCharacterNotFound    = errors.New(ErrMsgCharacterNotFound)
	ErrExpeditionNotFound   = errors.New(ErrMsgExpeditionNotFound)
	ErrExpeditionNotActive  = errors.New(ErrMsgExpeditionNotActive)
	ErrScheduledJobNotFound = errors.New(ErrMsgScheduledJobNotFound)

	ErrConnectionTimeout = errors.New(ErrMsgConnectionTimeout)
	ErrDatabaseError     = errors.New(ErrMsgDatabaseError)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
