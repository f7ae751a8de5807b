package discord

import "time"

// API paths
const (
	PathRaidJoin    = "/api/v1/raid/join"
	PathRaidTurn    = "/api/v1/raid/turn"
	PathRaidLeave   = "/api/v1/raid/leave"
	PathRaidRetreat = "/api/v1/raid/retreat"
	PathRaidSummary = "/api/v1/raid/summary"
	PathRaidActive  = "/api/v1/raid/active"
	PathHealthz     = "/healthz"
)

// API client tuning
const (
	ClientTimeout    = 10 * time.Second
	ClientMaxRetries = 3
	ClientRetryDelay = 500 * time.Millisecond
)

// Command and option names
const (
	CommandRaid = "raid"

	SubcommandJoin    = "join"
	SubcommandAttack  = "attack"
	SubcommandLeave   = "leave"
	SubcommandRetreat = "retreat"
	SubcommandStatus  = "status"

	OptionRaid      = "raid"
	OptionCharacter = "character"
)

// Discord limits
const (
	MaxAutocompleteChoices = 25
	MaxChoiceNameLength    = 100
	MaxEmbedFields         = 25
)

// Embed colors
const (
	ColorRaid     = 0xc0392b
	ColorJoined   = 0x2ecc71
	ColorTurn     = 0xe67e22
	ColorDefeated = 0xf1c40f
	ColorFled     = 0x95a5a6
	ColorFailed   = 0x7f8c8d
	ColorLeft     = 0x3498db
)

// Log messages
const (
	LogMsgRetryingRequest  = "Retrying API request"
	LogMsgRequestFailed    = "API request failed"
	LogMsgServerErrorRetry = "Server error, will retry"
	LogMsgSendFailed       = "Failed to send response"
	LogMsgEditFailed       = "Failed to edit interaction response"
	LogMsgDeferFailed      = "Failed to send deferred response"
	LogMsgAutocompleteFail = "Failed to answer autocomplete"
	LogMsgRaidCommandFail  = "Raid command failed"

	LogMsgCommandsUnchanged = "Commands unchanged, skipping registration"
	LogMsgCommandsChanged   = "Commands changed, updating"
	LogMsgCommandsUpdated   = "Commands updated"
)

// HealthPath is the bot's own health endpoint
const HealthPath = "/health"

// CommandTimeout bounds the API calls one command makes
const CommandTimeout = 15 * time.Second
