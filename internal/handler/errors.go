package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidID         = "Invalid %s: must be a UUID"
)

// Success messages for API responses
const (
	MsgRaidJoined     = "Joined the raid"
	MsgRaidLeft       = "Left the raid"
	MsgPartyRetreated = "The party retreated"
)

// Operation names used in logs
const (
	OpStartRaid       = "Start raid"
	OpJoinRaid        = "Join raid"
	OpTakeTurn        = "Take turn"
	OpLeaveRaid       = "Leave raid"
	OpRetreatRaid     = "Retreat raid"
	OpGetRaid         = "Get raid"
	OpGetSummary      = "Get raid summary"
	OpListActive      = "List active raids"
	OpSaveCharacter   = "Save character"
	OpGetCharacter    = "Get character"
	OpStartExpedition = "Start expedition"
	OpGetPool         = "Get party pool"
	OpGetJournal      = "Get raid journal"
)

// Query parameter names
const (
	QueryParamID = "id"
)
