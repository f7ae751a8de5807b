package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"

	// PgErrorCodeForeignKeyViolation is raised when a referenced row is missing
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Raids
const (
	ErrMsgFailedToEncodeRaid = "failed to encode raid document"
	ErrMsgFailedToDecodeRaid = "failed to decode raid document"
	ErrMsgFailedToCreateRaid = "failed to create raid"
	ErrMsgFailedToGetRaid    = "failed to get raid"
	ErrMsgFailedToUpdateRaid = "failed to update raid"
	ErrMsgFailedToListRaids  = "failed to list raids"
	ErrMsgRaidAlreadyExists  = "raid already exists"
)

// Error Messages - Characters
const (
	ErrMsgFailedToGetCharacter    = "failed to get character"
	ErrMsgFailedToSaveCharacter   = "failed to save character"
	ErrMsgFailedToUpdateCharacter = "failed to update character combat state"
)

// Error Messages - Expeditions
const (
	ErrMsgFailedToEncodeMembers = "failed to encode party members"
	ErrMsgFailedToCreatePool    = "failed to create party pool"
	ErrMsgFailedToGetPool       = "failed to get party pool"
	ErrMsgFailedToSavePool      = "failed to save party pool"
	ErrMsgFailedToMarkFailed    = "failed to mark expedition failed"
	ErrMsgFailedToAppendJournal = "failed to append raid journal"
	ErrMsgFailedToListJournal   = "failed to list raid journal"
	ErrMsgFailedToAdvanceTurn   = "failed to advance party turn"
	ErrMsgPoolAlreadyExists     = "party pool already exists"
)

// Error Messages - Scheduled Jobs
const (
	ErrMsgFailedToEncodePayload = "failed to encode job payload"
	ErrMsgFailedToUpsertJob     = "failed to upsert scheduled job"
	ErrMsgFailedToClaimJob      = "failed to claim scheduled job"
	ErrMsgFailedToDeleteJob     = "failed to delete scheduled job"
	ErrMsgFailedToListJobs      = "failed to list scheduled jobs"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)
