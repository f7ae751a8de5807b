package expedition

// Default party pool seeding
const (
	// DefaultHeartsPerMember seeds a pool when the caller gives no total
	DefaultHeartsPerMember  = 5
	DefaultStaminaPerMember = 5
)

// Error message constants
const (
	ErrMsgNoMembers             = "an expedition needs at least one member"
	ErrMsgDuplicateMember       = "character listed twice in the party"
	ErrContextFailedToGetPool   = "failed to get party pool"
	ErrContextFailedToSavePool  = "failed to save party pool"
	ErrContextFailedToCreate    = "failed to create party pool"
	ErrContextFailedToMarkFail  = "failed to mark expedition failed"
	ErrContextFailedToJournal   = "failed to record raid outcome"
	ErrContextFailedToAdvance   = "failed to advance expedition turn"
	ErrContextFailedToListJourn = "failed to list expedition journal"
)

// Log message constants
const (
	LogMsgExpeditionStarted   = "Expedition started"
	LogMsgPoolDebited         = "Party pool debited"
	LogMsgPoolExhausted       = "Party pool exhausted"
	LogMsgOutcomeRecorded     = "Raid outcome recorded"
	LogMsgOutcomeDuplicate    = "Raid outcome already recorded"
	LogMsgExpeditionFailed    = "Expedition failed"
	LogMsgExpeditionNotActive = "Expedition already left the active state"
)
