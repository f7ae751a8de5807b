package concurrency

import "time"

// Secondary write retry defaults
const (
	DefaultSecondaryAttempts = 3
	DefaultSecondaryBackoff  = 50 * time.Millisecond
)

// Log messages
const (
	LogMsgVersionConflictRetry   = "Version conflict, reloading and retrying"
	LogMsgRetriesExhausted       = "Optimistic retries exhausted"
	LogMsgSecondaryAttemptFailed = "Secondary write failed"
	LogMsgSecondaryRecovered     = "Secondary write succeeded after retry"
	LogMsgSecondaryGaveUp        = "Secondary write abandoned"
)
