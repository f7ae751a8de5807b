package event

import "time"

// EventSchemaVersion is stamped on every raid and expedition event
const EventSchemaVersion = "1.0"

// Retry tuning for the resilient publisher
const (
	// RetryQueueBufferSize bounds events waiting for a retry; overflow is dead-lettered
	RetryQueueBufferSize = 1000

	RetryInitialDelaySeconds = 2
	RetryMaxAttempts         = 5
)

// DeadLetterFilePermissions is the mode of a newly created dead-letter file
const DeadLetterFilePermissions = 0644

// Metadata keys
const (
	MetadataKeyRaidID = "raid_id"
)

// Error messages
const (
	ErrMsgOpenDeadLetterFailed = "failed to open dead letter file"
)

// Log message constants
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"

	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay doubles baseDelay per attempt: attempt 1 waits baseDelay,
// attempt 2 twice that, and so on
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
