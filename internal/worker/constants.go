package worker

import "time"

// Pool defaults
const (
	DefaultWorkerCount = 4
	DefaultQueueSize   = 100
	DefaultJobTimeout  = 30 * time.Second
)

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerJobDropped  = "Worker pool stopped, job dropped"
)

// ============================================================================
// Log Messages - Timer Set
// ============================================================================

// Log messages for timer set shutdown
const (
	LogMsgTimerSetShuttingDown     = "Timer set shutting down"
	LogMsgTimerCancelled           = "Pending timer cancelled"
	LogMsgTimerSetShutdownComplete = "Timer set shut down gracefully"
	LogMsgTimerSetShutdownTimeout  = "Timer set shutdown timed out"
)

// ============================================================================
// Log Messages - Raid Worker
// ============================================================================

// Log messages for raid job handling
const (
	LogMsgRaidWorkerStarted  = "Raid worker started"
	LogMsgTurnSkipFired      = "Turn skip job fired"
	LogMsgTurnSkipApplied    = "Turn skipped for idle participant"
	LogMsgTurnSkipIgnored    = "Turn skip job ignored"
	LogMsgRaidExpireFired    = "Raid expiration job fired"
	LogMsgRaidSweepCompleted = "Expired raid sweep completed"
	LogMsgRaidSweepFailed    = "Expired raid sweep failed"
	LogMsgInvalidJobPayload  = "Scheduled job has an invalid payload"
)

// Raid sweep
const (
	JobNameRaidSweep = "raid.sweep"

	// DefaultRaidSweepInterval is how often overdue raids and lost skip timers are checked
	DefaultRaidSweepInterval = time.Minute
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
