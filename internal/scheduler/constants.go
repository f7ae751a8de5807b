package scheduler

import "time"

// ShutdownTimeout bounds how long Stop waits for in-flight timer callbacks
const ShutdownTimeout = 5 * time.Second

// keySeparator joins key fields when deriving job IDs
const keySeparator = "\x1f"

// Log messages
const (
	LogMsgJobScheduled        = "One-time job scheduled"
	LogMsgJobCancelled        = "One-time jobs cancelled"
	LogMsgJobFiring           = "One-time job firing"
	LogMsgJobAlreadyClaimed   = "One-time job already claimed or rescheduled"
	LogMsgNoHandlerRegistered = "No handler registered for job"
	LogMsgJobsReloaded        = "Pending one-time jobs reloaded"
	LogMsgIntervalJobDropped  = "Interval job skipped, worker queue full"
)

// Error messages
const (
	ErrMsgMissingKeyField = "job payload is missing key field"
	ErrMsgEmptyJobName    = "job name is required"
	ErrMsgUpsertJobFailed = "failed to persist scheduled job"
	ErrMsgCancelJobFailed = "failed to cancel scheduled jobs"
	ErrMsgListJobsFailed  = "failed to list scheduled jobs"
	ErrMsgClaimJobFailed  = "failed to claim scheduled job"
	ErrMsgHandlerFailed   = "scheduled job handler failed"
)
