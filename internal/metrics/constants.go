package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Raid metric names
const (
	MetricNameRaidsStarted           = "raid_started_total"
	MetricNameRaidsEnded             = "raid_ended_total"
	MetricNameRaidTurns              = "raid_turns_total"
	MetricNameRaidVersionConflicts   = "raid_version_conflicts_total"
	MetricNameRaidConcurrencyExhaust = "raid_concurrency_exhausted_total"
	MetricNameRaidTurnSkips          = "raid_turn_skips_total"
	MetricNameRaidActive             = "raid_active_gauge"
	MetricNameSchedulerJobsFired     = "scheduler_jobs_fired_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Raid metric help text
const (
	HelpTextRaidsStarted           = "Total number of raids started"
	HelpTextRaidsEnded             = "Total number of raids that reached a terminal status"
	HelpTextRaidTurns              = "Total number of resolved raid turns"
	HelpTextRaidVersionConflicts   = "Total number of optimistic write conflicts on raids"
	HelpTextRaidConcurrencyExhaust = "Total number of raid operations that ran out of retries"
	HelpTextRaidTurnSkips          = "Total number of idle turns skipped by the scheduler"
	HelpTextRaidActive             = "Number of raids currently active"
	HelpTextSchedulerJobsFired     = "Total number of one-time scheduled jobs fired"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelTrigger   = "trigger"
	LabelTierBand  = "tier_band"
	LabelOperation = "operation"
	LabelJob       = "job"
)

// Tier band label values
const (
	TierBandLow  = "low"
	TierBandHigh = "high"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnreadable = "Event payload could not be decoded"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)

// UnmatchedRoute labels requests that did not match a chi route
const UnmatchedRoute = "unmatched"
