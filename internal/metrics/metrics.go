package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Raid Metrics
var (
	RaidsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidsStarted,
			Help: HelpTextRaidsStarted,
		},
		[]string{LabelTrigger},
	)

	RaidsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidsEnded,
			Help: HelpTextRaidsEnded,
		},
		[]string{LabelStatus},
	)

	RaidTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidTurns,
			Help: HelpTextRaidTurns,
		},
		[]string{LabelTierBand},
	)

	RaidVersionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidVersionConflicts,
			Help: HelpTextRaidVersionConflicts,
		},
		[]string{LabelOperation},
	)

	RaidConcurrencyExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRaidConcurrencyExhaust,
			Help: HelpTextRaidConcurrencyExhaust,
		},
		[]string{LabelOperation},
	)

	RaidTurnSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRaidTurnSkips,
			Help: HelpTextRaidTurnSkips,
		},
	)

	RaidActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRaidActive,
			Help: HelpTextRaidActive,
		},
	)

	SchedulerJobsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSchedulerJobsFired,
			Help: HelpTextSchedulerJobsFired,
		},
		[]string{LabelJob},
	)
)

// TierBand buckets a monster tier into the label used by RaidTurns
func TierBand(tier, highTierCutoff int) string {
	if tier >= highTierCutoff {
		return TierBandHigh
	}
	return TierBandLow
}
