package metrics

import (
	"context"

	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// EventMetricsCollector subscribes to raid events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all raid lifecycle events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := append([]event.Type{
		event.RaidStarted,
		event.RaidJoined,
		event.RaidLeft,
		event.RaidSkipped,
		event.ExpeditionFailed,
	}, event.RaidEndTypes...)

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RaidStarted:
		payload, err := event.DecodePayload[event.RaidPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnreadable, "type", evt.Type, "error", err)
			return nil
		}
		RaidsStarted.WithLabelValues(string(payload.Trigger)).Inc()
		RaidActive.Inc()

	case event.RaidDefeated, event.RaidFled, event.RaidFailed:
		payload, err := event.DecodePayload[event.RaidPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnreadable, "type", evt.Type, "error", err)
			return nil
		}
		RaidsEnded.WithLabelValues(string(payload.Status)).Inc()
		RaidActive.Dec()

	case event.RaidSkipped:
		RaidTurnSkips.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
