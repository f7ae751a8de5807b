package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the raid event
// logger to the bus
func RegisterEventHandlers(bus event.Bus) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	for _, t := range loggedEventTypes() {
		bus.Subscribe(t, logRaidEvent)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	return nil
}

func loggedEventTypes() []event.Type {
	return append([]event.Type{
		event.RaidStarted,
		event.RaidJoined,
		event.RaidLeft,
		event.RaidTurn,
		event.RaidSkipped,
		event.ExpeditionFailed,
	}, event.RaidEndTypes...)
}

// logRaidEvent writes one line per lifecycle event. Payloads that do not decode
// are still logged by type.
func logRaidEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	if evt.Type == event.ExpeditionFailed {
		p, err := event.DecodePayload[event.ExpeditionFailedPayloadV1](evt.Payload)
		if err != nil {
			log.Info(LogMsgRaidEvent, "type", evt.Type)
			return nil
		}
		log.Info(LogMsgRaidEvent, "type", evt.Type, "expedition_id", p.ExpeditionID, "raid_id", p.RaidID)
		return nil
	}

	p, err := event.DecodePayload[event.RaidPayloadV1](evt.Payload)
	if err != nil {
		log.Info(LogMsgRaidEvent, "type", evt.Type)
		return nil
	}
	attrs := []any{
		"type", evt.Type,
		"raid_id", p.RaidID,
		"status", p.Status,
		"monster", p.Monster,
		"tier", p.Tier,
		"participants", p.Participants,
	}
	if p.CharacterID != nil {
		attrs = append(attrs, "character_id", *p.CharacterID)
	}
	log.Info(LogMsgRaidEvent, attrs...)
	return nil
}
