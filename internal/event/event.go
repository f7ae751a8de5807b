package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Raid lifecycle event types
const (
	RaidStarted  Type = "raid.started"
	RaidJoined   Type = "raid.joined"
	RaidLeft     Type = "raid.left"
	RaidTurn     Type = "raid.turn"
	RaidSkipped  Type = "raid.turn_skipped"
	RaidDefeated Type = "raid.defeated"
	RaidFled     Type = "raid.fled"
	RaidFailed   Type = "raid.failed"

	ExpeditionFailed Type = "expedition.failed"
)

// RaidEndTypes lists the event types that carry a terminal raid status
var RaidEndTypes = []Type{RaidDefeated, RaidFled, RaidFailed}

// RaidPayloadV1 is the typed payload shared by all raid lifecycle events
type RaidPayloadV1 struct {
	RaidID       uuid.UUID          `json:"raid_id"`
	Status       domain.RaidStatus  `json:"status"`
	Trigger      domain.RaidTrigger `json:"trigger,omitempty"`
	Monster      string             `json:"monster"`
	Tier         int                `json:"tier"`
	Village      string             `json:"village,omitempty"`
	ExpeditionID *uuid.UUID         `json:"expedition_id,omitempty"`
	CharacterID  *uuid.UUID         `json:"character_id,omitempty"`
	UserID       string             `json:"user_id,omitempty"`
	Participants int                `json:"participants"`
	Timestamp    int64              `json:"timestamp"`
}

// ExpeditionFailedPayloadV1 is the typed payload for expedition failure events
type ExpeditionFailedPayloadV1 struct {
	ExpeditionID uuid.UUID `json:"expedition_id"`
	RaidID       uuid.UUID `json:"raid_id"`
	Timestamp    int64     `json:"timestamp"`
}

// NewRaidEvent creates a raid lifecycle event. actor is optional and names the
// participant whose action produced the event.
func NewRaidEvent(eventType Type, raid *domain.Raid, actor *domain.RaidParticipant) Event {
	payload := RaidPayloadV1{
		RaidID:       raid.ID,
		Status:       raid.Status,
		Trigger:      raid.Trigger,
		Monster:      raid.Monster.Name,
		Tier:         raid.Monster.Tier,
		Village:      raid.Village,
		ExpeditionID: raid.ExpeditionID,
		Participants: len(raid.Participants),
		Timestamp:    time.Now().Unix(),
	}
	if actor != nil {
		id := actor.CharacterID
		payload.CharacterID = &id
		payload.UserID = actor.UserID
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: payload,
		Metadata: map[string]interface{}{
			MetadataKeyRaidID: raid.ID.String(),
		},
	}
}

// NewExpeditionFailedEvent creates an expedition failure event
func NewExpeditionFailedEvent(expeditionID, raidID uuid.UUID) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ExpeditionFailed,
		Payload: ExpeditionFailedPayloadV1{
			ExpeditionID: expeditionID,
			RaidID:       raidID,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// RaidEndType maps a terminal raid status to its event type
func RaidEndType(status domain.RaidStatus) Type {
	switch status {
	case domain.RaidStatusDefeated:
		return RaidDefeated
	case domain.RaidStatusFled:
		return RaidFled
	default:
		return RaidFailed
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
