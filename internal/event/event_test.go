package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestNewRaidEvent_CarriesActorAndRaid(t *testing.T) {
	expID := uuid.New()
	raid := &domain.Raid{
		ID:           uuid.New(),
		Monster:      domain.Monster{Name: "Hinox", Tier: 6},
		ExpeditionID: &expID,
		Trigger:      domain.RaidTriggerExploration,
		Status:       domain.RaidStatusActive,
		Participants: []domain.RaidParticipant{{CharacterID: uuid.New(), UserID: "u1"}},
	}

	evt := NewRaidEvent(RaidJoined, raid, &raid.Participants[0])

	payload, err := DecodePayload[RaidPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, EventSchemaVersion, evt.Version)
	assert.Equal(t, raid.ID, payload.RaidID)
	assert.Equal(t, 6, payload.Tier)
	assert.Equal(t, "u1", payload.UserID)
	require.NotNil(t, payload.CharacterID)
	assert.Equal(t, raid.Participants[0].CharacterID, *payload.CharacterID)
	assert.Equal(t, raid.ID.String(), evt.GetMetadataValue(MetadataKeyRaidID))
}

func TestRaidEndType(t *testing.T) {
	assert.Equal(t, RaidDefeated, RaidEndType(domain.RaidStatusDefeated))
	assert.Equal(t, RaidFled, RaidEndType(domain.RaidStatusFled))
	assert.Equal(t, RaidFailed, RaidEndType(domain.RaidStatusFailed))
}
