package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/config"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	keepDefaultLogger(t)
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestInitializeEventSystem(t *testing.T) {
	keepDefaultLogger(t)
	cfg := &config.Config{EventDeadLetterPath: filepath.Join(t.TempDir(), "nested", "deadletter.jsonl")}

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NoError(t, publisher.Shutdown(context.Background()))
}

func TestRegisterEventHandlers_LogsRaidEvents(t *testing.T) {
	buf := captureLogs(t)
	bus := event.NewMemoryBus()
	require.NoError(t, RegisterEventHandlers(bus))

	r := &domain.Raid{
		ID:      uuid.New(),
		Status:  domain.RaidStatusActive,
		Trigger: domain.RaidTriggerManual,
		Monster: domain.Monster{Name: "Lynel", Tier: 5},
		Village: "rudania",
	}
	actor := &domain.RaidParticipant{CharacterID: uuid.New(), UserID: "u1"}

	require.NoError(t, bus.Publish(context.Background(), event.NewRaidEvent(event.RaidJoined, r, actor)))

	out := buf.String()
	assert.Contains(t, out, LogMsgRaidEvent)
	assert.Contains(t, out, "monster=Lynel")
	assert.Contains(t, out, actor.CharacterID.String())
}

func TestRegisterEventHandlers_ExpeditionFailure(t *testing.T) {
	buf := captureLogs(t)
	bus := event.NewMemoryBus()
	require.NoError(t, RegisterEventHandlers(bus))

	expeditionID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), event.NewExpeditionFailedEvent(expeditionID, uuid.New())))

	assert.Contains(t, buf.String(), expeditionID.String())
}

func TestLogRaidEvent_UnreadablePayload(t *testing.T) {
	buf := captureLogs(t)

	err := logRaidEvent(context.Background(), event.Event{Type: event.RaidTurn, Payload: func() {}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "type=raid.turn")
}
