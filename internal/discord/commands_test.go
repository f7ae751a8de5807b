package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

func TestCommandsEqual(t *testing.T) {
	cmd, _ := RaidCommand()
	same, _ := RaidCommand()
	assert.True(t, commandsEqual([]*discordgo.ApplicationCommand{cmd}, []*discordgo.ApplicationCommand{same}))

	changed, _ := RaidCommand()
	changed.Options[1].Options[0].Description = "different"
	assert.False(t, commandsEqual([]*discordgo.ApplicationCommand{cmd}, []*discordgo.ApplicationCommand{changed}),
		"a change inside a subcommand counts")

	assert.False(t, commandsEqual(nil, []*discordgo.ApplicationCommand{cmd}))
}

func TestRegistry_RegisterAndHandle(t *testing.T) {
	tc := SetupTestContext(t)
	reg := NewCommandRegistry()

	called := false
	cmd, _ := RaidCommand()
	reg.Register(cmd, func(*discordgo.Session, *discordgo.InteractionCreate, *APIClient) { called = true })

	before := commandCounter.Load()
	reg.Handle(tc.Session, raidInteraction(SubcommandStatus), tc.APIClient)

	assert.True(t, called)
	assert.Equal(t, before+1, commandCounter.Load())
}

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{domain.ErrMsgNotYourTurn, MsgNotYourTurn},
		{"API error: " + domain.ErrMsgRaidFull, MsgRaidFull},
		{domain.ErrMsgCharacterKnockedOut, MsgKnockedOut},
		{domain.ErrMsgCannotStartAloneWhileKO, MsgKnockedOut},
		{domain.ErrMsgCannotLeaveExpedRaid, MsgExpeditionLeft},
		{domain.ErrMsgRaidNotActive, MsgRaidOver},
		{domain.ErrMsgConcurrencyExhausted, MsgBusy},
		{"", MsgGenericError},
		{"monster name is required", "❌ monster name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFriendlyError(tt.in))
		})
	}
}

func TestFriendlyError(t *testing.T) {
	assert.Equal(t, MsgAPIUnreachable, friendlyError(errors.New("dial tcp: refused")))

	conflict := &APIError{StatusCode: http.StatusConflict, Message: domain.ErrMsgAlreadyJoined}
	assert.Equal(t, MsgAlreadyJoined, friendlyError(conflict))

	cooldown := &APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 30 * time.Second}
	assert.Equal(t, MsgCooldownActive+"\nTry again in **30s**.", friendlyError(cooldown))

	long := &APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 9*time.Minute + 10*time.Second}
	assert.Equal(t, MsgCooldownActive+"\nTry again in about **10 minutes**.", friendlyError(long))

	assert.Equal(t, MsgCooldownActive, friendlyError(&APIError{StatusCode: http.StatusTooManyRequests}))
}
