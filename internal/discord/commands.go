package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// CommandHandler handles a slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// Handle routes slash commands to their handler and autocomplete requests
// to HandleAutocomplete
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		HandleAutocomplete(s, i, client)
	case discordgo.InteractionApplicationCommand:
		if h, ok := r.Handlers[i.ApplicationCommandData().Name]; ok {
			RecordCommand()
			h(s, i, client)
		}
	}
}

// RegisterCommands pushes the registry to Discord. The bulk overwrite is
// skipped when Discord already holds identical definitions, since command
// updates are rate limited; forceUpdate always overwrites.
func (b *Bot) RegisterCommands(registry *CommandRegistry, forceUpdate bool) error {
	desired := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desired = append(desired, cmd)
	}

	if !forceUpdate {
		existing, err := b.Session.ApplicationCommands(b.AppID, "")
		if err != nil {
			return fmt.Errorf("failed to fetch existing commands: %w", err)
		}
		if commandsEqual(existing, desired) {
			slog.Info(LogMsgCommandsUnchanged, "count", len(existing))
			return nil
		}
		slog.Info(LogMsgCommandsChanged, "existing", len(existing), "desired", len(desired))
	}

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", desired); err != nil {
		return fmt.Errorf("failed to overwrite commands: %w", err)
	}
	slog.Info(LogMsgCommandsUpdated, "count", len(desired), "forced", forceUpdate)
	return nil
}

// commandsEqual compares command sets by name, ignoring order
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}
	byName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name] = cmd
	}
	for _, want := range desired {
		got, ok := byName[want.Name]
		if !ok || !commandEqual(got, want) {
			return false
		}
	}
	return true
}

func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}
	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}
	return optionsEqual(a.Options, b.Options)
}

func optionsEqual(a, b []*discordgo.ApplicationCommandOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !optionEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// optionEqual recurses into subcommand options
func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description ||
		a.Required != b.Required || a.Autocomplete != b.Autocomplete {
		return false
	}
	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for i := range a.Choices {
		if a.Choices[i].Name != b.Choices[i].Name || a.Choices[i].Value != b.Choices[i].Value {
			return false
		}
	}
	return optionsEqual(a.Options, b.Options)
}

// respondError replaces the deferred response with a plain message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error(LogMsgEditFailed, "error", err)
	}
}

// deferResponse acknowledges an interaction with a deferred message.
// Required before any API call that might take longer than 3 seconds.
// Returns false if deferral failed (should return early from handler).
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		slog.Error(LogMsgDeferFailed, "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// respondFriendlyError answers with a message the player can act on
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	respondError(s, i, friendlyError(err))
}

// friendlyError maps API rejections to chat messages. Anything that is not an
// API rejection means the server could not be reached.
func friendlyError(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgAPIUnreachable
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return cooldownMessage(apiErr.RetryAfter)
	}
	return formatFriendlyError(apiErr.Message)
}

func cooldownMessage(retryAfter time.Duration) string {
	if retryAfter <= 0 {
		return MsgCooldownActive
	}
	minutes := int(math.Ceil(retryAfter.Minutes()))
	if minutes <= 1 {
		return fmt.Sprintf("%s\nTry again in **%ds**.", MsgCooldownActive, int(retryAfter.Seconds()))
	}
	return fmt.Sprintf("%s\nTry again in about **%d minutes**.", MsgCooldownActive, minutes)
}

// formatFriendlyError cleans up the API's error text
func formatFriendlyError(msg string) string {
	msg = strings.TrimPrefix(msg, "API error: ")

	switch {
	case strings.Contains(msg, domain.ErrMsgNotYourTurn):
		return MsgNotYourTurn
	case strings.Contains(msg, domain.ErrMsgCharacterKnockedOut),
		strings.Contains(msg, domain.ErrMsgCannotStartAloneWhileKO):
		return MsgKnockedOut
	case strings.Contains(msg, domain.ErrMsgRaidFull):
		return MsgRaidFull
	case strings.Contains(msg, domain.ErrMsgAlreadyJoined):
		return MsgAlreadyJoined
	case strings.Contains(msg, domain.ErrMsgNotInRaid):
		return MsgNotInRaid
	case strings.Contains(msg, domain.ErrMsgWrongVillage):
		return MsgWrongVillage
	case strings.Contains(msg, domain.ErrMsgNotInExpedition):
		return MsgNotInParty
	case strings.Contains(msg, domain.ErrMsgCannotLeaveExpedRaid):
		return MsgExpeditionLeft
	case strings.Contains(msg, domain.ErrMsgRaidNotActive):
		return MsgRaidOver
	case strings.Contains(msg, domain.ErrMsgRaidNotFound):
		return MsgRaidNotFound
	case strings.Contains(msg, domain.ErrMsgCharacterNotFound):
		return MsgCharNotFound
	case strings.Contains(msg, domain.ErrMsgConcurrencyExhausted):
		return MsgBusy
	case strings.Contains(msg, "resume in"):
		return fmt.Sprintf("%s\n%s", MsgCooldownActive, msg)
	case msg == "":
		return MsgGenericError
	default:
		return "❌ " + msg
	}
}

// sendEmbed replaces the deferred response with an embed
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error(LogMsgSendFailed, "error", err)
	}
}

// FooterBrandishRaid is the standard embed footer
const FooterBrandishRaid = "BrandishRaid"

// createEmbed creates a standard embed; an empty footer uses FooterBrandishRaid
func createEmbed(title, description string, color int, footerText string) *discordgo.MessageEmbed {
	if footerText == "" {
		footerText = FooterBrandishRaid
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}
