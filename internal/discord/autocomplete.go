package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HandleAutocomplete answers autocomplete for the raid option with active raids
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	data := i.ApplicationCommandData()
	if data.Name != CommandRaid {
		slog.Warn("Unhandled autocomplete command", "command", data.Name)
		return
	}

	focused, ok := focusedOption(data.Options)
	if !ok || focused.Name != OptionRaid {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	choices := raidChoices(ctx, client, strings.ToLower(focused.StringValue()))
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}); err != nil {
		slog.Error(LogMsgAutocompleteFail, "error", err)
	}
}

// focusedOption finds the option being typed, looking inside subcommands
func focusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o.Focused {
			return o, true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			if f, ok := focusedOption(o.Options); ok {
				return f, true
			}
		}
	}
	return nil, false
}

// raidChoices lists active raids whose label or ID contains query
func raidChoices(ctx context.Context, client *APIClient, query string) []*discordgo.ApplicationCommandOptionChoice {
	raids, err := client.ListActive(ctx)
	if err != nil {
		slog.Error("Failed to list raids for autocomplete", "error", err)
		return []*discordgo.ApplicationCommandOptionChoice{}
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(raids), MaxAutocompleteChoices))
	for _, r := range raids {
		name := raidChoiceName(r)
		id := r.ID.String()
		if query != "" && !strings.Contains(strings.ToLower(name), query) && !strings.HasPrefix(id, query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: id})
		if len(choices) >= MaxAutocompleteChoices {
			break
		}
	}
	return choices
}
