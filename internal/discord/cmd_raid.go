package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

func raidOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         OptionRaid,
		Description:  "The raid (start typing to pick an active one)",
		Required:     true,
		Autocomplete: true,
	}
}

func characterOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        OptionCharacter,
		Description: "Your character ID",
		Required:    true,
	}
}

func raidSubcommand(name, description string, withCharacter bool) *discordgo.ApplicationCommandOption {
	opts := []*discordgo.ApplicationCommandOption{raidOption()}
	if withCharacter {
		opts = append(opts, characterOption())
	}
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     opts,
	}
}

// RaidCommand returns the /raid command definition and handler
func RaidCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CommandRaid,
		Description: "Fight the monster raiding your village or expedition",
		Options: []*discordgo.ApplicationCommandOption{
			raidSubcommand(SubcommandJoin, "Join a raid", true),
			raidSubcommand(SubcommandAttack, "Attack on your turn", true),
			raidSubcommand(SubcommandLeave, "Leave a village raid", true),
			raidSubcommand(SubcommandRetreat, "Retreat with your expedition party", true),
			raidSubcommand(SubcommandStatus, "Show a raid's state", false),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
		defer cancel()

		data := i.ApplicationCommandData()
		if len(data.Options) == 0 {
			respondError(s, i, MsgGenericError)
			return
		}
		sub := data.Options[0]
		opts := optionValues(sub.Options)

		raidID, err := uuid.Parse(opts[OptionRaid])
		if err != nil {
			respondError(s, i, MsgInvalidID)
			return
		}

		var embed *discordgo.MessageEmbed
		if sub.Name == SubcommandStatus {
			embed, err = raidStatus(ctx, client, raidID)
		} else {
			characterID, parseErr := uuid.Parse(opts[OptionCharacter])
			if parseErr != nil {
				respondError(s, i, MsgInvalidID)
				return
			}
			embed, err = raidAction(ctx, client, sub.Name, raidID, characterID)
		}
		if err != nil {
			slog.Warn(LogMsgRaidCommandFail, "subcommand", sub.Name, "raid_id", raidID, "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

func raidStatus(ctx context.Context, client *APIClient, raidID uuid.UUID) (*discordgo.MessageEmbed, error) {
	sum, err := client.GetSummary(ctx, raidID)
	if err != nil {
		return nil, err
	}
	return summaryEmbed(sum), nil
}

func raidAction(ctx context.Context, client *APIClient, subcommand string, raidID, characterID uuid.UUID) (*discordgo.MessageEmbed, error) {
	switch subcommand {
	case SubcommandJoin:
		res, err := client.JoinRaid(ctx, raidID, characterID)
		if err != nil {
			return nil, err
		}
		return joinEmbed(res), nil
	case SubcommandAttack:
		res, err := client.TakeTurn(ctx, raidID, characterID)
		if err != nil {
			return nil, err
		}
		return battleEmbed(res), nil
	case SubcommandLeave:
		res, err := client.LeaveRaid(ctx, raidID, characterID)
		if err != nil {
			return nil, err
		}
		return leaveEmbed(res), nil
	case SubcommandRetreat:
		res, err := client.RetreatRaid(ctx, raidID, characterID)
		if err != nil {
			return nil, err
		}
		return retreatEmbed(res), nil
	default:
		return nil, fmt.Errorf("unknown raid subcommand %q", subcommand)
	}
}

func optionValues(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	values := make(map[string]string, len(opts))
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionString {
			values[o.Name] = o.StringValue()
		}
	}
	return values
}
