package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// displayName title-cases monster and village names ("silver lynel" -> "Silver Lynel").
// Casers keep state, so each call gets its own.
func displayName(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func heartsBar(current, max int) string {
	if max <= 0 {
		return "0/0 ❤️"
	}
	return fmt.Sprintf("%d/%d ❤️", current, max)
}

func location(village string, expeditionID fmt.Stringer) string {
	if village != "" {
		return displayName(village)
	}
	if expeditionID != nil {
		return "Expedition " + shortID(expeditionID.String())
	}
	return "Unknown"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mention(userID string) string {
	if userID == "" {
		return ""
	}
	return "<@" + userID + ">"
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	d = d.Round(time.Second)
	if d >= time.Minute {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

func statusColor(status domain.RaidStatus) int {
	switch status {
	case domain.RaidStatusDefeated:
		return ColorDefeated
	case domain.RaidStatusFled:
		return ColorFled
	case domain.RaidStatusFailed:
		return ColorFailed
	default:
		return ColorRaid
	}
}

// summaryEmbed renders the raid digest shown by /raid status
func summaryEmbed(sum *domain.RaidSummary) *discordgo.MessageEmbed {
	var where fmt.Stringer
	if sum.ExpeditionID != nil {
		where = sum.ExpeditionID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (tier %d) at **%s**\n", displayName(sum.Monster.Name), sum.Monster.Tier, location(sum.Village, where))
	fmt.Fprintf(&sb, "Hearts: %s\n", heartsBar(sum.Monster.CurrentHearts, sum.Monster.MaxHearts))
	if sum.Status == domain.RaidStatusActive {
		fmt.Fprintf(&sb, "Time left: %s\n", formatRemaining(sum.TimeRemaining))
		if sum.CurrentTurnName != "" {
			fmt.Fprintf(&sb, "Up next: **%s** %s\n", sum.CurrentTurnName, mention(sum.CurrentTurnUser))
		}
	} else {
		fmt.Fprintf(&sb, "Status: **%s**\n", displayName(string(sum.Status)))
	}

	embed := createEmbed("⚔️ Raid "+shortID(sum.RaidID.String()), sb.String(), statusColor(sum.Status), "")
	for idx, p := range sum.Participants {
		if idx >= MaxEmbedFields {
			break
		}
		name := p.Name
		if p.IsModCharacter {
			name += " (mod)"
		}
		value := fmt.Sprintf("%s · %d dmg", heartsBar(p.CharacterState.Hearts, p.CharacterState.MaxHearts), p.Damage)
		if p.CharacterState.KO {
			value += " · KO"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
	}
	return embed
}

// battleEmbed renders one resolved attack
func battleEmbed(res *domain.BattleResult) *discordgo.MessageEmbed {
	var sb strings.Builder
	if res.Narrative != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", res.Narrative)
	}
	fmt.Fprintf(&sb, "Roll: **%d**", res.Roll)
	if res.Penalty > 0 {
		fmt.Fprintf(&sb, " (-%d crowd penalty → %d)", res.Penalty, res.AdjustedRoll)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Dealt **%d**, took **%d**\n", res.DamageDealt, res.DamageTaken)
	fmt.Fprintf(&sb, "Monster: %d → %d ❤️\n", res.MonsterHeartsBefore, res.MonsterHeartsAfter)
	if res.PoolHeartsAfter != nil {
		fmt.Fprintf(&sb, "Party pool: %d ❤️\n", *res.PoolHeartsAfter)
	} else {
		fmt.Fprintf(&sb, "You: %d → %d ❤️\n", res.CharacterHeartsBefore, res.CharacterHeartsAfter)
	}

	title := "🗡️ Attack!"
	switch {
	case res.Defeated:
		title = "🏆 Monster Defeated!"
	case res.Fled:
		title = "🏃 The Party Fled"
	case res.NextTurnUserID != "":
		fmt.Fprintf(&sb, "\nNext up: %s", mention(res.NextTurnUserID))
	}

	color := ColorTurn
	if res.RaidStatus.IsTerminal() {
		color = statusColor(res.RaidStatus)
	}
	return createEmbed(title, sb.String(), color, "")
}

// joinEmbed confirms a join
func joinEmbed(res *JoinResult) *discordgo.MessageEmbed {
	desc := res.Message
	if p := res.Participant; p != nil {
		desc = fmt.Sprintf("**%s** joins the fight with %s.", p.Name, heartsBar(p.CharacterState.Hearts, p.CharacterState.MaxHearts))
	}
	return createEmbed("🛡️ Joined Raid", desc, ColorJoined, "")
}

// leaveEmbed confirms a leave and names who acts next
func leaveEmbed(res *LeaveResult) *discordgo.MessageEmbed {
	var sb strings.Builder
	if res.EligibleForLoot {
		sb.WriteString("You left the raid. Your damage still counts toward loot.")
	} else {
		sb.WriteString("You left the raid before dealing any damage.")
	}
	if res.NextTurnName != "" {
		fmt.Fprintf(&sb, "\nNext up: **%s** %s", res.NextTurnName, mention(res.NextTurnUserID))
	}
	return createEmbed("👋 Left Raid", sb.String(), ColorLeft, "")
}

// retreatEmbed confirms a party retreat
func retreatEmbed(res *RetreatResult) *discordgo.MessageEmbed {
	desc := res.Message
	if r := res.Raid; r != nil {
		desc = fmt.Sprintf("The party escapes from **%s** with %d hearts left on it.", displayName(r.Monster.Name), r.Monster.CurrentHearts)
	}
	return createEmbed("🏃 Retreat", desc, ColorFled, "")
}

// raidChoiceName labels an active raid in autocomplete
func raidChoiceName(r *domain.Raid) string {
	var where fmt.Stringer
	if r.ExpeditionID != nil {
		where = r.ExpeditionID
	}
	name := fmt.Sprintf("%s (T%d) · %s · %s", displayName(r.Monster.Name), r.Monster.Tier,
		location(r.Village, where), heartsBar(r.Monster.CurrentHearts, r.Monster.MaxHearts))
	if runes := []rune(name); len(runes) > MaxChoiceNameLength {
		name = string(runes[:MaxChoiceNameLength])
	}
	return name
}
