package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"dotabet/bot/common"
	"dotabet/domain/entities"
)

const (
	colorNeutral = 0x5865F2
	colorWin     = 0x57F287
	colorLoss    = 0xED4245
	colorRefund  = 0xFEE75C
	colorFatal   = 0x992D22
)

// betAcceptedEmbed confirms a bet entered the pipeline.
func betAcceptedEmbed(req *entities.BetRequest, subjectLabel string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎲 Bet accepted",
		Description: fmt.Sprintf("<@%d> staked **%s points** on %s to **%s** their next match",
			req.DiscordID, common.FormatBalance(req.Stake), subjectLabel, req.Direction),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Odds are set from the game state at the minute the bet was placed",
		},
		Color: colorNeutral,
	}
}

// outcomeEmbed renders a terminal pipeline outcome.
func outcomeEmbed(outcome entities.Outcome) *discordgo.MessageEmbed {
	switch outcome.Kind {
	case entities.OutcomeWon:
		return &discordgo.MessageEmbed{
			Title: "🎉 Bet won",
			Description: fmt.Sprintf("<@%d> won **%s points** at odds %s on match `%d`\nNew balance: **%s points**",
				outcome.DiscordID, common.FormatBalance(outcome.Payout), outcome.Odds.String(),
				outcome.MatchID, common.FormatBalance(outcome.NewBalance)),
			Color: colorWin,
		}
	case entities.OutcomeLost:
		return &discordgo.MessageEmbed{
			Title: "😔 Bet lost",
			Description: fmt.Sprintf("<@%d> lost **%s points** at odds %s on match `%d`\nNew balance: **%s points**",
				outcome.DiscordID, common.FormatBalance(outcome.Stake), outcome.Odds.String(),
				outcome.MatchID, common.FormatBalance(outcome.NewBalance)),
			Color: colorLoss,
		}
	case entities.OutcomeRefunded:
		return &discordgo.MessageEmbed{
			Title: "↩️ Bet refunded",
			Description: fmt.Sprintf("<@%d>'s stake of **%s points** was returned: %s\nNew balance: **%s points**",
				outcome.DiscordID, common.FormatBalance(outcome.Stake), outcome.Detail,
				common.FormatBalance(outcome.NewBalance)),
			Color: colorRefund,
		}
	case entities.OutcomeFailed:
		return &discordgo.MessageEmbed{
			Title: "⚠️ Bet failed",
			Description: fmt.Sprintf("<@%d>'s bet could not be settled or refunded. An operator has been notified.",
				outcome.DiscordID),
			Color: colorFatal,
		}
	default:
		return &discordgo.MessageEmbed{
			Title: "❌ Bet rejected",
			Description: fmt.Sprintf("<@%d>'s bet was rejected: %s",
				outcome.DiscordID, outcome.Detail),
			Color: colorLoss,
		}
	}
}
