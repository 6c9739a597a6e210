package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	directionChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "win", Value: "win"},
		{Name: "lose", Value: "lose"},
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "bet",
			Description: "Bet on a member's next Dota match",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member whose next match you are betting on",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "direction",
					Description: "Whether they will win or lose",
					Required:    true,
					Choices:     directionChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Stake in points",
					Required:    true,
				},
			},
		},
		{
			Name:        "betteam",
			Description: "Bet on a pro team's next match",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team",
					Description: "Team name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "direction",
					Description: "Whether they will win or lose",
					Required:    true,
					Choices:     directionChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Stake in points",
					Required:    true,
				},
			},
		},
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "history",
			Description: "Show your recent settled bets",
		},
		{
			Name:        "steamconfig",
			Description: "Link your steam account id so others can bet on you",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "steam_id",
					Description: "Your 32-bit steam account id",
					Required:    true,
				},
			},
		},
		{
			Name:        "setbalance",
			Description: "Overwrite a member's balance (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member whose balance to set",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New balance in points",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}

	return nil
}
