package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"dotabet/bot/common"
)

const historyLimit = 10

// handleBalance reports the caller's balance, creating the account on first
// use.
func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	caller := interactionUser(i)

	user, err := b.userService.GetOrCreateUser(ctx, parseSnowflake(caller.ID), caller.Username)
	if err != nil {
		log.WithError(err).Error("Failed to get or create user")
		common.RespondWithError(s, i, "Something went wrong, try again later")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("You have **%s points**", common.FormatBalance(user.Balance)),
		Color:       colorNeutral,
	}
	common.RespondWithEmbed(s, i, embed, true)
}

// handleHistory shows the caller's recent settled bets.
func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	caller := interactionUser(i)

	bets, err := b.userService.History(ctx, parseSnowflake(caller.ID), historyLimit)
	if err != nil {
		log.WithError(err).Error("Failed to load bet history")
		common.RespondWithError(s, i, "Something went wrong, try again later")
		return
	}
	if len(bets) == 0 {
		common.RespondWithMessage(s, i, "No settled bets yet")
		return
	}

	var sb strings.Builder
	for _, bet := range bets {
		mark := "🔴"
		if bet.Won {
			mark = "🟢"
		}
		fmt.Fprintf(&sb, "%s %s `%d` %s %s at %s, net **%+d** (%s)\n",
			mark, common.FormatDiscordTimestamp(bet.SettledAt, "d"), bet.MatchID,
			bet.SubjectKind, bet.Direction, bet.Odds.String(), bet.NetProfit(),
			common.FormatBalance(bet.Stake))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📜 Recent bets",
		Description: sb.String(),
		Color:       colorNeutral,
	}
	common.RespondWithEmbed(s, i, embed, true)
}

// handleSteamConfig links a steam account id to the caller.
func (b *Bot) handleSteamConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	caller := interactionUser(i)
	options := optionMap(i)

	steamID := options["steam_id"].IntValue()
	if err := b.userService.ConfigureSteam(ctx, parseSnowflake(caller.ID), caller.Username, steamID); err != nil {
		b.respondFailure(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Steam account `%d` linked, others can now bet on your matches", steamID))
}

// handleSetBalance overwrites a member's balance. Requires the administrator
// permission.
func (b *Bot) handleSetBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		common.RespondWithError(s, i, "Administrator permission required")
		return
	}

	ctx := context.Background()
	options := optionMap(i)

	target := options["member"].UserValue(s)
	if target == nil {
		common.RespondWithError(s, i, "Could not resolve that member")
		return
	}
	amount := options["amount"].IntValue()

	if err := b.userService.SetBalance(ctx, parseSnowflake(target.ID), target.Username, amount); err != nil {
		b.respondFailure(s, i, err)
		return
	}

	log.WithFields(log.Fields{
		"admin":      interactionUser(i).ID,
		"discord_id": target.ID,
		"balance":    amount,
	}).Warn("Balance overwritten via command")

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Set %s's balance to **%s points**", target.Mention(), common.FormatBalance(amount)))
}
