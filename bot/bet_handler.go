package bot

import (
	"context"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"dotabet/bot/common"
	"dotabet/domain/entities"
)

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func parseSnowflake(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// handleBet places a bet on a member's next match.
func (b *Bot) handleBet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := optionMap(i)

	target := options["member"].UserValue(s)
	if target == nil {
		common.RespondWithError(s, i, "Could not resolve that member")
		return
	}

	steamID, err := b.resolver.ResolvePlayer(ctx, parseSnowflake(target.ID))
	if err != nil {
		b.respondFailure(s, i, err)
		return
	}

	b.submitBet(s, i, entities.SubjectPlayer, steamID, target.Mention(), options)
}

// handleBetTeam places a bet on a registered pro team's next match.
func (b *Bot) handleBetTeam(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := optionMap(i)

	teamName := options["team"].StringValue()
	teamID, err := b.resolver.ResolveTeam(teamName)
	if err != nil {
		b.respondFailure(s, i, err)
		return
	}

	b.submitBet(s, i, entities.SubjectTeam, teamID, teamName, options)
}

func (b *Bot) submitBet(s *discordgo.Session, i *discordgo.InteractionCreate, kind entities.SubjectKind, subjectRef int64, subjectLabel string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	bettor := interactionUser(i)

	// The account must exist before the pipeline debits it.
	user, err := b.userService.GetOrCreateUser(ctx, parseSnowflake(bettor.ID), bettor.Username)
	if err != nil {
		log.WithError(err).Error("Failed to get or create user")
		common.RespondWithError(s, i, "Something went wrong, try again later")
		return
	}

	req := &entities.BetRequest{
		BetID:       uuid.New(),
		DiscordID:   user.DiscordID,
		ChannelID:   parseSnowflake(i.ChannelID),
		SubjectKind: kind,
		SubjectRef:  subjectRef,
		Direction:   entities.Direction(options["direction"].StringValue()),
		Stake:       options["amount"].IntValue(),
		SubmittedAt: time.Now().UTC(),
	}

	if err := req.Validate(); err != nil {
		b.respondFailure(s, i, err)
		return
	}
	if !user.HasSufficientBalance(req.Stake) {
		common.RespondWithError(s, i, "Insufficient balance for that stake")
		return
	}

	if err := b.submitter.Submit(req); err != nil {
		b.respondFailure(s, i, err)
		return
	}

	log.WithFields(log.Fields{
		"bet_id":      req.BetID,
		"discord_id":  req.DiscordID,
		"subject_ref": req.SubjectRef,
		"stake":       req.Stake,
	}).Info("Bet submitted")

	common.RespondWithEmbed(s, i, betAcceptedEmbed(req, subjectLabel), false)
}

// respondFailure renders a pipeline failure as an ephemeral reply.
func (b *Bot) respondFailure(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	failure := entities.AsBetFailure(err)
	if err := common.RespondWithError(s, i, failure.Message); err != nil {
		log.WithError(err).Error("Failed to respond to interaction")
	}
}
