package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"

	"dotabet/domain/entities"
	"dotabet/domain/services"
)

// BetSubmitter accepts bets into the settlement pipeline.
type BetSubmitter interface {
	Submit(req *entities.BetRequest) error
}

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// Bot is the Discord front-end: it turns slash commands into bet requests
// and posts pipeline outcomes back into the channel each bet came from.
type Bot struct {
	config      Config
	session     *discordgo.Session
	submitter   BetSubmitter
	userService *services.UserService
	resolver    *services.SubjectResolver
	outcomes    <-chan entities.Outcome
}

func New(config Config, submitter BetSubmitter, userService *services.UserService, resolver *services.SubjectResolver, outcomes <-chan entities.Outcome) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:      config,
		session:     dg,
		submitter:   submitter,
		userService: userService,
		resolver:    resolver,
		outcomes:    outcomes,
	}

	dg.AddHandler(bot.handleCommands)

	return bot, nil
}

// Start opens the gateway connection, registers the slash commands and
// begins draining the outcome channel.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}

	go b.notifyOutcomes(ctx)

	log.Info("Discord bot started")
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "bet":
		b.handleBet(s, i)
	case "betteam":
		b.handleBetTeam(s, i)
	case "balance":
		b.handleBalance(s, i)
	case "history":
		b.handleHistory(s, i)
	case "steamconfig":
		b.handleSteamConfig(s, i)
	case "setbalance":
		b.handleSetBalance(s, i)
	}
}
