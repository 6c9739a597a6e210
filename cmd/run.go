package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"dotabet/bot"
	"dotabet/config"
	"dotabet/database"
	"dotabet/domain/interfaces"
	"dotabet/domain/services"
	"dotabet/infrastructure"
	"dotabet/infrastructure/metrics"
	"dotabet/opendota"
	"dotabet/pipeline"
	"dotabet/pricing"
	"dotabet/repository"
)

// Run initializes and starts the application. Startup order matters: the
// recovery sweep must complete before the dispatcher and the bot accept any
// bets, so stakes stranded by a previous crash are returned first.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.Info("Starting dotabet...")

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Data access
	uowFactory := repository.NewUnitOfWorkFactory(db)
	userRepo := repository.NewUserRepository(db)
	inPlayRepo := repository.NewInPlayRepository(db)
	completedRepo := repository.NewCompletedBetRepository(db)

	// Domain services
	settler := services.NewSettlementService(uowFactory)
	userService := services.NewUserService(userRepo, completedRepo, cfg.StartingBalance)
	resolver, err := services.NewSubjectResolver(userRepo, cfg.TeamsFile)
	if err != nil {
		return fmt.Errorf("failed to create subject resolver: %w", err)
	}

	// Match tracking and pricing
	matchSource := opendota.NewClient(cfg)
	pricer := pricing.NewService(pricing.NewAdvantageEstimator())

	// Outcome delivery: the bot consumes the channel sink; NATS mirrors
	// outcomes for downstream consumers when configured.
	channelSink := infrastructure.NewChannelOutcomeSink(cfg.QueueSize)
	var outcomeSink interfaces.OutcomeSink = channelSink
	if cfg.NATSServers != "" {
		natsSink := infrastructure.NewNATSOutcomeSink(cfg.NATSServers)
		if err := natsSink.Connect(); err != nil {
			return fmt.Errorf("failed to connect outcome mirror: %w", err)
		}
		defer natsSink.Close()
		outcomeSink = infrastructure.NewFanoutOutcomeSink(channelSink, natsSink)
	}

	// Settlement pipeline
	p := pipeline.New(settler, matchSource, pricer, outcomeSink)
	dispatcher := pipeline.NewDispatcher(cfg, p)

	// Recovery sweep runs before anything accepts bets.
	sweeper := pipeline.NewSweeper(settler, inPlayRepo, outcomeSink)
	if err := sweeper.Run(ctx); err != nil {
		return fmt.Errorf("startup recovery failed: %w", err)
	}

	dispatcher.Start(ctx)

	// Discord front-end
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken, GuildID: cfg.GuildID},
		dispatcher, userService, resolver, channelSink.Outcomes())
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	if err := discordBot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	// Metrics listener
	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.StartServer(cfg.MetricsAddr, func(ctx context.Context) error {
			return db.Ping(ctx)
		})
		defer metricsSrv.Close()
		log.WithField("addr", cfg.MetricsAddr).Info("Metrics listener started")
	}

	log.WithField("environment", cfg.Environment).Info("dotabet is running")
	<-ctx.Done()

	log.Info("Shutting down...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// In-flight pipelines observe the canceled context and leave their
	// in-play records for the next startup's recovery sweep.
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("Dispatcher drained")
	case <-time.After(10 * time.Second):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}
