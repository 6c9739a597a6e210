package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
	"dotabet/infrastructure/metrics"
)

// Sweeper refunds every bet left in play by a previous process. A record
// can only exist between a debit and its settlement, so after a crash the
// match context for each one is gone and a full refund is always the safe
// resolution. The sweep must finish before the dispatcher accepts bets.
type Sweeper struct {
	settler interfaces.Settler
	inPlay  interfaces.InPlayRepository
	sink    interfaces.OutcomeSink
	logger  *logrus.Entry
}

// NewSweeper creates a recovery sweeper.
func NewSweeper(settler interfaces.Settler, inPlay interfaces.InPlayRepository, sink interfaces.OutcomeSink) *Sweeper {
	return &Sweeper{
		settler: settler,
		inPlay:  inPlay,
		sink:    sink,
		logger:  logrus.WithField("component", "sweeper"),
	}
}

// Run refunds all in-play records. Any failed refund aborts startup; coming
// up with stranded stakes would silently eat them on the next crash.
func (s *Sweeper) Run(ctx context.Context) error {
	records, err := s.inPlay.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan in-play registry: %w", err)
	}
	if len(records) == 0 {
		s.logger.Info("No in-play bets to recover")
		return nil
	}

	s.logger.WithField("count", len(records)).Warn("Recovering in-play bets from previous run")

	for _, record := range records {
		newBalance, err := s.settler.Refund(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to refund in-play bet %s: %w", record.BetID, err)
		}
		metrics.RecoveredBets.Inc()

		s.logger.WithFields(logrus.Fields{
			"bet_id":      record.BetID,
			"discord_id":  record.DiscordID,
			"stake":       record.Stake,
			"new_balance": newBalance,
		}).Info("In-play bet refunded")

		outcome := entities.Outcome{
			BetID:      record.BetID,
			DiscordID:  record.DiscordID,
			ChannelID:  record.ChannelID,
			Kind:       entities.OutcomeRefunded,
			Code:       entities.FailureUnknown,
			Detail:     "service restarted before settlement, stake returned",
			Stake:      record.Stake,
			NewBalance: newBalance,
		}
		if err := s.sink.Enqueue(ctx, outcome); err != nil {
			s.logger.WithError(err).WithField("bet_id", record.BetID).Error("Failed to deliver recovery outcome")
		}
	}

	return nil
}
