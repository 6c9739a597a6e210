package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
)

// FanoutOutcomeSink delivers each outcome to a primary sink and mirrors it
// to any number of secondary ones. Only the primary delivery can fail the
// enqueue; mirror failures are logged and swallowed so an unreachable bus
// never blocks user-facing results.
type FanoutOutcomeSink struct {
	primary interfaces.OutcomeSink
	mirrors []interfaces.OutcomeSink
}

// NewFanoutOutcomeSink creates a fan-out sink.
func NewFanoutOutcomeSink(primary interfaces.OutcomeSink, mirrors ...interfaces.OutcomeSink) *FanoutOutcomeSink {
	return &FanoutOutcomeSink{primary: primary, mirrors: mirrors}
}

// Enqueue delivers to the primary sink first, then the mirrors.
func (s *FanoutOutcomeSink) Enqueue(ctx context.Context, outcome entities.Outcome) error {
	if err := s.primary.Enqueue(ctx, outcome); err != nil {
		return err
	}
	for _, mirror := range s.mirrors {
		if err := mirror.Enqueue(ctx, outcome); err != nil {
			log.WithError(err).WithField("bet_id", outcome.BetID).Warn("Outcome mirror delivery failed")
		}
	}
	return nil
}
