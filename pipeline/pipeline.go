package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
	"dotabet/infrastructure/metrics"
)

// Pipeline executes the bet state machine for a single request:
//
//	validate -> reserve -> wait for match -> ensure parsed -> price -> settle
//
// Failures before the reserve step reject the bet with no ledger contact.
// Failures after it refund the stake. A refund that itself fails strands
// the stake and is escalated; the in-play record is left for the operator.
// Every run emits exactly one outcome.
type Pipeline struct {
	settler interfaces.Settler
	source  interfaces.MatchSource
	pricer  interfaces.Pricer
	sink    interfaces.OutcomeSink
	logger  *logrus.Entry
}

// New creates a pipeline.
func New(settler interfaces.Settler, source interfaces.MatchSource, pricer interfaces.Pricer, sink interfaces.OutcomeSink) *Pipeline {
	return &Pipeline{
		settler: settler,
		source:  source,
		pricer:  pricer,
		sink:    sink,
		logger:  logrus.WithField("component", "pipeline"),
	}
}

// Run drives one bet to a terminal state and delivers its outcome. It only
// returns without an outcome when the context was canceled mid-flight; the
// in-play record then survives for startup recovery.
func (p *Pipeline) Run(ctx context.Context, req *entities.BetRequest) {
	start := time.Now()

	outcome := p.execute(ctx, req)
	if outcome == nil {
		p.logger.WithField("bet_id", req.BetID).Info("Shutdown mid-flight, bet left in play for recovery")
		return
	}

	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.Outcomes.WithLabelValues(string(outcome.Kind), string(outcome.Code)).Inc()

	// The sink is the last step; delivery failure must not lose the
	// settlement, so it is logged and dropped.
	if err := p.sink.Enqueue(ctx, *outcome); err != nil {
		p.logger.WithError(err).WithField("bet_id", req.BetID).Error("Failed to deliver outcome")
	}
}

func (p *Pipeline) execute(ctx context.Context, req *entities.BetRequest) *entities.Outcome {
	log := p.logger.WithFields(logrus.Fields{
		"bet_id":       req.BetID,
		"discord_id":   req.DiscordID,
		"subject_kind": req.SubjectKind,
		"subject_ref":  req.SubjectRef,
		"direction":    req.Direction,
		"stake":        req.Stake,
	})

	if err := req.Validate(); err != nil {
		return p.rejected(req, err)
	}

	record, err := p.settler.Reserve(ctx, req)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateBet) {
			return p.rejected(req, entities.NewReject(entities.FailureDuplicate, "bet already placed"))
		}
		return p.rejected(req, err)
	}
	log.Info("Bet reserved, waiting for match")

	matchID, err := p.source.WaitForNewMatch(ctx, req.SubjectKind, req.SubjectRef)
	if err != nil {
		return p.refund(ctx, record, 0, err)
	}
	log = log.WithField("match_id", matchID)
	log.Info("Match found, waiting for parse")

	snapshot, err := p.source.EnsureParsedAndFetch(ctx, matchID)
	if err != nil {
		return p.refund(ctx, record, matchID, err)
	}

	priced, err := p.pricer.Price(ctx, snapshot, req)
	if err != nil {
		return p.refund(ctx, record, matchID, err)
	}

	completed, err := p.settler.Settle(ctx, record, priced)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateBet) {
			// The record vanished under us; recovery already refunded it
			// and owns the outcome.
			log.Warn("Record gone at settlement, treating as externally refunded")
			return nil
		}
		return p.refund(ctx, record, matchID, err)
	}

	kind := entities.OutcomeLost
	if completed.Won {
		kind = entities.OutcomeWon
	}
	log.WithFields(logrus.Fields{
		"kind":   kind,
		"odds":   priced.Quote.String(),
		"payout": priced.Payout,
	}).Info("Bet settled")

	return &entities.Outcome{
		BetID:      req.BetID,
		DiscordID:  req.DiscordID,
		ChannelID:  req.ChannelID,
		Kind:       kind,
		MatchID:    matchID,
		Stake:      req.Stake,
		Odds:       &priced.Quote,
		Payout:     priced.Payout,
		NewBalance: completed.NewBalance,
	}
}

// rejected builds the outcome for a failure that happened before any funds
// moved.
func (p *Pipeline) rejected(req *entities.BetRequest, err error) *entities.Outcome {
	failure := entities.AsBetFailure(err)
	return &entities.Outcome{
		BetID:     req.BetID,
		DiscordID: req.DiscordID,
		ChannelID: req.ChannelID,
		Kind:      entities.OutcomeRejected,
		Code:      failure.Code,
		Detail:    failure.Message,
		Stake:     req.Stake,
	}
}

// refund compensates a debited stake after a mid-flight failure. A canceled
// context skips the refund entirely; the record stays for recovery. A failed
// refund escalates to a fatal outcome.
func (p *Pipeline) refund(ctx context.Context, record *entities.InPlayRecord, matchID int64, cause error) *entities.Outcome {
	if ctx.Err() != nil {
		return nil
	}

	failure := entities.AsBetFailure(cause)
	log := p.logger.WithFields(logrus.Fields{
		"bet_id": record.BetID,
		"code":   failure.Code,
	})

	newBalance, err := p.settler.Refund(ctx, record)
	if err != nil {
		log.WithError(err).Error("Refund failed, stake stranded")
		return &entities.Outcome{
			BetID:     record.BetID,
			DiscordID: record.DiscordID,
			ChannelID: record.ChannelID,
			Kind:      entities.OutcomeFailed,
			Code:      entities.FailureUnknown,
			Detail:    "settlement and refund both failed, contact an operator",
			MatchID:   matchID,
			Stake:     record.Stake,
		}
	}

	log.WithField("cause", failure.Message).Info("Stake refunded")
	return &entities.Outcome{
		BetID:      record.BetID,
		DiscordID:  record.DiscordID,
		ChannelID:  record.ChannelID,
		Kind:       entities.OutcomeRefunded,
		Code:       failure.Code,
		Detail:     failure.Message,
		MatchID:    matchID,
		Stake:      record.Stake,
		NewBalance: newBalance,
	}
}
