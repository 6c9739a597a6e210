package pricing

import (
	"context"
	"fmt"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// minProbability bounds the estimate away from 0 and 1 so a quote always
// exists. The estimator contract is (0,1) but the ledger must not depend on
// an external model honoring it.
const minProbability = 0.01

// Service prices bets against finished matches using an externally supplied
// win-probability estimator.
type Service struct {
	estimator interfaces.Estimator
}

// NewService creates a pricing service.
func NewService(estimator interfaces.Estimator) *Service {
	return &Service{estimator: estimator}
}

// Price validates match eligibility, resolves which side the subject played
// on, quotes odds for the bet as placed, and decides the outcome.
func (s *Service) Price(ctx context.Context, snapshot *entities.MatchSnapshot, req *entities.BetRequest) (*entities.PricedBet, error) {
	minute, err := checkEligibility(snapshot, req.SubmittedAt)
	if err != nil {
		return nil, err
	}

	side, ok := s.resolveSide(snapshot, req)
	if !ok {
		return nil, entities.NewRefund(entities.FailureUnknown,
			fmt.Sprintf("subject %d did not take part in match %d", req.SubjectRef, snapshot.MatchID), nil)
	}

	pRadiantWin, err := s.estimator.Estimate(ctx, snapshot, minute)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate win probability for match %d: %w", snapshot.MatchID, err)
	}

	p := TransformProbability(pRadiantWin, side, req.Direction)
	if p < minProbability {
		p = minProbability
	}
	if p > 1-minProbability {
		p = 1 - minProbability
	}

	quote, err := NewQuote(p)
	if err != nil {
		return nil, fmt.Errorf("failed to quote odds for match %d: %w", snapshot.MatchID, err)
	}

	won := BetWon(snapshot.RadiantWin, side, req.Direction)
	var payout int64
	if won {
		payout = quote.Payout(req.Stake)
	}

	log.WithFields(log.Fields{
		"bet_id":   req.BetID,
		"match_id": snapshot.MatchID,
		"side":     side.String(),
		"minute":   minute,
		"odds":     quote.String(),
		"won":      won,
	}).Debug("Priced bet")

	return &entities.PricedBet{
		MatchID: snapshot.MatchID,
		Side:    side,
		Minute:  minute,
		Quote:   quote,
		Won:     won,
		Payout:  payout,
	}, nil
}

func (s *Service) resolveSide(snapshot *entities.MatchSnapshot, req *entities.BetRequest) (entities.Side, bool) {
	if req.SubjectKind == entities.SubjectTeam {
		return snapshot.SideOfTeam(req.SubjectRef)
	}
	return snapshot.SideOfPlayer(req.SubjectRef)
}
