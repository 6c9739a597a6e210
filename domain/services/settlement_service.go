package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
)

// SettlementService owns every funds movement of the bet state machine.
// Each public method is one database transaction: the ledger, the in-play
// registry and the settlement log either all observe the step or none do,
// so a bet can never be settled without its registry entry disappearing,
// and a crash between partial writes is impossible.
type SettlementService struct {
	uowFactory interfaces.UnitOfWorkFactory
	logger     *logrus.Entry
}

// NewSettlementService creates a settlement service.
func NewSettlementService(uowFactory interfaces.UnitOfWorkFactory) *SettlementService {
	return &SettlementService{
		uowFactory: uowFactory,
		logger:     logrus.WithField("component", "settlement"),
	}
}

// Reserve debits the stake and writes the in-play record atomically.
// A BetID that is already in play or already settled returns
// entities.ErrDuplicateBet. A balance guard failure returns an
// *entities.InsufficientBalanceError. In both cases no funds move.
func (s *SettlementService) Reserve(ctx context.Context, req *entities.BetRequest) (*entities.InPlayRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin reserve transaction: %w", err)
	}
	defer uow.Rollback()

	settled, err := uow.CompletedBetRepository().Exists(ctx, req.BetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check settlement log: %w", err)
	}
	if settled {
		return nil, entities.ErrDuplicateBet
	}

	record := &entities.InPlayRecord{
		BetRequest: *req,
		DebitedAt:  time.Now().UTC(),
	}
	if err := uow.InPlayRepository().Put(ctx, record); err != nil {
		return nil, err
	}

	if _, err := uow.UserRepository().AdjustBalance(ctx, req.DiscordID, -req.Stake); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reserve: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bet_id":     req.BetID,
		"discord_id": req.DiscordID,
		"stake":      req.Stake,
	}).Info("Stake reserved")

	return record, nil
}

// Refund credits the stake back and deletes the in-play record atomically,
// returning the balance after the credit. A record that is already gone
// means the bet was refunded or settled elsewhere; the ledger is left
// untouched and the current balance is returned.
func (s *SettlementService) Refund(ctx context.Context, record *entities.InPlayRecord) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin refund transaction: %w", err)
	}
	defer uow.Rollback()

	existed, err := uow.InPlayRepository().Delete(ctx, record.BetID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete in-play record: %w", err)
	}
	if !existed {
		user, err := uow.UserRepository().GetByDiscordID(ctx, record.DiscordID)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, entities.ErrUserNotFound
		}
		if err := uow.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit refund: %w", err)
		}
		s.logger.WithField("bet_id", record.BetID).Warn("Refund skipped, record already gone")
		return user.Balance, nil
	}

	newBalance, err := uow.UserRepository().AdjustBalance(ctx, record.DiscordID, record.Stake)
	if err != nil {
		return 0, fmt.Errorf("failed to credit refund: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit refund: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bet_id":      record.BetID,
		"discord_id":  record.DiscordID,
		"stake":       record.Stake,
		"new_balance": newBalance,
	}).Info("Stake refunded")

	return newBalance, nil
}

// Settle finalizes a priced bet atomically: the payout credit on a win,
// the in-play record deletion and the settlement log append share one
// transaction. Settling a bet whose record is already gone returns
// entities.ErrDuplicateBet.
func (s *SettlementService) Settle(ctx context.Context, record *entities.InPlayRecord, priced *entities.PricedBet) (*entities.CompletedBet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin settle transaction: %w", err)
	}
	defer uow.Rollback()

	existed, err := uow.InPlayRepository().Delete(ctx, record.BetID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete in-play record: %w", err)
	}
	if !existed {
		return nil, entities.ErrDuplicateBet
	}

	var newBalance, balanceDelta int64
	if priced.Won {
		balanceDelta = priced.Payout
		newBalance, err = uow.UserRepository().AdjustBalance(ctx, record.DiscordID, priced.Payout)
		if err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
	} else {
		balanceDelta = -record.Stake
		user, err := uow.UserRepository().GetByDiscordID(ctx, record.DiscordID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, entities.ErrUserNotFound
		}
		newBalance = user.Balance
	}

	completed := &entities.CompletedBet{
		BetID:        record.BetID,
		DiscordID:    record.DiscordID,
		ChannelID:    record.ChannelID,
		MatchID:      priced.MatchID,
		SubjectKind:  record.SubjectKind,
		SubjectRef:   record.SubjectRef,
		Direction:    record.Direction,
		Stake:        record.Stake,
		Odds:         priced.Quote,
		Won:          priced.Won,
		BalanceDelta: balanceDelta,
		NewBalance:   newBalance,
		SubmittedAt:  record.SubmittedAt,
		SettledAt:    time.Now().UTC(),
	}
	if err := uow.CompletedBetRepository().Create(ctx, completed); err != nil {
		return nil, fmt.Errorf("failed to append settlement record: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"bet_id":      record.BetID,
		"match_id":    priced.MatchID,
		"won":         priced.Won,
		"payout":      priced.Payout,
		"new_balance": newBalance,
	}).Info("Bet settled")

	return completed, nil
}
