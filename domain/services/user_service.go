package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
)

// UserService handles account lifecycle outside the settlement path:
// lazy account creation, steam configuration and balance queries.
type UserService struct {
	users         interfaces.UserRepository
	completedBets interfaces.CompletedBetRepository
	startBalance  int64
	logger        *logrus.Entry
}

// NewUserService creates a user service.
func NewUserService(users interfaces.UserRepository, completedBets interfaces.CompletedBetRepository, startBalance int64) *UserService {
	return &UserService{
		users:         users,
		completedBets: completedBets,
		startBalance:  startBalance,
		logger:        logrus.WithField("component", "users"),
	}
}

// GetOrCreateUser returns the user's account, creating it with the starting
// balance on first contact.
func (s *UserService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*entities.User, error) {
	user, err := s.users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, discordID, username, s.startBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"discord_id": discordID,
		"balance":    s.startBalance,
	}).Info("Account created")

	return user, nil
}

// ConfigureSteam associates a steam account id with the user.
func (s *UserService) ConfigureSteam(ctx context.Context, discordID int64, username string, steamID int64) error {
	if steamID <= 0 {
		return entities.NewReject(entities.FailureSyntax, "steam id must be a positive number")
	}
	if _, err := s.GetOrCreateUser(ctx, discordID, username); err != nil {
		return err
	}
	if err := s.users.SetSteamID(ctx, discordID, steamID); err != nil {
		return fmt.Errorf("failed to set steam id: %w", err)
	}
	return nil
}

// SetBalance overwrites a user's balance. Operator command only.
func (s *UserService) SetBalance(ctx context.Context, discordID int64, username string, balance int64) error {
	if balance < 0 {
		return entities.NewReject(entities.FailureSyntax, "balance cannot be negative")
	}
	if _, err := s.GetOrCreateUser(ctx, discordID, username); err != nil {
		return err
	}
	if err := s.users.SetBalance(ctx, discordID, balance); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"discord_id": discordID,
		"balance":    balance,
	}).Warn("Balance overwritten by operator")
	return nil
}

// History returns the user's most recent settled bets.
func (s *UserService) History(ctx context.Context, discordID int64, limit int) ([]*entities.CompletedBet, error) {
	return s.completedBets.GetByUser(ctx, discordID, limit)
}
