package interfaces

import (
	"context"

	"dotabet/domain/entities"

	"github.com/google/uuid"
)

// UserRepository is the balance ledger's data access contract.
type UserRepository interface {
	// GetByDiscordID retrieves a user, or nil when not found.
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error)

	// Create creates a new user with the initial balance.
	Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*entities.User, error)

	// SetSteamID associates a steam account with the user.
	SetSteamID(ctx context.Context, discordID int64, steamID int64) error

	// AdjustBalance applies a relative balance change. The mutation is a
	// single conditional update: a debit only applies when the resulting
	// balance stays non-negative, otherwise an
	// *entities.InsufficientBalanceError is returned and nothing changes.
	// Returns the balance after the adjustment.
	AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error)

	// SetBalance overwrites a balance unconditionally. Account reset only.
	SetBalance(ctx context.Context, discordID int64, balance int64) error
}

// InPlayRepository is the durable registry of debited-but-unsettled bets.
type InPlayRepository interface {
	// Put writes the write-ahead record. A BetID collision returns
	// entities.ErrDuplicateBet.
	Put(ctx context.Context, record *entities.InPlayRecord) error

	// Delete removes the record, reporting whether it existed.
	Delete(ctx context.Context, betID uuid.UUID) (bool, error)

	// ScanAll returns every in-play record. Recovery sweeper only.
	ScanAll(ctx context.Context) ([]*entities.InPlayRecord, error)
}

// CompletedBetRepository is the append-only settlement log.
type CompletedBetRepository interface {
	// Create appends a settlement record.
	Create(ctx context.Context, bet *entities.CompletedBet) error

	// Exists reports whether a BetID has already been settled.
	Exists(ctx context.Context, betID uuid.UUID) (bool, error)

	// GetByUser returns a user's most recent completed bets.
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.CompletedBet, error)
}
