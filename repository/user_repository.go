package repository

import (
	"context"
	"fmt"

	"dotabet/database"
	"dotabet/domain/entities"
	"dotabet/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the balance ledger on a postgres users table.
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a user repository on the connection pool.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

func newUserRepository(q Queryable) interfaces.UserRepository {
	return &UserRepository{q: q}
}

// GetByDiscordID retrieves a user by their Discord ID, or nil when absent.
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	query := `
		SELECT discord_id, username, steam_id, balance, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.SteamID,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", discordID, err)
	}

	return &user, nil
}

// Create creates a new user with the initial balance. Re-creating an
// existing user only refreshes the username.
func (r *UserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*entities.User, error) {
	query := `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING discord_id, username, steam_id, balance, created_at, updated_at
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, discordID, username, initialBalance).Scan(
		&user.DiscordID,
		&user.Username,
		&user.SteamID,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", discordID, err)
	}

	return &user, nil
}

// SetSteamID associates a steam account with the user.
func (r *UserRepository) SetSteamID(ctx context.Context, discordID int64, steamID int64) error {
	query := `
		UPDATE users
		SET steam_id = $1, updated_at = NOW()
		WHERE discord_id = $2
	`
	result, err := r.q.Exec(ctx, query, steamID, discordID)
	if err != nil {
		return fmt.Errorf("failed to set steam id for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// AdjustBalance applies a relative balance change in one conditional
// update. The balance guard is atomic with the mutation: a debit only
// applies when the resulting balance stays non-negative. Rows for different
// users never contend with each other.
func (r *UserRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance + $1 >= 0
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, delta, discordID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the user is missing or the guard failed. Distinguish by
		// re-reading the row; the adjustment itself never partially applies.
		user, lookupErr := r.GetByDiscordID(ctx, discordID)
		if lookupErr != nil {
			return 0, lookupErr
		}
		if user == nil {
			return 0, entities.ErrUserNotFound
		}
		return 0, &entities.InsufficientBalanceError{Current: user.Balance, Requested: -delta}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance for user %d by %d: %w", discordID, delta, err)
	}

	return newBalance, nil
}

// SetBalance overwrites a user's balance. Account creation/reset only; all
// other mutation goes through AdjustBalance.
func (r *UserRepository) SetBalance(ctx context.Context, discordID int64, balance int64) error {
	query := `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE discord_id = $2
	`
	result, err := r.q.Exec(ctx, query, balance, discordID)
	if err != nil {
		return fmt.Errorf("failed to set balance for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}
