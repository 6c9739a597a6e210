package repository

import (
	"context"
	"fmt"

	"dotabet/database"
	"dotabet/domain/entities"
	"dotabet/domain/interfaces"

	"github.com/google/uuid"
)

// CompletedBetRepository implements the append-only settlement log.
type CompletedBetRepository struct {
	q Queryable
}

// NewCompletedBetRepository creates a completed bet repository on the pool.
func NewCompletedBetRepository(db *database.DB) *CompletedBetRepository {
	return &CompletedBetRepository{q: db.Pool}
}

func newCompletedBetRepository(q Queryable) interfaces.CompletedBetRepository {
	return &CompletedBetRepository{q: q}
}

// Create appends a settlement record.
func (r *CompletedBetRepository) Create(ctx context.Context, bet *entities.CompletedBet) error {
	query := `
		INSERT INTO completed_bets
			(bet_id, discord_id, channel_id, match_id, subject_kind, subject_ref, direction,
			 stake, odds_numerator, odds_denominator, win_probability, won,
			 balance_delta, new_balance, submitted_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.q.Exec(ctx, query,
		bet.BetID,
		bet.DiscordID,
		bet.ChannelID,
		bet.MatchID,
		bet.SubjectKind,
		bet.SubjectRef,
		bet.Direction,
		bet.Stake,
		bet.Odds.Numerator,
		bet.Odds.Denominator,
		bet.Odds.Probability,
		bet.Won,
		bet.BalanceDelta,
		bet.NewBalance,
		bet.SubmittedAt,
		bet.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create completed bet %s: %w", bet.BetID, err)
	}

	return nil
}

// Exists reports whether a BetID has already been settled.
func (r *CompletedBetRepository) Exists(ctx context.Context, betID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM completed_bets WHERE bet_id = $1)`, betID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed bet %s: %w", betID, err)
	}
	return exists, nil
}

// GetByUser returns a user's most recent completed bets.
func (r *CompletedBetRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.CompletedBet, error) {
	query := `
		SELECT bet_id, discord_id, channel_id, match_id, subject_kind, subject_ref, direction,
		       stake, odds_numerator, odds_denominator, win_probability, won,
		       balance_delta, new_balance, submitted_at, settled_at
		FROM completed_bets
		WHERE discord_id = $1
		ORDER BY settled_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed bets for user %d: %w", discordID, err)
	}
	defer rows.Close()

	var bets []*entities.CompletedBet
	for rows.Next() {
		var bet entities.CompletedBet
		err := rows.Scan(
			&bet.BetID,
			&bet.DiscordID,
			&bet.ChannelID,
			&bet.MatchID,
			&bet.SubjectKind,
			&bet.SubjectRef,
			&bet.Direction,
			&bet.Stake,
			&bet.Odds.Numerator,
			&bet.Odds.Denominator,
			&bet.Odds.Probability,
			&bet.Won,
			&bet.BalanceDelta,
			&bet.NewBalance,
			&bet.SubmittedAt,
			&bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completed bet: %w", err)
		}
		bets = append(bets, &bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completed bets: %w", err)
	}

	return bets, nil
}
