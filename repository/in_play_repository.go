package repository

import (
	"context"
	"errors"
	"fmt"

	"dotabet/database"
	"dotabet/domain/entities"
	"dotabet/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// InPlayRepository implements the in-play registry on postgres.
type InPlayRepository struct {
	q Queryable
}

// NewInPlayRepository creates an in-play repository on the connection pool.
func NewInPlayRepository(db *database.DB) *InPlayRepository {
	return &InPlayRepository{q: db.Pool}
}

func newInPlayRepository(q Queryable) interfaces.InPlayRepository {
	return &InPlayRepository{q: q}
}

// Put writes the write-ahead record for a debited bet. A primary key
// collision means the BetID was already reserved and maps to
// entities.ErrDuplicateBet.
func (r *InPlayRepository) Put(ctx context.Context, record *entities.InPlayRecord) error {
	query := `
		INSERT INTO in_play_bets
			(bet_id, discord_id, channel_id, subject_kind, subject_ref, direction, stake, submitted_at, debited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		record.BetID,
		record.DiscordID,
		record.ChannelID,
		record.SubjectKind,
		record.SubjectRef,
		record.Direction,
		record.Stake,
		record.SubmittedAt,
		record.DebitedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.ErrDuplicateBet
		}
		return fmt.Errorf("failed to put in-play record %s: %w", record.BetID, err)
	}

	return nil
}

// Delete removes an in-play record, reporting whether it existed.
func (r *InPlayRepository) Delete(ctx context.Context, betID uuid.UUID) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM in_play_bets WHERE bet_id = $1`, betID)
	if err != nil {
		return false, fmt.Errorf("failed to delete in-play record %s: %w", betID, err)
	}
	return result.RowsAffected() > 0, nil
}

// ScanAll returns every in-play record, oldest debit first.
func (r *InPlayRepository) ScanAll(ctx context.Context) ([]*entities.InPlayRecord, error) {
	query := `
		SELECT bet_id, discord_id, channel_id, subject_kind, subject_ref, direction, stake, submitted_at, debited_at
		FROM in_play_bets
		ORDER BY debited_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan in-play records: %w", err)
	}
	defer rows.Close()

	var records []*entities.InPlayRecord
	for rows.Next() {
		var rec entities.InPlayRecord
		err := rows.Scan(
			&rec.BetID,
			&rec.DiscordID,
			&rec.ChannelID,
			&rec.SubjectKind,
			&rec.SubjectRef,
			&rec.Direction,
			&rec.Stake,
			&rec.SubmittedAt,
			&rec.DebitedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan in-play record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate in-play records: %w", err)
	}

	return records, nil
}
