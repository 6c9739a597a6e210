package entities

import (
	"time"

	"github.com/google/uuid"
)

// CompletedBet is an append-only settlement record. It is never mutated
// after creation.
type CompletedBet struct {
	BetID          uuid.UUID   `db:"bet_id"`
	DiscordID      int64       `db:"discord_id"`
	ChannelID      int64       `db:"channel_id"`
	MatchID        int64       `db:"match_id"`
	SubjectKind    SubjectKind `db:"subject_kind"`
	SubjectRef     int64       `db:"subject_ref"`
	Direction      Direction   `db:"direction"`
	Stake          int64       `db:"stake"`
	Odds           OddsQuote   `db:"-"` // stored as odds_numerator/odds_denominator/win_probability
	Won            bool        `db:"won"`
	BalanceDelta   int64       `db:"balance_delta"`
	NewBalance     int64       `db:"new_balance"`
	SubmittedAt    time.Time   `db:"submitted_at"`
	SettledAt      time.Time   `db:"settled_at"`
}

// NetProfit returns the net profit or loss relative to the stake.
func (b *CompletedBet) NetProfit() int64 {
	if b.Won {
		return b.BalanceDelta - b.Stake
	}
	return b.BalanceDelta
}
