package entities

import "github.com/google/uuid"

// OutcomeKind classifies the terminal result of a bet pipeline run.
type OutcomeKind string

const (
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeRefunded OutcomeKind = "refunded"
	OutcomeWon      OutcomeKind = "won"
	OutcomeLost     OutcomeKind = "lost"

	// OutcomeFailed means settlement AND the compensating refund both
	// failed; the stake is stranded and an operator must intervene.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the message delivered to the outcome sink once per BetID.
// The front-end renders it; the pipeline only produces it.
type Outcome struct {
	BetID      uuid.UUID   `json:"bet_id"`
	DiscordID  int64       `json:"discord_id"`
	ChannelID  int64       `json:"channel_id"`
	Kind       OutcomeKind `json:"kind"`
	Code       FailureCode `json:"code,omitempty"`   // set for rejected/refunded
	Detail     string      `json:"detail,omitempty"` // human-readable failure detail
	MatchID    int64       `json:"match_id,omitempty"`
	Stake      int64       `json:"stake"`
	Odds       *OddsQuote  `json:"odds,omitempty"`
	Payout     int64       `json:"payout,omitempty"`
	NewBalance int64       `json:"new_balance,omitempty"`
}
