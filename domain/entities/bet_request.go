package entities

import (
	"time"

	"github.com/google/uuid"
)

// Direction is the side of the outcome a bet is placed on.
type Direction string

const (
	DirectionWin  Direction = "win"
	DirectionLose Direction = "lose"
)

// IsValid reports whether the direction is one of the recognized values.
func (d Direction) IsValid() bool {
	return d == DirectionWin || d == DirectionLose
}

// SubjectKind distinguishes what kind of identity a bet subject refers to.
type SubjectKind string

const (
	SubjectPlayer SubjectKind = "player"
	SubjectTeam   SubjectKind = "team"
)

// BetRequest is an accepted wager waiting for settlement. It is immutable
// once created; the settlement pipeline never mutates it.
type BetRequest struct {
	BetID       uuid.UUID   `db:"bet_id"`
	DiscordID   int64       `db:"discord_id"`
	ChannelID   int64       `db:"channel_id"`
	SubjectKind SubjectKind `db:"subject_kind"`
	SubjectRef  int64       `db:"subject_ref"` // steam account id or team id
	Direction   Direction   `db:"direction"`
	Stake       int64       `db:"stake"` // minor units, > 0
	SubmittedAt time.Time   `db:"submitted_at"`
}

// Validate performs the pre-debit checks of the bet state machine.
func (r *BetRequest) Validate() error {
	if r.Stake <= 0 {
		return NewReject(FailureSyntax, "stake must be positive")
	}
	if !r.Direction.IsValid() {
		return NewReject(FailureSyntax, "direction must be win or lose")
	}
	if r.SubjectKind != SubjectPlayer && r.SubjectKind != SubjectTeam {
		return NewReject(FailureSyntax, "unknown subject kind")
	}
	if r.SubjectRef == 0 {
		return NewReject(FailureConfig, "subject does not resolve to a tracked identity")
	}
	return nil
}
