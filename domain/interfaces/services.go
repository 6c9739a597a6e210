package interfaces

import (
	"context"

	"dotabet/domain/entities"
)

// UnitOfWork bundles the repositories behind one database transaction.
// Begin must be called before any repository access; Commit or Rollback
// ends the transaction. Rollback after Commit is a no-op.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	InPlayRepository() InPlayRepository
	CompletedBetRepository() CompletedBetRepository
}

// UnitOfWorkFactory creates units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Settler owns the funds side of the bet state machine. Each method is one
// atomic step against the ledger and registry.
type Settler interface {
	// Reserve debits the stake and writes the in-play record in a single
	// transaction. Replayed BetIDs return entities.ErrDuplicateBet; a failed
	// balance guard returns *entities.InsufficientBalanceError. Either way
	// no funds move.
	Reserve(ctx context.Context, req *entities.BetRequest) (*entities.InPlayRecord, error)

	// Refund credits the stake back and deletes the in-play record in a
	// single transaction, returning the balance after the credit. Refunding
	// a missing record is a no-op.
	Refund(ctx context.Context, record *entities.InPlayRecord) (int64, error)

	// Settle finalizes a priced bet: credits the payout on a win, deletes
	// the in-play record and appends the CompletedBet, all in a single
	// transaction.
	Settle(ctx context.Context, record *entities.InPlayRecord, priced *entities.PricedBet) (*entities.CompletedBet, error)
}

// MatchSource is the polling façade over the external match tracker.
// Both calls respect the configured wall-clock deadlines and classify
// expiry as a refundable service timeout.
type MatchSource interface {
	// WaitForNewMatch blocks until the subject's most recent match id
	// differs from the one observed at call start, then returns it.
	WaitForNewMatch(ctx context.Context, kind entities.SubjectKind, subjectRef int64) (int64, error)

	// EnsureParsedAndFetch ensures the match has detailed statistics,
	// requesting processing from the tracker when needed, and returns the
	// populated snapshot.
	EnsureParsedAndFetch(ctx context.Context, matchID int64) (*entities.MatchSnapshot, error)
}

// Pricer turns a match snapshot and a bet into a quote and an outcome.
type Pricer interface {
	Price(ctx context.Context, snapshot *entities.MatchSnapshot, req *entities.BetRequest) (*entities.PricedBet, error)
}

// Estimator is the opaque win-probability capability. It returns the
// probability that radiant wins, evaluated at the given minute of the match.
type Estimator interface {
	Estimate(ctx context.Context, snapshot *entities.MatchSnapshot, minute int) (float64, error)
}

// OutcomeSink receives exactly one Outcome per BetID for delivery to the
// front-end.
type OutcomeSink interface {
	Enqueue(ctx context.Context, outcome entities.Outcome) error
}
