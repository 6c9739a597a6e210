package entities

import "time"

// InPlayRecord is the durable write-ahead record of a bet whose stake has
// been debited but not yet settled. It exists exactly for the lifetime of
// that window: created atomically with the ledger debit, deleted atomically
// with either a refund credit or a CompletedBet append.
type InPlayRecord struct {
	BetRequest
	DebitedAt time.Time `db:"debited_at"`
}
