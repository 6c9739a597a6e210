package entities

import "fmt"

// OddsQuote is a simplified fractional representation of implied odds.
// Payout math is integer-only; floating point never feeds the ledger.
type OddsQuote struct {
	Probability float64 // probability the bet as placed wins, in (0,1)
	Numerator   int64
	Denominator int64
}

// Payout returns stake plus profit for a winning bet, in minor units.
// Profit is floored to whole minor units.
func (q OddsQuote) Payout(stake int64) int64 {
	return stake + stake*q.Numerator/q.Denominator
}

func (q OddsQuote) String() string {
	return fmt.Sprintf("%d/%d", q.Numerator, q.Denominator)
}
