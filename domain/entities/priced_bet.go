package entities

// PricedBet is the result of pricing a bet against a finished match: the
// quote, whether the bet as placed won, and the payout due on a win.
// Ephemeral; scoped to one pipeline execution.
type PricedBet struct {
	MatchID int64
	Side    Side // side the subject played on
	Minute  int  // minute index the bet was priced at
	Quote   OddsQuote
	Won     bool
	Payout  int64 // payout in minor units when Won, 0 otherwise
}
