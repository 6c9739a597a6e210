package pricing

import (
	"fmt"
	"math"

	"dotabet/domain/entities"
)

// quoteDenominator is the fixed scale fractional odds are quoted at before
// reduction.
const quoteDenominator = 10

// NewQuote converts a win probability into reduced fractional odds.
// Raw odds are (1/p) - 1, scaled to the fixed denominator, rounded, and
// reduced by the greatest common divisor.
func NewQuote(p float64) (entities.OddsQuote, error) {
	if p <= 0 || p >= 1 {
		return entities.OddsQuote{}, fmt.Errorf("probability %v outside (0,1)", p)
	}

	odds := 1/p - 1
	numerator := int64(math.Round(odds * quoteDenominator))
	denominator := int64(quoteDenominator)

	if d := gcd(numerator, denominator); d > 1 {
		numerator /= d
		denominator /= d
	}

	return entities.OddsQuote{
		Probability: p,
		Numerator:   numerator,
		Denominator: denominator,
	}, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// TransformProbability converts the estimator's P(radiant win) into the
// probability that the bet as placed wins, from the subject's side and the
// predicted direction.
func TransformProbability(pRadiantWin float64, side entities.Side, direction entities.Direction) float64 {
	switch {
	case side == entities.SideRadiant && direction == entities.DirectionWin:
		return pRadiantWin
	case side == entities.SideRadiant && direction == entities.DirectionLose:
		return 1 - pRadiantWin
	case side == entities.SideDire && direction == entities.DirectionWin:
		return 1 - pRadiantWin
	default: // dire, lose
		return pRadiantWin
	}
}

// BetWon determines whether a bet won from the match result, the subject's
// side and the predicted direction.
func BetWon(radiantWin bool, side entities.Side, direction entities.Direction) bool {
	switch {
	case radiantWin && side == entities.SideRadiant && direction == entities.DirectionWin:
		return true
	case !radiantWin && side == entities.SideDire && direction == entities.DirectionWin:
		return true
	case !radiantWin && side == entities.SideRadiant && direction == entities.DirectionLose:
		return true
	case radiantWin && side == entities.SideDire && direction == entities.DirectionLose:
		return true
	}
	return false
}
