package pricing

import (
	"context"
	"fmt"
	"math"

	"dotabet/domain/entities"
)

// AdvantageEstimator is the built-in win-probability estimator: a logistic
// curve over the radiant gold and experience advantage at the priced
// minute. It stands in for the externally trained classifier, which plugs
// in through the same interface.
type AdvantageEstimator struct {
	goldScale float64
	xpScale   float64
}

// NewAdvantageEstimator creates an estimator with the default scales.
func NewAdvantageEstimator() *AdvantageEstimator {
	return &AdvantageEstimator{
		goldScale: 5000,
		xpScale:   7500,
	}
}

// Estimate returns the probability that radiant wins, evaluated from the
// per-minute advantage series at the given minute.
func (e *AdvantageEstimator) Estimate(_ context.Context, snapshot *entities.MatchSnapshot, minute int) (float64, error) {
	if snapshot.Minutes() == 0 {
		return 0, fmt.Errorf("match %d has no per-minute statistics", snapshot.MatchID)
	}
	if minute < 0 || minute >= snapshot.Minutes() {
		return 0, fmt.Errorf("minute %d out of range for match %d", minute, snapshot.MatchID)
	}

	gold := float64(snapshot.RadiantGoldAdv[minute])
	var xp float64
	if minute < len(snapshot.RadiantXPAdv) {
		xp = float64(snapshot.RadiantXPAdv[minute])
	}

	z := gold/e.goldScale + xp/e.xpScale
	p := 1 / (1 + math.Exp(-z))

	// Keep the estimate inside the quotable range.
	if p < minProbability {
		p = minProbability
	}
	if p > 1-minProbability {
		p = 1 - minProbability
	}
	return p, nil
}
