package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotabet/domain/entities"
)

func TestNewQuote(t *testing.T) {
	tests := []struct {
		p           float64
		numerator   int64
		denominator int64
	}{
		{0.5, 1, 1},       // even odds
		{0.55, 4, 5},      // 8/10 reduced
		{2.0 / 3.0, 1, 2}, // 5/10 reduced
		{0.25, 3, 1},      // 30/10 reduced
		{0.1, 9, 1},
		{0.8, 3, 10}, // 2.5/10, rounded half away from zero
		{0.2, 4, 1},
		{0.99, 0, 1}, // overwhelming favorite quotes zero profit
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("p=%v", tt.p), func(t *testing.T) {
			quote, err := NewQuote(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.numerator, quote.Numerator)
			assert.Equal(t, tt.denominator, quote.Denominator)
			assert.Equal(t, tt.p, quote.Probability)
		})
	}

	t.Run("out of range probabilities", func(t *testing.T) {
		for _, p := range []float64{0, 1, -0.5, 1.5} {
			_, err := NewQuote(p)
			assert.Error(t, err, "p=%v", p)
		}
	})
}

func TestQuotePayout(t *testing.T) {
	tests := []struct {
		name   string
		quote  entities.OddsQuote
		stake  int64
		payout int64
	}{
		{"even odds double the stake", entities.OddsQuote{Numerator: 1, Denominator: 1}, 1000, 2000},
		{"four fifths", entities.OddsQuote{Numerator: 4, Denominator: 5}, 1000, 1800},
		{"one half", entities.OddsQuote{Numerator: 1, Denominator: 2}, 1000, 1500},
		{"profit floors toward the house", entities.OddsQuote{Numerator: 1, Denominator: 2}, 333, 499},
		{"zero numerator returns the stake", entities.OddsQuote{Numerator: 0, Denominator: 1}, 1000, 1000},
		{"long odds", entities.OddsQuote{Numerator: 9, Denominator: 1}, 500, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payout, tt.quote.Payout(tt.stake))
		})
	}
}

func TestTransformProbability(t *testing.T) {
	const p = 0.7

	tests := []struct {
		side      entities.Side
		direction entities.Direction
		want      float64
	}{
		{entities.SideRadiant, entities.DirectionWin, p},
		{entities.SideRadiant, entities.DirectionLose, 1 - p},
		{entities.SideDire, entities.DirectionWin, 1 - p},
		{entities.SideDire, entities.DirectionLose, p},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.side, tt.direction), func(t *testing.T) {
			assert.InDelta(t, tt.want, TransformProbability(p, tt.side, tt.direction), 1e-12)
		})
	}
}

func TestBetWon(t *testing.T) {
	tests := []struct {
		radiantWin bool
		side       entities.Side
		direction  entities.Direction
		won        bool
	}{
		{true, entities.SideRadiant, entities.DirectionWin, true},
		{true, entities.SideRadiant, entities.DirectionLose, false},
		{true, entities.SideDire, entities.DirectionWin, false},
		{true, entities.SideDire, entities.DirectionLose, true},
		{false, entities.SideRadiant, entities.DirectionWin, false},
		{false, entities.SideRadiant, entities.DirectionLose, true},
		{false, entities.SideDire, entities.DirectionWin, true},
		{false, entities.SideDire, entities.DirectionLose, false},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("radiantWin=%v_%s_%s", tt.radiantWin, tt.side, tt.direction)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.won, BetWon(tt.radiantWin, tt.side, tt.direction))
		})
	}
}
