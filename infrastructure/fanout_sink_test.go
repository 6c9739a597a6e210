package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dotabet/domain/entities"
	"dotabet/domain/testhelpers"
)

func TestFanoutOutcomeSink(t *testing.T) {
	ctx := context.Background()
	outcome := entities.Outcome{BetID: uuid.New(), Kind: entities.OutcomeWon}

	t.Run("delivers to primary and mirrors", func(t *testing.T) {
		primary := new(testhelpers.MockOutcomeSink)
		mirror := new(testhelpers.MockOutcomeSink)
		primary.On("Enqueue", ctx, outcome).Return(nil)
		mirror.On("Enqueue", ctx, outcome).Return(nil)

		sink := NewFanoutOutcomeSink(primary, mirror)
		require.NoError(t, sink.Enqueue(ctx, outcome))
		primary.AssertExpectations(t)
		mirror.AssertExpectations(t)
	})

	t.Run("mirror failure does not fail the enqueue", func(t *testing.T) {
		primary := new(testhelpers.MockOutcomeSink)
		mirror := new(testhelpers.MockOutcomeSink)
		primary.On("Enqueue", ctx, outcome).Return(nil)
		mirror.On("Enqueue", ctx, outcome).Return(errors.New("bus down"))

		sink := NewFanoutOutcomeSink(primary, mirror)
		assert.NoError(t, sink.Enqueue(ctx, outcome))
	})

	t.Run("primary failure fails the enqueue and skips mirrors", func(t *testing.T) {
		primary := new(testhelpers.MockOutcomeSink)
		mirror := new(testhelpers.MockOutcomeSink)
		primary.On("Enqueue", ctx, outcome).Return(errors.New("consumer gone"))

		sink := NewFanoutOutcomeSink(primary, mirror)
		assert.Error(t, sink.Enqueue(ctx, outcome))
		mirror.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})
}

func TestChannelOutcomeSink(t *testing.T) {
	outcome := entities.Outcome{BetID: uuid.New(), Kind: entities.OutcomeRefunded}

	t.Run("delivers to the consumer", func(t *testing.T) {
		sink := NewChannelOutcomeSink(1)
		require.NoError(t, sink.Enqueue(context.Background(), outcome))
		assert.Equal(t, outcome, <-sink.Outcomes())
	})

	t.Run("cancellation unblocks a full sink", func(t *testing.T) {
		sink := NewChannelOutcomeSink(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sink.Enqueue(ctx, outcome), context.Canceled)
	})
}
