package infrastructure

import (
	"context"

	"dotabet/domain/entities"
)

// ChannelOutcomeSink hands outcomes to an in-process consumer over a
// buffered channel. The Discord front-end drains it to post results back
// into the channel the bet came from.
type ChannelOutcomeSink struct {
	ch chan entities.Outcome
}

// NewChannelOutcomeSink creates a sink with the given buffer size.
func NewChannelOutcomeSink(buffer int) *ChannelOutcomeSink {
	return &ChannelOutcomeSink{ch: make(chan entities.Outcome, buffer)}
}

// Enqueue delivers the outcome, blocking until the consumer has room or the
// context is canceled.
func (s *ChannelOutcomeSink) Enqueue(ctx context.Context, outcome entities.Outcome) error {
	select {
	case s.ch <- outcome:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcomes returns the consumer side of the sink.
func (s *ChannelOutcomeSink) Outcomes() <-chan entities.Outcome {
	return s.ch
}
