package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dotabet/domain/entities"
	"dotabet/domain/testhelpers"
)

// captureSink records every outcome it receives.
type captureSink struct {
	mu       sync.Mutex
	outcomes []entities.Outcome
}

func (s *captureSink) Enqueue(_ context.Context, outcome entities.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

func (s *captureSink) all() []entities.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Outcome(nil), s.outcomes...)
}

type pipelineFixture struct {
	settler *testhelpers.MockSettler
	source  *testhelpers.MockMatchSource
	pricer  *testhelpers.MockPricer
	sink    *captureSink
	p       *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		settler: new(testhelpers.MockSettler),
		source:  new(testhelpers.MockMatchSource),
		pricer:  new(testhelpers.MockPricer),
		sink:    &captureSink{},
	}
	f.p = New(f.settler, f.source, f.pricer, f.sink)
	return f
}

func newRequest() *entities.BetRequest {
	return &entities.BetRequest{
		BetID:       uuid.New(),
		DiscordID:   100,
		ChannelID:   200,
		SubjectKind: entities.SubjectPlayer,
		SubjectRef:  42,
		Direction:   entities.DirectionWin,
		Stake:       1000,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestPipelineWinPath(t *testing.T) {
	f := newPipelineFixture()
	req := newRequest()
	record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}
	snapshot := &entities.MatchSnapshot{MatchID: 7001}
	priced := &entities.PricedBet{
		MatchID: 7001,
		Quote:   entities.OddsQuote{Probability: 0.5, Numerator: 1, Denominator: 1},
		Won:     true,
		Payout:  2000,
	}

	f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
	f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).Return(int64(7001), nil)
	f.source.On("EnsureParsedAndFetch", mock.Anything, int64(7001)).Return(snapshot, nil)
	f.pricer.On("Price", mock.Anything, snapshot, req).Return(priced, nil)
	f.settler.On("Settle", mock.Anything, record, priced).
		Return(&entities.CompletedBet{BetID: req.BetID, Won: true, NewBalance: 6000}, nil)

	f.p.Run(context.Background(), req)

	outcomes := f.sink.all()
	require.Len(t, outcomes, 1)
	assert.Equal(t, entities.OutcomeWon, outcomes[0].Kind)
	assert.Equal(t, int64(7001), outcomes[0].MatchID)
	assert.Equal(t, int64(2000), outcomes[0].Payout)
	assert.Equal(t, int64(6000), outcomes[0].NewBalance)
	assert.Equal(t, "1/1", outcomes[0].Odds.String())
	f.settler.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestPipelineLossPath(t *testing.T) {
	f := newPipelineFixture()
	req := newRequest()
	record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}
	snapshot := &entities.MatchSnapshot{MatchID: 7001}
	priced := &entities.PricedBet{MatchID: 7001, Won: false}

	f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
	f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).Return(int64(7001), nil)
	f.source.On("EnsureParsedAndFetch", mock.Anything, int64(7001)).Return(snapshot, nil)
	f.pricer.On("Price", mock.Anything, snapshot, req).Return(priced, nil)
	f.settler.On("Settle", mock.Anything, record, priced).
		Return(&entities.CompletedBet{BetID: req.BetID, Won: false, NewBalance: 4000}, nil)

	f.p.Run(context.Background(), req)

	outcomes := f.sink.all()
	require.Len(t, outcomes, 1)
	assert.Equal(t, entities.OutcomeLost, outcomes[0].Kind)
	assert.Equal(t, int64(0), outcomes[0].Payout)
}

func TestPipelineRejects(t *testing.T) {
	t.Run("invalid request never reaches the ledger", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		req.Stake = 0

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRejected, outcomes[0].Kind)
		assert.Equal(t, entities.FailureSyntax, outcomes[0].Code)
		f.settler.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("duplicate bet id", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()

		f.settler.On("Reserve", mock.Anything, req).Return(nil, entities.ErrDuplicateBet)

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRejected, outcomes[0].Kind)
		assert.Equal(t, entities.FailureDuplicate, outcomes[0].Code)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()

		f.settler.On("Reserve", mock.Anything, req).
			Return(nil, &entities.InsufficientBalanceError{Current: 100, Requested: 1000})

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRejected, outcomes[0].Kind)
		assert.Equal(t, entities.FailureBalance, outcomes[0].Code)
	})
}

func TestPipelineRefunds(t *testing.T) {
	t.Run("match wait timeout refunds the stake", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}

		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).
			Return(int64(0), entities.NewRefund(entities.FailureServiceTimeout, "no new match", nil))
		f.settler.On("Refund", mock.Anything, record).Return(int64(5000), nil)

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRefunded, outcomes[0].Kind)
		assert.Equal(t, entities.FailureServiceTimeout, outcomes[0].Code)
		assert.Equal(t, int64(5000), outcomes[0].NewBalance)
	})

	t.Run("ineligible match refunds with its code", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}
		snapshot := &entities.MatchSnapshot{MatchID: 7001}

		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).Return(int64(7001), nil)
		f.source.On("EnsureParsedAndFetch", mock.Anything, int64(7001)).Return(snapshot, nil)
		f.pricer.On("Price", mock.Anything, snapshot, req).
			Return(nil, entities.NewRefund(entities.FailureLobbyType, "lobby type 4 not allowed", nil))
		f.settler.On("Refund", mock.Anything, record).Return(int64(5000), nil)

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRefunded, outcomes[0].Kind)
		assert.Equal(t, entities.FailureLobbyType, outcomes[0].Code)
		f.settler.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unclassified error is refunded conservatively", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}

		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).
			Return(int64(0), errors.New("boom"))
		f.settler.On("Refund", mock.Anything, record).Return(int64(5000), nil)

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeRefunded, outcomes[0].Kind)
		assert.Equal(t, entities.FailureUnknown, outcomes[0].Code)
	})

	t.Run("failed refund escalates", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}

		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).
			Return(int64(0), entities.NewRefund(entities.FailureServiceTimeout, "no new match", nil))
		f.settler.On("Refund", mock.Anything, record).Return(int64(0), errors.New("db down"))

		f.p.Run(context.Background(), req)

		outcomes := f.sink.all()
		require.Len(t, outcomes, 1)
		assert.Equal(t, entities.OutcomeFailed, outcomes[0].Kind)
	})
}

func TestPipelineShutdown(t *testing.T) {
	t.Run("cancellation leaves the record for recovery", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}

		ctx, cancel := context.WithCancel(context.Background())
		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).
			Run(func(mock.Arguments) { cancel() }).
			Return(int64(0), entities.NewRefund(entities.FailureServiceTimeout, "canceled", context.Canceled))

		f.p.Run(ctx, req)

		assert.Empty(t, f.sink.all())
		f.settler.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	})

	t.Run("record settled elsewhere emits no second outcome", func(t *testing.T) {
		f := newPipelineFixture()
		req := newRequest()
		record := &entities.InPlayRecord{BetRequest: *req, DebitedAt: time.Now()}
		snapshot := &entities.MatchSnapshot{MatchID: 7001}
		priced := &entities.PricedBet{MatchID: 7001, Won: true, Payout: 2000}

		f.settler.On("Reserve", mock.Anything, req).Return(record, nil)
		f.source.On("WaitForNewMatch", mock.Anything, req.SubjectKind, req.SubjectRef).Return(int64(7001), nil)
		f.source.On("EnsureParsedAndFetch", mock.Anything, int64(7001)).Return(snapshot, nil)
		f.pricer.On("Price", mock.Anything, snapshot, req).Return(priced, nil)
		f.settler.On("Settle", mock.Anything, record, priced).Return(nil, entities.ErrDuplicateBet)

		f.p.Run(context.Background(), req)

		assert.Empty(t, f.sink.all())
	})
}
