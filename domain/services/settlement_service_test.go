package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dotabet/domain/entities"
	"dotabet/domain/testhelpers"
)

func newTestRequest() *entities.BetRequest {
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

func newSettlerFixture() (*SettlementService, *testhelpers.MockUnitOfWork) {
	uow := testhelpers.NewMockUnitOfWork()
	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return NewSettlementService(factory), uow
}

func TestSettlementServiceReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("debits stake and writes record in one transaction", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		req := newTestRequest()

		uow.ExpectTransaction()
		uow.Completed.On("Exists", ctx, req.BetID).Return(false, nil)
		uow.InPlay.On("Put", ctx, mock.MatchedBy(func(r *entities.InPlayRecord) bool {
			return r.BetID == req.BetID && !r.DebitedAt.IsZero()
		})).Return(nil)
		uow.Users.On("AdjustBalance", ctx, req.DiscordID, -req.Stake).Return(int64(4000), nil)

		record, err := svc.Reserve(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, req.BetID, record.BetID)
		assert.Equal(t, req.Stake, record.Stake)

		uow.AssertExpectations(t)
		uow.Users.AssertExpectations(t)
		uow.InPlay.AssertExpectations(t)
	})

	t.Run("already settled bet id is a duplicate", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		req := newTestRequest()

		uow.ExpectRollback()
		uow.Completed.On("Exists", ctx, req.BetID).Return(true, nil)

		_, err := svc.Reserve(ctx, req)
		assert.ErrorIs(t, err, entities.ErrDuplicateBet)
		uow.Users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("in-play collision is a duplicate and moves no funds", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		req := newTestRequest()

		uow.ExpectRollback()
		uow.Completed.On("Exists", ctx, req.BetID).Return(false, nil)
		uow.InPlay.On("Put", ctx, mock.Anything).Return(entities.ErrDuplicateBet)

		_, err := svc.Reserve(ctx, req)
		assert.ErrorIs(t, err, entities.ErrDuplicateBet)
		uow.Users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed balance guard surfaces as a reject", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		req := newTestRequest()

		uow.ExpectRollback()
		uow.Completed.On("Exists", ctx, req.BetID).Return(false, nil)
		uow.InPlay.On("Put", ctx, mock.Anything).Return(nil)
		uow.Users.On("AdjustBalance", ctx, req.DiscordID, -req.Stake).
			Return(int64(0), &entities.InsufficientBalanceError{Current: 500, Requested: 1000})

		_, err := svc.Reserve(ctx, req)
		require.Error(t, err)

		failure := entities.AsBetFailure(err)
		assert.Equal(t, entities.FailureClassReject, failure.Class)
		assert.Equal(t, entities.FailureBalance, failure.Code)
		uow.AssertNotCalled(t, "Commit")
	})
}

func TestSettlementServiceRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("credits stake back and deletes record", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		record := &entities.InPlayRecord{BetRequest: *newTestRequest(), DebitedAt: time.Now()}

		uow.ExpectTransaction()
		uow.InPlay.On("Delete", ctx, record.BetID).Return(true, nil)
		uow.Users.On("AdjustBalance", ctx, record.DiscordID, record.Stake).Return(int64(5000), nil)

		balance, err := svc.Refund(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), balance)
	})

	t.Run("missing record is a no-op", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		record := &entities.InPlayRecord{BetRequest: *newTestRequest(), DebitedAt: time.Now()}

		uow.ExpectTransaction()
		uow.InPlay.On("Delete", ctx, record.BetID).Return(false, nil)
		uow.Users.On("GetByDiscordID", ctx, record.DiscordID).
			Return(&entities.User{DiscordID: record.DiscordID, Balance: 4000}, nil)

		balance, err := svc.Refund(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), balance)
		uow.Users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSettlementServiceSettle(t *testing.T) {
	ctx := context.Background()

	t.Run("win credits the payout and logs the settlement", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		record := &entities.InPlayRecord{BetRequest: *newTestRequest(), DebitedAt: time.Now()}
		priced := &entities.PricedBet{
			MatchID: 7001,
			Side:    entities.SideRadiant,
			Quote:   entities.OddsQuote{Probability: 0.5, Numerator: 1, Denominator: 1},
			Won:     true,
			Payout:  2000,
		}

		uow.ExpectTransaction()
		uow.InPlay.On("Delete", ctx, record.BetID).Return(true, nil)
		uow.Users.On("AdjustBalance", ctx, record.DiscordID, priced.Payout).Return(int64(6000), nil)
		uow.Completed.On("Create", ctx, mock.MatchedBy(func(b *entities.CompletedBet) bool {
			return b.BetID == record.BetID && b.Won &&
				b.BalanceDelta == 2000 && b.NewBalance == 6000 && b.MatchID == 7001
		})).Return(nil)

		completed, err := svc.Settle(ctx, record, priced)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), completed.NetProfit())
		uow.Completed.AssertExpectations(t)
	})

	t.Run("loss moves no funds", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		record := &entities.InPlayRecord{BetRequest: *newTestRequest(), DebitedAt: time.Now()}
		priced := &entities.PricedBet{MatchID: 7001, Won: false}

		uow.ExpectTransaction()
		uow.InPlay.On("Delete", ctx, record.BetID).Return(true, nil)
		uow.Users.On("GetByDiscordID", ctx, record.DiscordID).
			Return(&entities.User{DiscordID: record.DiscordID, Balance: 4000}, nil)
		uow.Completed.On("Create", ctx, mock.MatchedBy(func(b *entities.CompletedBet) bool {
			return !b.Won && b.BalanceDelta == -record.Stake && b.NewBalance == 4000
		})).Return(nil)

		completed, err := svc.Settle(ctx, record, priced)
		require.NoError(t, err)
		assert.Equal(t, -record.Stake, completed.NetProfit())
		uow.Users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record already gone is a duplicate settlement", func(t *testing.T) {
		svc, uow := newSettlerFixture()
		record := &entities.InPlayRecord{BetRequest: *newTestRequest(), DebitedAt: time.Now()}

		uow.ExpectRollback()
		uow.InPlay.On("Delete", ctx, record.BetID).Return(false, nil)

		_, err := svc.Settle(ctx, record, &entities.PricedBet{Won: true, Payout: 100})
		assert.ErrorIs(t, err, entities.ErrDuplicateBet)
		uow.Users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})
}
