package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotabet/domain/entities"
	"dotabet/domain/services"
	"dotabet/repository/testutil"
)

// These tests drive the settlement service against a real database to prove
// the money invariants hold end to end: a stake is debited exactly once,
// refunded or paid out exactly once, and the registry entry lives exactly
// as long as the debited-but-unsettled window.
func TestSettlementFlow(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	inPlay := NewInPlayRepository(testDB.DB)
	completed := NewCompletedBetRepository(testDB.DB)
	settler := services.NewSettlementService(NewUnitOfWorkFactory(testDB.DB))

	newRequest := func(discordID, stake int64) *entities.BetRequest {
		return &entities.BetRequest{
			BetID:       uuid.New(),
			DiscordID:   discordID,
			ChannelID:   555,
			SubjectKind: entities.SubjectPlayer,
			SubjectRef:  42,
			Direction:   entities.DirectionWin,
			Stake:       stake,
			SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("reserve then settle a win", func(t *testing.T) {
		_, err := users.Create(ctx, 100, "alice", 5000)
		require.NoError(t, err)

		record, err := settler.Reserve(ctx, newRequest(100, 1000))
		require.NoError(t, err)

		user, err := users.GetByDiscordID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), user.Balance)

		priced := &entities.PricedBet{
			MatchID: 7001,
			Quote:   entities.OddsQuote{Probability: 0.5, Numerator: 1, Denominator: 1},
			Won:     true,
			Payout:  2000,
		}
		bet, err := settler.Settle(ctx, record, priced)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), bet.NewBalance)

		// Registry entry is gone, settlement log has the bet.
		records, err := inPlay.ScanAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		exists, err := completed.Exists(ctx, record.BetID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("reserve then refund restores the balance", func(t *testing.T) {
		_, err := users.Create(ctx, 200, "bob", 5000)
		require.NoError(t, err)

		record, err := settler.Reserve(ctx, newRequest(200, 1500))
		require.NoError(t, err)

		balance, err := settler.Refund(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), balance)

		// A second refund of the same record moves nothing.
		balance, err = settler.Refund(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), balance)
	})

	t.Run("insufficient balance reserves nothing", func(t *testing.T) {
		_, err := users.Create(ctx, 300, "carol", 500)
		require.NoError(t, err)

		_, err = settler.Reserve(ctx, newRequest(300, 1000))
		require.Error(t, err)

		var insufficient *entities.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)

		// The in-play write in the same transaction was rolled back.
		records, err := inPlay.ScanAll(ctx)
		require.NoError(t, err)
		for _, rec := range records {
			assert.NotEqual(t, int64(300), rec.DiscordID)
		}
	})

	t.Run("replaying a settled bet id is rejected", func(t *testing.T) {
		_, err := users.Create(ctx, 400, "dave", 5000)
		require.NoError(t, err)

		req := newRequest(400, 1000)
		record, err := settler.Reserve(ctx, req)
		require.NoError(t, err)

		_, err = settler.Settle(ctx, record, &entities.PricedBet{MatchID: 7002, Won: false})
		require.NoError(t, err)

		_, err = settler.Reserve(ctx, req)
		assert.ErrorIs(t, err, entities.ErrDuplicateBet)

		user, err := users.GetByDiscordID(ctx, 400)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), user.Balance)
	})

	t.Run("concurrent reservation of the same bet id admits one", func(t *testing.T) {
		_, err := users.Create(ctx, 500, "eve", 5000)
		require.NoError(t, err)

		req := newRequest(500, 1000)
		_, err = settler.Reserve(ctx, req)
		require.NoError(t, err)

		_, err = settler.Reserve(ctx, req)
		assert.ErrorIs(t, err, entities.ErrDuplicateBet)

		user, err := users.GetByDiscordID(ctx, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), user.Balance, "stake debited exactly once")
	})
}
