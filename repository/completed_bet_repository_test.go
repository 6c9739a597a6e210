package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotabet/repository/testutil"
)

func TestCompletedBetRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewCompletedBetRepository(testDB.DB)
	ctx := context.Background()

	_, err := users.Create(ctx, 100, "alice", 5000)
	require.NoError(t, err)

	t.Run("create and read back", func(t *testing.T) {
		bet := testutil.CreateTestCompletedBet(100)
		require.NoError(t, repo.Create(ctx, bet))

		bets, err := repo.GetByUser(ctx, 100, 10)
		require.NoError(t, err)
		require.Len(t, bets, 1)

		got := bets[0]
		assert.Equal(t, bet.BetID, got.BetID)
		assert.Equal(t, bet.MatchID, got.MatchID)
		assert.Equal(t, bet.Odds, got.Odds)
		assert.Equal(t, bet.Won, got.Won)
		assert.Equal(t, bet.BalanceDelta, got.BalanceDelta)
		assert.Equal(t, bet.NewBalance, got.NewBalance)
	})

	t.Run("exists", func(t *testing.T) {
		bet := testutil.CreateTestCompletedBet(100)
		require.NoError(t, repo.Create(ctx, bet))

		exists, err := repo.Exists(ctx, bet.BetID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("returns newest first with a limit", func(t *testing.T) {
		testDB := testutil.SetupTestDatabase(t)
		users := NewUserRepository(testDB.DB)
		repo := NewCompletedBetRepository(testDB.DB)

		_, err := users.Create(ctx, 200, "bob", 5000)
		require.NoError(t, err)

		base := time.Now().UTC().Truncate(time.Microsecond)
		var newest uuid.UUID
		for i := 0; i < 3; i++ {
			bet := testutil.CreateTestCompletedBet(200)
			bet.SettledAt = base.Add(time.Duration(i) * time.Minute)
			newest = bet.BetID
			require.NoError(t, repo.Create(ctx, bet))
		}

		bets, err := repo.GetByUser(ctx, 200, 2)
		require.NoError(t, err)
		require.Len(t, bets, 2)
		assert.Equal(t, newest, bets[0].BetID)
	})
}
