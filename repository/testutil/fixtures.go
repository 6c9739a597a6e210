package testutil

import (
	"time"

	"github.com/google/uuid"

	"dotabet/domain/entities"
)

// CreateTestUser returns a user fixture with the default starting balance.
func CreateTestUser(discordID int64, username string) *entities.User {
	return &entities.User{
		DiscordID: discordID,
		Username:  username,
		Balance:   5000,
	}
}

// CreateTestInPlayRecord returns an in-play record fixture for the given
// user. Timestamps are truncated to microseconds to survive a postgres
// round trip unchanged.
func CreateTestInPlayRecord(discordID int64) *entities.InPlayRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.InPlayRecord{
		BetRequest: entities.BetRequest{
			BetID:       uuid.New(),
			DiscordID:   discordID,
			ChannelID:   555,
			SubjectKind: entities.SubjectPlayer,
			SubjectRef:  42,
			Direction:   entities.DirectionWin,
			Stake:       1000,
			SubmittedAt: now,
		},
		DebitedAt: now,
	}
}

// CreateTestCompletedBet returns a settled bet fixture for the given user.
func CreateTestCompletedBet(discordID int64) *entities.CompletedBet {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.CompletedBet{
		BetID:       uuid.New(),
		DiscordID:   discordID,
		ChannelID:   555,
		MatchID:     7001,
		SubjectKind: entities.SubjectPlayer,
		SubjectRef:  42,
		Direction:   entities.DirectionWin,
		Stake:       1000,
		Odds: entities.OddsQuote{
			Probability: 0.5,
			Numerator:   1,
			Denominator: 1,
		},
		Won:          true,
		BalanceDelta: 2000,
		NewBalance:   6000,
		SubmittedAt:  now,
		SettledAt:    now,
	}
}
