package pricing

import (
	"fmt"
	"time"

	"dotabet/domain/entities"
)

// earlyBetGrace is how long before the match start a bet may be placed.
const earlyBetGrace = 5 * time.Minute

// allowedLobbyTypes are the lobby types bets may settle against
// (normal, practice, tournament, team match, solo queue, ranked).
var allowedLobbyTypes = map[int]bool{
	0: true,
	1: true,
	2: true,
	5: true,
	6: true,
	7: true,
}

// checkEligibility validates the match against the bet's business rules and
// returns the minute index the bet should be priced at. Both failures are
// post-debit and therefore refundable.
func checkEligibility(snapshot *entities.MatchSnapshot, submittedAt time.Time) (int, error) {
	if !allowedLobbyTypes[snapshot.LobbyType] {
		return 0, entities.NewRefund(entities.FailureLobbyType,
			fmt.Sprintf("lobby type %d is not eligible for betting", snapshot.LobbyType), nil)
	}

	betUnix := submittedAt.Unix()
	windowStart := snapshot.StartTime - int64(earlyBetGrace/time.Second)
	if betUnix < windowStart || betUnix >= snapshot.EndTime() {
		return 0, entities.NewRefund(entities.FailureBetTime,
			fmt.Sprintf("bet placed at %s outside match window %s - %s",
				time.Unix(betUnix, 0).UTC().Format("15:04:05"),
				time.Unix(snapshot.StartTime, 0).UTC().Format("15:04:05"),
				time.Unix(snapshot.EndTime(), 0).UTC().Format("15:04:05")), nil)
	}

	// Bets in the pre-start grace window are priced at minute zero.
	if betUnix < snapshot.StartTime {
		betUnix = snapshot.StartTime
	}

	minute := int((betUnix - snapshot.StartTime + 59) / 60)
	if last := snapshot.Minutes() - 1; minute > last {
		minute = last
	}
	if minute < 0 {
		minute = 0
	}

	return minute, nil
}
