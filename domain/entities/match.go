package entities

// Side is the team a subject played on in a match. The encoding is fixed
// here and used everywhere; sides are never passed around as bare ints.
type Side int

const (
	SideRadiant Side = iota
	SideDire
)

func (s Side) String() string {
	if s == SideRadiant {
		return "radiant"
	}
	return "dire"
}

// PlayerStats holds one player's per-minute time series from a parsed match.
type PlayerStats struct {
	AccountID int64
	HeroID    int
	IsRadiant bool
	GoldT     []int64 // gold at each minute
	XPT       []int64 // experience at each minute
	LHT       []int64 // last hits at each minute
}

// MatchSnapshot is the immutable view of a finished, fully parsed match.
// It is produced by the match service client only once the tracking service
// reports the per-minute statistics as populated.
type MatchSnapshot struct {
	MatchID        int64
	StartTime      int64 // unix seconds
	DurationSec    int64
	RadiantWin     bool
	LobbyType      int
	Patch          int
	RadiantTeamID  int64
	DireTeamID     int64
	RadiantGoldAdv []int64 // per-minute radiant gold advantage
	RadiantXPAdv   []int64 // per-minute radiant xp advantage
	Players        []PlayerStats
}

// Minutes returns the number of per-minute samples available.
func (m *MatchSnapshot) Minutes() int {
	return len(m.RadiantGoldAdv)
}

// SideOfPlayer returns the side the given account played on.
func (m *MatchSnapshot) SideOfPlayer(accountID int64) (Side, bool) {
	for _, p := range m.Players {
		if p.AccountID == accountID {
			if p.IsRadiant {
				return SideRadiant, true
			}
			return SideDire, true
		}
	}
	return SideRadiant, false
}

// SideOfTeam returns the side the given team id played on.
func (m *MatchSnapshot) SideOfTeam(teamID int64) (Side, bool) {
	switch teamID {
	case m.RadiantTeamID:
		return SideRadiant, true
	case m.DireTeamID:
		return SideDire, true
	}
	return SideRadiant, false
}

// EndTime returns the unix second the match ended.
func (m *MatchSnapshot) EndTime() int64 {
	return m.StartTime + m.DurationSec
}
