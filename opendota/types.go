package opendota

import "dotabet/domain/entities"

// listedMatch is one entry of a player's or team's match list.
type listedMatch struct {
	MatchID int64 `json:"match_id"`
}

// matchPlayer is one player slot of a match response.
type matchPlayer struct {
	AccountID int64   `json:"account_id"`
	HeroID    int     `json:"hero_id"`
	IsRadiant bool    `json:"isRadiant"`
	GoldT     []int64 `json:"gold_t"`
	XPT       []int64 `json:"xp_t"`
	LHT       []int64 `json:"lh_t"`
}

// matchResponse is the subset of the tracker's match payload the pipeline
// consumes. The per-minute advantage arrays are null until the match has
// been parsed.
type matchResponse struct {
	MatchID        int64         `json:"match_id"`
	StartTime      int64         `json:"start_time"`
	Duration       int64         `json:"duration"`
	RadiantWin     bool          `json:"radiant_win"`
	LobbyType      int           `json:"lobby_type"`
	Patch          int           `json:"patch"`
	RadiantTeamID  int64         `json:"radiant_team_id"`
	DireTeamID     int64         `json:"dire_team_id"`
	RadiantGoldAdv []int64       `json:"radiant_gold_adv"`
	RadiantXPAdv   []int64       `json:"radiant_xp_adv"`
	Players        []matchPlayer `json:"players"`
}

// parsed reports whether the per-minute statistics have been populated.
func (m *matchResponse) parsed() bool {
	return m.RadiantGoldAdv != nil || m.RadiantXPAdv != nil
}

func (m *matchResponse) toSnapshot() *entities.MatchSnapshot {
	snap := &entities.MatchSnapshot{
		MatchID:        m.MatchID,
		StartTime:      m.StartTime,
		DurationSec:    m.Duration,
		RadiantWin:     m.RadiantWin,
		LobbyType:      m.LobbyType,
		Patch:          m.Patch,
		RadiantTeamID:  m.RadiantTeamID,
		DireTeamID:     m.DireTeamID,
		RadiantGoldAdv: m.RadiantGoldAdv,
		RadiantXPAdv:   m.RadiantXPAdv,
	}
	for _, p := range m.Players {
		snap.Players = append(snap.Players, entities.PlayerStats{
			AccountID: p.AccountID,
			HeroID:    p.HeroID,
			IsRadiant: p.IsRadiant,
			GoldT:     p.GoldT,
			XPT:       p.XPT,
			LHT:       p.LHT,
		})
	}
	return snap
}
