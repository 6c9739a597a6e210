package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"
)

// SubjectResolver maps what users type into tracked identities: a Discord
// member into their configured steam account id, a team name into its
// tracker team id. Resolution failures are configuration rejects; they
// happen before any funds move.
type SubjectResolver struct {
	users  interfaces.UserRepository
	teams  map[string]int64 // lowercase team name -> team id
	logger *logrus.Entry
}

// NewSubjectResolver creates a resolver, loading the team registry from the
// given JSON file. A missing file is allowed and leaves team betting
// unavailable.
func NewSubjectResolver(users interfaces.UserRepository, teamsFile string) (*SubjectResolver, error) {
	logger := logrus.WithField("component", "subject_resolver")

	teams, err := loadTeams(teamsFile)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		logger.WithField("file", teamsFile).Warn("Team registry not found, team bets disabled")
		teams = map[string]int64{}
	} else {
		logger.WithField("teams", len(teams)).Info("Team registry loaded")
	}

	return &SubjectResolver{users: users, teams: teams, logger: logger}, nil
}

// ResolvePlayer returns the steam account id configured for a Discord user.
func (r *SubjectResolver) ResolvePlayer(ctx context.Context, discordID int64) (int64, error) {
	user, err := r.users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up user %d: %w", discordID, err)
	}
	if user == nil || !user.HasSteamConfigured() {
		return 0, entities.NewReject(entities.FailureConfig, "no steam account configured for this member")
	}
	return *user.SteamID, nil
}

// ResolveTeam returns the tracker team id for a team name. Matching is
// case-insensitive.
func (r *SubjectResolver) ResolveTeam(name string) (int64, error) {
	id, ok := r.teams[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, entities.NewReject(entities.FailureConfig, fmt.Sprintf("unknown team %q", name))
	}
	return id, nil
}

// TeamNames returns the registered team names, for command autocomplete.
func (r *SubjectResolver) TeamNames() []string {
	names := make([]string, 0, len(r.teams))
	for name := range r.teams {
		names = append(names, name)
	}
	return names
}

func loadTeams(path string) (map[string]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read team registry %s: %w", path, err)
	}

	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse team registry %s: %w", path, err)
	}

	teams := make(map[string]int64, len(raw))
	for name, id := range raw {
		teams[strings.ToLower(name)] = id
	}
	return teams, nil
}
