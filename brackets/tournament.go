package brackets

import (
	"slices"
	"time"

	"github.com/Dosada05/petanque-manager/models"
)

type Options struct {
	// LegacyTieScoring counts a tied match as a loss for both teams.
	LegacyTieScoring bool
	// Now stamps created/completed times. Defaults to time.Now.
	Now func() time.Time
}

// Tournament is the in-memory aggregate the pairing engine works on. It is not
// safe for concurrent use; callers serialise access per tournament.
type Tournament struct {
	header  models.Tournament
	teams   []*models.Team
	matches []*models.Match
	// arena resolves every team id a match can reference, including the bye
	// sentinel, removed teams and quadrette super-teams.
	arena map[int]*models.Team

	rng  Shuffler
	opts Options

	nextTeamID  int
	nextMatchID int
}

// New starts an empty tournament. A nil rng gets a crypto-seeded source.
func New(header models.Tournament, rng Shuffler, opts Options) *Tournament {
	if rng == nil {
		rng = NewSource()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	bye := models.NewByeTeam()
	return &Tournament{
		header:      header,
		arena:       map[int]*models.Team{bye.ID: bye},
		rng:         rng,
		opts:        opts,
		nextTeamID:  1,
		nextMatchID: 1,
	}
}

// Restore rebuilds a tournament from stored rows. Teams are ordered by number;
// quadrette super-teams are recomputed from the schedule.
func Restore(header models.Tournament, teams []*models.Team, matches []*models.Match, rng Shuffler, opts Options) *Tournament {
	t := New(header, rng, opts)

	t.teams = slices.Clone(teams)
	slices.SortStableFunc(t.teams, func(a, b *models.Team) int { return a.Number - b.Number })
	for _, team := range t.teams {
		t.arena[team.ID] = team
		t.nextTeamID = max(t.nextTeamID, team.ID+1)
	}

	t.matches = slices.Clone(matches)
	slices.SortStableFunc(t.matches, func(a, b *models.Match) int { return a.ID - b.ID })
	for _, m := range t.matches {
		t.nextMatchID = max(t.nextMatchID, m.ID+1)
		if header.Type == models.TypeQuadrette && IsSuperTeamID(m.Team1ID) {
			if home, away, ok := QuadretteSuperTeams(t.teams, m.Round); ok {
				t.arena[home.ID] = home
				t.arena[away.ID] = away
			}
		}
	}
	return t
}

// Header returns a copy of the tournament header with the live round counter.
func (t *Tournament) Header() models.Tournament {
	return t.header
}

// StrategyName names the pairing rules the next round will use.
func (t *Tournament) StrategyName() string {
	return strategyFor(t.header.Type).GetName()
}

func (t *Tournament) Type() models.TournamentType {
	return t.header.Type
}

func (t *Tournament) CurrentRound() int {
	return t.header.CurrentRound
}

func (t *Tournament) MarkCompleted(at time.Time) {
	t.header.CompletedAt = &at
}

func (t *Tournament) Teams() []*models.Team {
	return slices.Clone(t.teams)
}

func (t *Tournament) Matches() []*models.Match {
	return slices.Clone(t.matches)
}

// Team resolves any id a match may reference.
func (t *Tournament) Team(id int) (*models.Team, bool) {
	team, ok := t.arena[id]
	return team, ok
}

func (t *Tournament) Match(id int) (*models.Match, bool) {
	for _, m := range t.matches {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// AddTeam appends a team numbered after the current last one.
func (t *Tournament) AddTeam(playerNames []string) *models.Team {
	team := &models.Team{
		ID:        t.nextTeamID,
		Number:    len(t.teams) + 1,
		CreatedAt: t.opts.Now(),
	}
	for i, name := range playerNames {
		team.Players = append(team.Players, models.Player{ID: i + 1, Name: name})
	}
	t.nextTeamID++
	t.teams = append(t.teams, team)
	t.arena[team.ID] = team
	return team
}

// RemoveTeam drops the team and renumbers the survivors 1..N. The team stays
// resolvable for matches that already reference it.
func (t *Tournament) RemoveTeam(teamID int) bool {
	idx := slices.IndexFunc(t.teams, func(team *models.Team) bool { return team.ID == teamID })
	if idx < 0 {
		return false
	}
	t.teams = slices.Delete(t.teams, idx, idx+1)
	for i, team := range t.teams {
		team.Number = i + 1
	}
	return true
}

// GenerateFirstRound randomly pairs all teams. It needs at least two teams and
// an unstarted tournament, otherwise it returns nothing.
func (t *Tournament) GenerateFirstRound() []*models.Match {
	if len(t.teams) < 2 || t.header.CurrentRound != 0 {
		return nil
	}
	t.header.CurrentRound = 1
	matches := t.pairTeams(1, t.teams)
	t.matches = append(t.matches, matches...)
	return matches
}

// GenerateNextRound dispatches on the tournament type.
func (t *Tournament) GenerateNextRound() []*models.Match {
	matches := strategyFor(t.header.Type).GenerateRound(t)
	t.matches = append(t.matches, matches...)
	return matches
}

// GenerateRound opens the tournament with a random draw, then hands over to the
// format's strategy. Quadrette follows its schedule from round one.
func (t *Tournament) GenerateRound() []*models.Match {
	if t.header.CurrentRound == 0 && t.header.Type != models.TypeQuadrette {
		return t.GenerateFirstRound()
	}
	return t.GenerateNextRound()
}

// RecordScore stores a result and marks the match completed. Any integers are
// accepted here; validation belongs to the caller.
func (t *Tournament) RecordScore(matchID, score1, score2 int, terrain *int) bool {
	m, ok := t.Match(matchID)
	if !ok {
		return false
	}
	now := t.opts.Now()
	m.Score1 = &score1
	m.Score2 = &score2
	m.Completed = true
	m.CompletedAt = &now
	if terrain != nil {
		tv := *terrain
		m.Terrain = &tv
	}
	return true
}

func (t *Tournament) MatchesByRound(round int) []*models.Match {
	var out []*models.Match
	for _, m := range t.matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func (t *Tournament) IsRoundComplete(round int) bool {
	matches := t.MatchesByRound(round)
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.Completed {
			return false
		}
	}
	return true
}

// HasPlayed reports whether the team appears in any generated match.
func (t *Tournament) HasPlayed(teamID int) bool {
	return slices.ContainsFunc(t.matches, func(m *models.Match) bool { return m.Involves(teamID) })
}

func (t *Tournament) Stats() []models.TeamStats {
	return ComputeStats(t.teams, t.matches, t.opts.LegacyTieScoring)
}

func (t *Tournament) newMatch(round, team1ID, team2ID int) *models.Match {
	m := &models.Match{
		ID:        t.nextMatchID,
		Round:     round,
		Team1ID:   team1ID,
		Team2ID:   team2ID,
		CreatedAt: t.opts.Now(),
	}
	t.nextMatchID++
	return m
}

func (t *Tournament) newByeMatch(round, teamID int) *models.Match {
	m := t.newMatch(round, teamID, models.ByeTeamID)
	s1, s2 := models.ByeWinnerScore, models.ByeLoserScore
	m.Score1, m.Score2 = &s1, &s2
	m.Completed = true
	m.IsBye = true
	completedAt := m.CreatedAt
	m.CompletedAt = &completedAt
	return m
}
