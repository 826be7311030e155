package brackets

import (
	"slices"

	"github.com/Dosada05/petanque-manager/models"
)

// bipartition splits the four quadrette teams (by index) into two sides.
type bipartition struct {
	home []int
	away []int
}

// quadretteSchedule is the fixed 7-round rotation: ABC-D, AB-CD, ABD-C, AC-BD,
// ACD-B, AD-BC, BCD-A. Complements of these splits are never played.
var quadretteSchedule = [...]bipartition{
	{home: []int{0, 1, 2}, away: []int{3}},
	{home: []int{0, 1}, away: []int{2, 3}},
	{home: []int{0, 1, 3}, away: []int{2}},
	{home: []int{0, 2}, away: []int{1, 3}},
	{home: []int{0, 2, 3}, away: []int{1}},
	{home: []int{0, 3}, away: []int{1, 2}},
	{home: []int{1, 2, 3}, away: []int{0}},
}

const (
	QuadretteRounds = len(quadretteSchedule)
	QuadretteTeams  = 4

	superTeamIDBase = 1000
)

// SuperTeamID is the id given to the synthetic team playing slot (1 or 2) in round.
func SuperTeamID(round, slot int) int {
	return superTeamIDBase + round*10 + slot
}

func IsSuperTeamID(id int) bool {
	return id > superTeamIDBase
}

// QuadretteSuperTeams merges the rosters of teams according to the schedule
// entry for round (1-based).
func QuadretteSuperTeams(teams []*models.Team, round int) (home, away *models.Team, ok bool) {
	if len(teams) != QuadretteTeams || round < 1 || round > QuadretteRounds {
		return nil, nil, false
	}
	split := quadretteSchedule[round-1]
	return mergeRosters(teams, split.home, SuperTeamID(round, 1), 1),
		mergeRosters(teams, split.away, SuperTeamID(round, 2), 2),
		true
}

func mergeRosters(teams []*models.Team, indexes []int, id, number int) *models.Team {
	merged := &models.Team{ID: id, Number: number}
	for _, idx := range indexes {
		merged.Players = append(merged.Players, slices.Clone(teams[idx].Players)...)
	}
	return merged
}

type quadretteStrategy struct{}

func (quadretteStrategy) GetName() string {
	return "Quadrette"
}

func (quadretteStrategy) GenerateRound(t *Tournament) []*models.Match {
	if t.header.CurrentRound >= QuadretteRounds || len(t.teams) != QuadretteTeams {
		return nil
	}
	round := t.header.CurrentRound + 1
	home, away, ok := QuadretteSuperTeams(t.teams, round)
	if !ok {
		return nil
	}
	t.header.CurrentRound = round
	t.arena[home.ID] = home
	t.arena[away.ID] = away
	return []*models.Match{t.newMatch(round, home.ID, away.ID)}
}
