package brackets

import (
	"slices"

	"github.com/Dosada05/petanque-manager/models"
)

// swissStrategy pairs teams inside win-groups (teams with the same number of
// wins), best group first. An odd group gives its leftover a bye of its own;
// nobody is carried into the next group.
type swissStrategy struct{}

func (swissStrategy) GetName() string {
	return "Swiss"
}

func (swissStrategy) GenerateRound(t *Tournament) []*models.Match {
	groups := make(map[int][]*models.Team)
	for _, s := range t.Stats() {
		groups[s.Wins] = append(groups[s.Wins], s.Team)
	}

	// Раунд увеличивается всегда, даже если команд нет.
	t.header.CurrentRound++
	round := t.header.CurrentRound

	winCounts := make([]int, 0, len(groups))
	for wins := range groups {
		winCounts = append(winCounts, wins)
	}
	slices.Sort(winCounts)
	slices.Reverse(winCounts)

	var matches []*models.Match
	for _, wins := range winCounts {
		matches = append(matches, t.pairTeams(round, groups[wins])...)
	}
	return matches
}
