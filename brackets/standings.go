package brackets

import (
	"cmp"
	"slices"

	"github.com/Dosada05/petanque-manager/models"
)

// ComputeStats aggregates completed matches into ranked standings: wins desc,
// points difference desc, points for desc, team id asc.
//
// A tied score is a loss for both teams when legacyTies is set and counts for
// neither otherwise. Points are summed in both cases.
func ComputeStats(teams []*models.Team, matches []*models.Match, legacyTies bool) []models.TeamStats {
	stats := make([]models.TeamStats, 0, len(teams))
	for _, team := range teams {
		stats = append(stats, teamStats(team, matches, legacyTies))
	}

	slices.SortStableFunc(stats, func(a, b models.TeamStats) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PointsDifference(), a.PointsDifference()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PointsFor, a.PointsFor); c != 0 {
			return c
		}
		return cmp.Compare(a.Team.ID, b.Team.ID)
	})
	return stats
}

func teamStats(team *models.Team, matches []*models.Match, legacyTies bool) models.TeamStats {
	s := models.TeamStats{Team: team}
	for _, m := range matches {
		if !m.Completed || !m.Involves(team.ID) {
			continue
		}
		own, opp := m.ScoresFor(team.ID)
		s.PointsFor += own
		s.PointsAgainst += opp
		switch {
		case own > opp:
			s.Wins++
		case own < opp:
			s.Losses++
		case legacyTies:
			s.Losses++
		}
	}
	return s
}
