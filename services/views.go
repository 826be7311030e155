package services

import "github.com/Dosada05/petanque-manager/models"

// TeamView is a team as shown to clients, with its display name resolved.
type TeamView struct {
	ID      int             `json:"id"`
	Number  int             `json:"number"`
	Name    string          `json:"name"`
	Players []models.Player `json:"players"`
	IsBye   bool            `json:"is_bye,omitempty"`
}

type MatchView struct {
	models.Match
	Team1  *TeamView `json:"team1,omitempty"`
	Team2  *TeamView `json:"team2,omitempty"`
	Winner *int      `json:"winner_id,omitempty"`
	Loser  *int      `json:"loser_id,omitempty"`
}

type RoundResult struct {
	Round   int         `json:"round"`
	Matches []MatchView `json:"matches"`
}

type StandingsSnapshot struct {
	Tournament models.Tournament `json:"tournament"`
	Standings  []models.Standing `json:"standings"`
}

type RoundStatus struct {
	Round    int  `json:"round"`
	Complete bool `json:"complete"`
}

func newTeamView(team *models.Team) *TeamView {
	if team == nil {
		return nil
	}
	players := team.Players
	if players == nil {
		players = []models.Player{}
	}
	return &TeamView{
		ID:      team.ID,
		Number:  team.Number,
		Name:    team.DisplayName(),
		Players: players,
		IsBye:   team.IsBye(),
	}
}

func teamViews(teams []*models.Team) []TeamView {
	out := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		out = append(out, *newTeamView(team))
	}
	return out
}
