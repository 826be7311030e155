package models

// TeamStats is derived from completed matches and never stored.
type TeamStats struct {
	Team          *Team `json:"team"`
	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	PointsFor     int   `json:"points_for"`
	PointsAgainst int   `json:"points_against"`
}

func (s TeamStats) PointsDifference() int {
	return s.PointsFor - s.PointsAgainst
}

func (s TeamStats) WinRate() float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}

// Standing is the JSON view of a ranked TeamStats.
type Standing struct {
	Rank             int     `json:"rank"`
	TeamID           int     `json:"team_id"`
	TeamNumber       int     `json:"team_number"`
	Players          string  `json:"players"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	PointsFor        int     `json:"points_for"`
	PointsAgainst    int     `json:"points_against"`
	PointsDifference int     `json:"points_difference"`
	WinRate          float64 `json:"win_rate"`
}

func NewStandings(stats []TeamStats) []Standing {
	out := make([]Standing, 0, len(stats))
	for i, s := range stats {
		out = append(out, Standing{
			Rank:             i + 1,
			TeamID:           s.Team.ID,
			TeamNumber:       s.Team.Number,
			Players:          s.Team.PlayerNames(),
			Wins:             s.Wins,
			Losses:           s.Losses,
			PointsFor:        s.PointsFor,
			PointsAgainst:    s.PointsAgainst,
			PointsDifference: s.PointsDifference(),
			WinRate:          s.WinRate(),
		})
	}
	return out
}
