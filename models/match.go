package models

import "time"

// Счёт, который получает команда при пропуске тура (bye).
const (
	ByeWinnerScore = 13
	ByeLoserScore  = 7
)

// Match references teams by id; callers resolve them through the tournament.
type Match struct {
	ID          int        `json:"id" db:"id"`
	Round       int        `json:"round" db:"round_number"`
	Team1ID     int        `json:"team1_id" db:"team1_id"`
	Team2ID     int        `json:"team2_id" db:"team2_id"`
	Score1      *int       `json:"score1,omitempty" db:"score1"`
	Score2      *int       `json:"score2,omitempty" db:"score2"`
	Terrain     *int       `json:"terrain,omitempty" db:"terrain"`
	Completed   bool       `json:"completed" db:"completed"`
	IsBye       bool       `json:"is_bye" db:"is_bye"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

func (m *Match) Involves(teamID int) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// WinnerID returns the id of the team with the strictly higher score.
func (m *Match) WinnerID() (int, bool) {
	if !m.Completed || m.Score1 == nil || m.Score2 == nil || *m.Score1 == *m.Score2 {
		return 0, false
	}
	if *m.Score1 > *m.Score2 {
		return m.Team1ID, true
	}
	return m.Team2ID, true
}

func (m *Match) LoserID() (int, bool) {
	winner, ok := m.WinnerID()
	if !ok {
		return 0, false
	}
	if winner == m.Team1ID {
		return m.Team2ID, true
	}
	return m.Team1ID, true
}

// ScoresFor returns (own, opponent) scores from teamID's side.
func (m *Match) ScoresFor(teamID int) (int, int) {
	s1, s2 := derefInt(m.Score1), derefInt(m.Score2)
	if m.Team2ID == teamID {
		return s2, s1
	}
	return s1, s2
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
