package models

import (
	"fmt"
	"strings"
	"time"
)

type Player struct {
	ID   int    `json:"id" db:"position"`
	Name string `json:"name" db:"name"`
}

// Team is shared by reference between the tournament and the matches that
// resolve it, so renumbering is visible everywhere.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Number    int       `json:"number" db:"number"`
	Players   []Player  `json:"players" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	ByeTeamID     = 0
	ByePlayerName = "BYE"
)

// NewByeTeam returns the sentinel opponent used for byes.
func NewByeTeam() *Team {
	return &Team{
		ID:      ByeTeamID,
		Number:  0,
		Players: []Player{{ID: 0, Name: ByePlayerName}},
	}
}

func (t *Team) IsBye() bool {
	return t != nil && t.ID == ByeTeamID
}

func (t *Team) DisplayName() string {
	if t.IsBye() {
		return ByePlayerName
	}
	return fmt.Sprintf("Équipe %d", t.Number)
}

func (t *Team) PlayerNames() string {
	names := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
