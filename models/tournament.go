package models

import "time"

// Tournament: заголовок турнира, как он хранится в БД.
type Tournament struct {
	ID           int            `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Type         TournamentType `json:"type" db:"type"`
	TerrainCount int            `json:"terrain_count" db:"terrain_count"`
	CurrentRound int            `json:"current_round" db:"current_round"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

func (t Tournament) Started() bool {
	return t.CurrentRound > 0
}

func (t Tournament) Completed() bool {
	return t.CompletedAt != nil
}
