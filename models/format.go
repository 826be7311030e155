package models

import (
	"fmt"
	"strings"
)

// TournamentType: закрытый набор форматов турнира по петанку.
type TournamentType string

const (
	TypeHeadToHead TournamentType = "tête-à-tête"
	TypeDoublette  TournamentType = "doublette"
	TypeTriplette  TournamentType = "triplette"
	TypeQuadrette  TournamentType = "quadrette"
	TypeMelee      TournamentType = "mêlée"
)

var TournamentTypes = []TournamentType{
	TypeHeadToHead,
	TypeDoublette,
	TypeTriplette,
	TypeQuadrette,
	TypeMelee,
}

// ParseTournamentType accepts the canonical names and their unaccented spellings
// ("tete-a-tete", "melee"), case-insensitive.
func ParseTournamentType(s string) (TournamentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tête-à-tête", "tete-a-tete", "head-to-head":
		return TypeHeadToHead, nil
	case "doublette":
		return TypeDoublette, nil
	case "triplette":
		return TypeTriplette, nil
	case "quadrette":
		return TypeQuadrette, nil
	case "mêlée", "melee":
		return TypeMelee, nil
	}
	return "", fmt.Errorf("unknown tournament type %q (want one of %v)", s, TournamentTypes)
}

// PlayersPerTeam returns the roster size a format expects. Mêlée returns 0:
// any non-empty roster is accepted.
func (t TournamentType) PlayersPerTeam() int {
	switch t {
	case TypeHeadToHead:
		return 1
	case TypeDoublette:
		return 2
	case TypeTriplette:
		return 3
	case TypeQuadrette:
		return 4
	default:
		return 0
	}
}

func (t TournamentType) Valid() bool {
	_, err := ParseTournamentType(string(t))
	return err == nil
}
