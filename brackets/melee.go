package brackets

import "github.com/Dosada05/petanque-manager/models"

// meleeStrategy redraws every round from scratch, with no memory of past pairings.
type meleeStrategy struct{}

func (meleeStrategy) GetName() string {
	return "Melee"
}

func (meleeStrategy) GenerateRound(t *Tournament) []*models.Match {
	if len(t.teams) < 2 {
		return nil
	}
	t.header.CurrentRound++
	return t.pairTeams(t.header.CurrentRound, t.teams)
}
