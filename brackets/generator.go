package brackets

import (
	"slices"

	"github.com/Dosada05/petanque-manager/models"
)

// PairingStrategy produces the next round for one tournament format. A strategy
// owns the round counter: it decides whether an empty result still advances it.
type PairingStrategy interface {
	GenerateRound(t *Tournament) []*models.Match

	GetName() string
}

func strategyFor(typ models.TournamentType) PairingStrategy {
	switch typ {
	case models.TypeQuadrette:
		return quadretteStrategy{}
	case models.TypeMelee:
		return meleeStrategy{}
	case models.TypeHeadToHead, models.TypeDoublette, models.TypeTriplette:
		return swissStrategy{}
	}
	// Неизвестный тип играет по стандартным правилам.
	return swissStrategy{}
}

// pairTeams shuffles pool and pairs consecutive teams for round. A leftover team
// gets a pre-completed bye.
func (t *Tournament) pairTeams(round int, pool []*models.Team) []*models.Match {
	shuffled := slices.Clone(pool)
	t.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	matches := make([]*models.Match, 0, len(shuffled)/2+1)
	for len(shuffled) >= 2 {
		matches = append(matches, t.newMatch(round, shuffled[0].ID, shuffled[1].ID))
		shuffled = shuffled[2:]
	}
	if len(shuffled) == 1 {
		matches = append(matches, t.newByeMatch(round, shuffled[0].ID))
	}
	return matches
}
