package handlers

import (
	"net/http"

	"github.com/Dosada05/petanque-manager/services"
)

type TeamHandler struct {
	tournamentService services.TournamentService
}

func NewTeamHandler(ts services.TournamentService) *TeamHandler {
	return &TeamHandler{tournamentService: ts}
}

// ListTeams godoc
// @Summary Команды турнира
// @Tags teams
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.tournamentService.ListTeams(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddTeam godoc
// @Summary Добавить команду
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.AddTeamInput true "Игроки"
// @Success 201 {object} services.TeamView
// @Failure 422 {object} map[string]string "Число игроков не подходит формату"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.tournamentService.AddTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeam godoc
// @Summary Удалить команду, ещё не сыгравшую ни одного матча
// @Tags teams
// @Param tournamentID path int true "Tournament ID"
// @Param teamID path int true "Team ID"
// @Success 204
// @Failure 409 {object} map[string]string "Команда уже играла"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TeamHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RemoveTeam(r.Context(), tournamentID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
