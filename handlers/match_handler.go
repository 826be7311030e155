package handlers

import (
	"net/http"

	"github.com/Dosada05/petanque-manager/services"
)

type MatchHandler struct {
	tournamentService services.TournamentService
}

func NewMatchHandler(ts services.TournamentService) *MatchHandler {
	return &MatchHandler{tournamentService: ts}
}

// GenerateRound godoc
// @Summary Сгенерировать следующий тур
// @Tags rounds
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} services.RoundResult
// @Failure 409 {object} map[string]string "Тур не завершён / мало команд / расписание исчерпано"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/rounds [post]
func (h *MatchHandler) GenerateRound(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.GenerateRound(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRoundMatches godoc
// @Summary Матчи тура
// @Tags rounds
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param round path int true "Номер тура"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/rounds/{round}/matches [get]
func (h *MatchHandler) ListRoundMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIDFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), tournamentID, &round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary Все матчи турнира
// @Tags rounds
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), tournamentID, nil)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RoundStatus godoc
// @Summary Завершён ли тур
// @Tags rounds
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param round path int true "Номер тура"
// @Success 200 {object} services.RoundStatus
// @Router /tournaments/{tournamentID}/rounds/{round}/status [get]
func (h *MatchHandler) RoundStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIDFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.tournamentService.RoundStatus(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordScore godoc
// @Summary Записать счёт матча
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path int true "Match ID"
// @Param input body services.RecordScoreInput true "Счёт и площадка"
// @Success 200 {object} services.MatchView
// @Failure 409 {object} map[string]string "Матч с пропуском тура"
// @Failure 422 {object} map[string]string "Недопустимый счёт или площадка"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/score [put]
func (h *MatchHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.RecordScore(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
