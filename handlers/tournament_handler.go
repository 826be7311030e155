package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/petanque-manager/middleware"
	"github.com/Dosada05/petanque-manager/services"
)

const defaultListLimit = 50

type TournamentHandler struct {
	tournamentService services.TournamentService
	exportService     services.ExportService
}

func NewTournamentHandler(ts services.TournamentService, es services.ExportService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		exportService:     es,
	}
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Название, формат и число площадок"
// @Success 201 {object} models.Tournament
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Список турниров, новые первыми
// @Tags tournaments
// @Produce json
// @Param type query string false "Формат"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultListLimit)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), services.ListTournamentsInput{
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Турнир по ID
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.Tournament
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary Удалить турнир со всеми командами и матчами
// @Tags tournaments
// @Param tournamentID path int true "Tournament ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "tournament deleted",
		slog.Int("tournament_id", id), slog.String("organizer", middleware.GetSubjectFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

// CompleteHandler godoc
// @Summary Завершить турнир
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.Tournament
// @Failure 409 {object} map[string]string "Уже завершён"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/complete [post]
func (h *TournamentHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CompleteTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "tournament completed",
		slog.Int("tournament_id", id), slog.String("organizer", middleware.GetSubjectFromContext(r.Context())))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler godoc
// @Summary Текущая таблица
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.Standings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportStandingsHandler godoc
// @Summary Выгрузить таблицу в CSV в хранилище
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} services.ExportResult
// @Failure 503 {object} map[string]string "Экспорт не настроен"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/standings/export [post]
func (h *TournamentHandler) ExportStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.exportService.ExportStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
