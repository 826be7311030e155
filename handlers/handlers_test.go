package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/petanque-manager/models"
	"github.com/Dosada05/petanque-manager/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(ts services.TournamentService, es services.ExportService, as services.AuthService) *chi.Mux {
	th := NewTournamentHandler(ts, es)
	teams := NewTeamHandler(ts)
	matches := NewMatchHandler(ts)

	r := chi.NewRouter()
	r.Post("/auth/login", NewAuthHandler(as).Login)
	r.Get("/tournaments", th.ListHandler)
	r.Post("/tournaments", th.CreateHandler)
	r.Get("/tournaments/{tournamentID}", th.GetByIDHandler)
	r.Delete("/tournaments/{tournamentID}", th.DeleteHandler)
	r.Post("/tournaments/{tournamentID}/complete", th.CompleteHandler)
	r.Get("/tournaments/{tournamentID}/standings", th.StandingsHandler)
	r.Post("/tournaments/{tournamentID}/standings/export", th.ExportStandingsHandler)
	r.Get("/tournaments/{tournamentID}/teams", teams.ListTeams)
	r.Post("/tournaments/{tournamentID}/teams", teams.AddTeam)
	r.Delete("/tournaments/{tournamentID}/teams/{teamID}", teams.RemoveTeam)
	r.Post("/tournaments/{tournamentID}/rounds", matches.GenerateRound)
	r.Get("/tournaments/{tournamentID}/rounds/{round}/matches", matches.ListRoundMatches)
	r.Get("/tournaments/{tournamentID}/rounds/{round}/status", matches.RoundStatus)
	r.Put("/tournaments/{tournamentID}/matches/{matchID}/score", matches.RecordScore)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateTournamentHandler(t *testing.T) {
	fake := &fakeTournamentService{tournament: &models.Tournament{ID: 7, Name: "Open", Type: models.TypeDoublette, TerrainCount: 4}}
	router := newTestRouter(fake, &fakeExportService{}, &fakeAuthService{})

	rec := do(t, router, http.MethodPost, "/tournaments", `{"name":"Open","type":"doublette","terrain_count":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "doublette", fake.lastCreate.Type)
	tournament := decode(t, rec)["tournament"].(map[string]interface{})
	assert.EqualValues(t, 7, tournament["id"])

	rec = do(t, router, http.MethodPost, "/tournaments", `{"name":"Open","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/tournaments", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTournamentsHandler(t *testing.T) {
	fake := &fakeTournamentService{tournaments: []models.Tournament{{ID: 2}, {ID: 1}}}
	router := newTestRouter(fake, &fakeExportService{}, &fakeAuthService{})

	rec := do(t, router, http.MethodGet, "/tournaments?type=melee&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.ListTournamentsInput{Type: "melee", Limit: 5, Offset: 10}, fake.lastList)
	assert.Len(t, decode(t, rec)["tournaments"], 2)

	rec = do(t, router, http.MethodGet, "/tournaments?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrTeamNotFound, http.StatusNotFound},
		{services.ErrInvalidScore, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: doublette needs 2, got 3", services.ErrInvalidPlayerCount), http.StatusUnprocessableEntity},
		{services.ErrPlayerNameEmpty, http.StatusUnprocessableEntity},
		{services.ErrEqualScores, http.StatusUnprocessableEntity},
		{services.ErrRoundIncomplete, http.StatusConflict},
		{services.ErrByeMatchImmutable, http.StatusConflict},
		{services.ErrScheduleExhausted, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrExportDisabled, http.StatusServiceUnavailable},
		{errors.New("database is on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, decode(t, rec), "error")
		})
	}
}

func TestTeamHandlers(t *testing.T) {
	fake := &fakeTournamentService{
		team:  &services.TeamView{ID: 3, Number: 3, Name: "Équipe 3"},
		teams: []services.TeamView{{ID: 1, Number: 1}},
	}
	router := newTestRouter(fake, &fakeExportService{}, &fakeAuthService{})

	rec := do(t, router, http.MethodPost, "/tournaments/4/teams", `{"players":["Marius","Fanny"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int{4}, fake.lastIDs)
	assert.Equal(t, []string{"Marius", "Fanny"}, fake.lastTeamInput.Players)

	rec = do(t, router, http.MethodGet, "/tournaments/4/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["teams"], 1)

	rec = do(t, router, http.MethodDelete, "/tournaments/4/teams/9", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int{4, 9}, fake.lastIDs)

	fake.err = services.ErrTeamHasMatches
	rec = do(t, router, http.MethodDelete, "/tournaments/4/teams/9", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, "/tournaments/abc/teams/9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoundHandlers(t *testing.T) {
	s1, s2 := 13, 8
	fake := &fakeTournamentService{
		round:   &services.RoundResult{Round: 2, Matches: []services.MatchView{{Match: models.Match{ID: 5, Round: 2}}}},
		matches: []services.MatchView{{Match: models.Match{ID: 5, Round: 2}}},
		status:  &services.RoundStatus{Round: 2, Complete: true},
		match:   &services.MatchView{Match: models.Match{ID: 5, Score1: &s1, Score2: &s2, Completed: true}},
	}
	router := newTestRouter(fake, &fakeExportService{}, &fakeAuthService{})

	rec := do(t, router, http.MethodPost, "/tournaments/1/rounds", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["round"])

	rec = do(t, router, http.MethodGet, "/tournaments/1/rounds/2/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.lastRound)
	assert.Equal(t, 2, *fake.lastRound)

	rec = do(t, router, http.MethodGet, "/tournaments/1/rounds/0/matches", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/tournaments/1/rounds/2/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["complete"])

	rec = do(t, router, http.MethodPut, "/tournaments/1/matches/5/score", `{"score1":13,"score2":8,"terrain":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1, 5}, fake.lastIDs)
	require.NotNil(t, fake.lastScore.Terrain)
	assert.Equal(t, 2, *fake.lastScore.Terrain)
	match := decode(t, rec)["match"].(map[string]interface{})
	assert.EqualValues(t, 13, match["score1"])

	fake.err = services.ErrRoundIncomplete
	rec = do(t, router, http.MethodPost, "/tournaments/1/rounds", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStandingsAndExportHandlers(t *testing.T) {
	fake := &fakeTournamentService{standings: []models.Standing{{Rank: 1, TeamID: 2, Wins: 3}}}
	export := &fakeExportService{result: &services.ExportResult{Key: "exports/a.csv", URL: "https://cdn.test/exports/a.csv"}}
	router := newTestRouter(fake, export, &fakeAuthService{})

	rec := do(t, router, http.MethodGet, "/tournaments/1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["standings"], 1)

	rec = do(t, router, http.MethodPost, "/tournaments/1/standings/export", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://cdn.test/exports/a.csv", decode(t, rec)["url"])

	export.err = services.ErrExportDisabled
	rec = do(t, router, http.MethodPost, "/tournaments/1/standings/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	auth := &fakeAuthService{result: &services.LoginResult{Token: "signed"}}
	router := newTestRouter(&fakeTournamentService{}, &fakeExportService{}, auth)

	rec := do(t, router, http.MethodPost, "/auth/login", `{"password":"boules"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed", decode(t, rec)["token"])

	rec = do(t, router, http.MethodPost, "/auth/login", `{"password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	auth.err = services.ErrInvalidCredentials
	rec = do(t, router, http.MethodPost, "/auth/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://club.test"})

	req := httptest.NewRequest(http.MethodGet, "/ws/tournaments/1", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://club.test")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.test")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
