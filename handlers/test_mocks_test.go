package handlers

import (
	"context"

	"github.com/Dosada05/petanque-manager/models"
	"github.com/Dosada05/petanque-manager/services"
)

// fakeTournamentService returns canned values and records the last call's arguments.
type fakeTournamentService struct {
	err error

	tournament  *models.Tournament
	tournaments []models.Tournament
	team        *services.TeamView
	teams       []services.TeamView
	round       *services.RoundResult
	match       *services.MatchView
	matches     []services.MatchView
	status      *services.RoundStatus
	standings   []models.Standing

	lastCreate    services.CreateTournamentInput
	lastList      services.ListTournamentsInput
	lastTeamInput services.AddTeamInput
	lastScore     services.RecordScoreInput
	lastRound     *int
	lastIDs       []int
}

func (f *fakeTournamentService) CreateTournament(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	f.lastCreate = input
	return f.tournament, f.err
}

func (f *fakeTournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	f.lastIDs = []int{id}
	return f.tournament, f.err
}

func (f *fakeTournamentService) ListTournaments(ctx context.Context, input services.ListTournamentsInput) ([]models.Tournament, error) {
	f.lastList = input
	return f.tournaments, f.err
}

func (f *fakeTournamentService) DeleteTournament(ctx context.Context, id int) error {
	f.lastIDs = []int{id}
	return f.err
}

func (f *fakeTournamentService) CompleteTournament(ctx context.Context, id int) (*models.Tournament, error) {
	f.lastIDs = []int{id}
	return f.tournament, f.err
}

func (f *fakeTournamentService) AddTeam(ctx context.Context, tournamentID int, input services.AddTeamInput) (*services.TeamView, error) {
	f.lastIDs = []int{tournamentID}
	f.lastTeamInput = input
	return f.team, f.err
}

func (f *fakeTournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID int) error {
	f.lastIDs = []int{tournamentID, teamID}
	return f.err
}

func (f *fakeTournamentService) ListTeams(ctx context.Context, tournamentID int) ([]services.TeamView, error) {
	f.lastIDs = []int{tournamentID}
	return f.teams, f.err
}

func (f *fakeTournamentService) GenerateRound(ctx context.Context, tournamentID int) (*services.RoundResult, error) {
	f.lastIDs = []int{tournamentID}
	return f.round, f.err
}

func (f *fakeTournamentService) RecordScore(ctx context.Context, tournamentID, matchID int, input services.RecordScoreInput) (*services.MatchView, error) {
	f.lastIDs = []int{tournamentID, matchID}
	f.lastScore = input
	return f.match, f.err
}

func (f *fakeTournamentService) ListMatches(ctx context.Context, tournamentID int, round *int) ([]services.MatchView, error) {
	f.lastIDs = []int{tournamentID}
	f.lastRound = round
	return f.matches, f.err
}

func (f *fakeTournamentService) RoundStatus(ctx context.Context, tournamentID, round int) (*services.RoundStatus, error) {
	f.lastIDs = []int{tournamentID, round}
	return f.status, f.err
}

func (f *fakeTournamentService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	f.lastIDs = []int{tournamentID}
	return f.standings, f.err
}

func (f *fakeTournamentService) StandingsSnapshot(ctx context.Context, tournamentID int) (*services.StandingsSnapshot, error) {
	f.lastIDs = []int{tournamentID}
	if f.err != nil {
		return nil, f.err
	}
	snapshot := &services.StandingsSnapshot{Standings: f.standings}
	if f.tournament != nil {
		snapshot.Tournament = *f.tournament
	}
	return snapshot, nil
}

type fakeExportService struct {
	result *services.ExportResult
	err    error
}

func (f *fakeExportService) ExportStandings(ctx context.Context, tournamentID int) (*services.ExportResult, error) {
	return f.result, f.err
}

type fakeAuthService struct {
	result *services.LoginResult
	err    error
}

func (f *fakeAuthService) Login(ctx context.Context, input services.LoginInput) (*services.LoginResult, error) {
	return f.result, f.err
}
