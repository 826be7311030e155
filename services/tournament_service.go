package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/petanque-manager/brackets"
	"github.com/Dosada05/petanque-manager/models"
	"github.com/Dosada05/petanque-manager/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultMaxScore = 13

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
	CompleteTournament(ctx context.Context, id int) (*models.Tournament, error)

	AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*TeamView, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID int) error
	ListTeams(ctx context.Context, tournamentID int) ([]TeamView, error)

	GenerateRound(ctx context.Context, tournamentID int) (*RoundResult, error)
	RecordScore(ctx context.Context, tournamentID, matchID int, input RecordScoreInput) (*MatchView, error)
	ListMatches(ctx context.Context, tournamentID int, round *int) ([]MatchView, error)
	RoundStatus(ctx context.Context, tournamentID, round int) (*RoundStatus, error)
	Standings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	StandingsSnapshot(ctx context.Context, tournamentID int) (*StandingsSnapshot, error)
}

type CreateTournamentInput struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	TerrainCount int    `json:"terrain_count"`
}

type ListTournamentsInput struct {
	Type   string
	Limit  int
	Offset int
}

type AddTeamInput struct {
	Players []string `json:"players"`
}

type RecordScoreInput struct {
	Score1  *int `json:"score1"`
	Score2  *int `json:"score2"`
	Terrain *int `json:"terrain,omitempty"`
}

// Broadcaster pushes live events to the subscribers of a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type TournamentServiceConfig struct {
	LegacyTieScoring bool
	MaxScore         int
	// NewSource returns the random source for a newly loaded engine.
	NewSource func() brackets.Shuffler
	Now       func() time.Time
}

// tournamentEntry serialises every command on one tournament. A nil engine is
// (re)loaded from the repositories on next use.
type tournamentEntry struct {
	mu     sync.Mutex
	engine *brackets.Tournament
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	broadcaster    Broadcaster
	cfg            TournamentServiceConfig
	logger         *slog.Logger

	mu      sync.Mutex
	entries map[int]*tournamentEntry
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	broadcaster Broadcaster,
	cfg TournamentServiceConfig,
	logger *slog.Logger,
) TournamentService {
	if cfg.MaxScore <= 0 {
		cfg.MaxScore = defaultMaxScore
	}
	if cfg.NewSource == nil {
		cfg.NewSource = brackets.NewSource
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		broadcaster:    broadcaster,
		cfg:            cfg,
		logger:         logger.With(slog.String("service", "tournament")),
		entries:        make(map[int]*tournamentEntry),
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameEmpty
	}
	typ, err := models.ParseTournamentType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTournamentType, err)
	}
	if input.TerrainCount < 1 {
		return nil, ErrInvalidTerrainCount
	}

	header := &models.Tournament{
		Name:         name,
		Type:         typ,
		TerrainCount: input.TerrainCount,
		CreatedAt:    s.cfg.Now(),
	}
	if err := s.tournamentRepo.Create(ctx, header); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.mu.Lock()
	s.entries[header.ID] = &tournamentEntry{engine: s.newEngine(*header, nil, nil)}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", header.ID), slog.String("type", string(typ)), slog.Int("terrains", header.TerrainCount))
	return header, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var header models.Tournament
	err := s.withEngine(ctx, id, func(entry *tournamentEntry) error {
		header = entry.engine.Header()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	filter := repositories.ListTournamentsFilter{Limit: input.Limit, Offset: input.Offset}
	if input.Type != "" {
		typ, err := models.ParseTournamentType(input.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTournamentType, err)
		}
		filter.Type = &typ
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	entry := s.entry(id)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	err := s.tournamentRepo.Delete(ctx, id)
	// Ожидающие на entry.mu перечитают турнир из хранилища.
	entry.engine = nil

	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()

	if err != nil {
		return mapRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) CompleteTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var header models.Tournament
	err := s.withEngine(ctx, id, func(entry *tournamentEntry) error {
		if entry.engine.Header().Completed() {
			return ErrTournamentCompleted
		}
		now := s.cfg.Now()
		if err := s.tournamentRepo.MarkCompleted(ctx, id, now); err != nil {
			return mapRepositoryError(err)
		}
		entry.engine.MarkCompleted(now)
		header = entry.engine.Header()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(id, brackets.EventTournamentClosed, header)
	return &header, nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*TeamView, error) {
	var (
		view  *TeamView
		teams []TeamView
	)
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		engine := entry.engine
		if engine.Header().Completed() {
			return ErrTournamentCompleted
		}
		names, err := validatePlayers(engine.Type(), input.Players)
		if err != nil {
			return err
		}
		// Расписание квадретты рассчитано ровно на четыре команды.
		if engine.Type() == models.TypeQuadrette && len(engine.Teams()) >= brackets.QuadretteTeams {
			return fmt.Errorf("%w: already have %d", ErrQuadretteTeamCount, len(engine.Teams()))
		}

		team := engine.AddTeam(names)
		err = s.inTx(ctx, func(tx *sql.Tx) error {
			return s.teamRepo.Create(ctx, tx, tournamentID, team)
		})
		if err != nil {
			entry.engine = nil
			return fmt.Errorf("failed to save team: %w", err)
		}
		view = newTeamView(team)
		teams = teamViews(engine.Teams())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, brackets.EventTeamsUpdated, teams)
	return view, nil
}

func (s *tournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID int) error {
	var teams []TeamView
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		engine := entry.engine
		if engine.Header().Completed() {
			return ErrTournamentCompleted
		}
		if !isRegistered(engine, teamID) {
			return ErrTeamNotFound
		}
		// В квадретте команды играют внутри сборных, поэтому любой матч блокирует состав.
		if engine.HasPlayed(teamID) || (engine.Type() == models.TypeQuadrette && engine.Header().Started()) {
			return ErrTeamHasMatches
		}

		engine.RemoveTeam(teamID)
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if err := s.teamRepo.Delete(ctx, tx, tournamentID, teamID); err != nil {
				return err
			}
			return s.teamRepo.UpdateNumbers(ctx, tx, tournamentID, engine.Teams())
		})
		if err != nil {
			entry.engine = nil
			return fmt.Errorf("failed to remove team %d: %w", teamID, mapRepositoryError(err))
		}
		teams = teamViews(engine.Teams())
		return nil
	})
	if err != nil {
		return err
	}
	s.broadcast(tournamentID, brackets.EventTeamsUpdated, teams)
	return nil
}

func (s *tournamentService) ListTeams(ctx context.Context, tournamentID int) ([]TeamView, error) {
	var teams []TeamView
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		teams = teamViews(entry.engine.Teams())
		return nil
	})
	return teams, err
}

func (s *tournamentService) GenerateRound(ctx context.Context, tournamentID int) (*RoundResult, error) {
	var (
		result    *RoundResult
		strategy  string
		hasBye    bool
		standings []models.Standing
	)
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		engine := entry.engine
		if engine.Header().Completed() {
			return ErrTournamentCompleted
		}
		previous := engine.CurrentRound()
		if previous > 0 && len(engine.MatchesByRound(previous)) > 0 && !engine.IsRoundComplete(previous) {
			return fmt.Errorf("%w: round %d", ErrRoundIncomplete, previous)
		}

		strategy = engine.StrategyName()
		matches := engine.GenerateRound()
		if engine.CurrentRound() == previous {
			return emptyRoundError(engine)
		}

		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if err := s.matchRepo.CreateBatch(ctx, tx, tournamentID, matches); err != nil {
				return err
			}
			return s.tournamentRepo.UpdateRound(ctx, tx, tournamentID, engine.CurrentRound())
		})
		if err != nil {
			entry.engine = nil
			return fmt.Errorf("failed to save round %d: %w", engine.CurrentRound(), mapRepositoryError(err))
		}

		result = &RoundResult{Round: engine.CurrentRound(), Matches: matchViews(engine, matches)}
		for _, m := range matches {
			hasBye = hasBye || m.IsBye
		}
		if hasBye {
			standings = models.NewStandings(engine.Stats())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round generated",
		slog.Int("tournament_id", tournamentID), slog.Int("round", result.Round),
		slog.String("strategy", strategy), slog.Int("matches", len(result.Matches)))
	s.broadcast(tournamentID, brackets.EventRoundGenerated, result)
	if hasBye {
		s.broadcast(tournamentID, brackets.EventStandingsUpdated, standings)
	}
	return result, nil
}

// emptyRoundError explains why the engine produced no round.
func emptyRoundError(engine *brackets.Tournament) error {
	if engine.Type() == models.TypeQuadrette {
		if len(engine.Teams()) != brackets.QuadretteTeams {
			return fmt.Errorf("%w: have %d", ErrQuadretteTeamCount, len(engine.Teams()))
		}
		return ErrScheduleExhausted
	}
	return ErrNotEnoughTeams
}

func (s *tournamentService) RecordScore(ctx context.Context, tournamentID, matchID int, input RecordScoreInput) (*MatchView, error) {
	if err := s.validateScore(input); err != nil {
		return nil, err
	}

	var (
		view      MatchView
		standings []models.Standing
	)
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		engine := entry.engine
		header := engine.Header()
		if header.Completed() {
			return ErrTournamentCompleted
		}
		if input.Terrain != nil && (*input.Terrain < 1 || *input.Terrain > header.TerrainCount) {
			return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidTerrain, header.TerrainCount)
		}
		m, ok := engine.Match(matchID)
		if !ok {
			return ErrMatchNotFound
		}
		if m.IsBye {
			return ErrByeMatchImmutable
		}

		engine.RecordScore(matchID, *input.Score1, *input.Score2, input.Terrain)
		if err := s.matchRepo.UpdateScore(ctx, tournamentID, m); err != nil {
			entry.engine = nil
			return fmt.Errorf("failed to save score for match %d: %w", matchID, mapRepositoryError(err))
		}
		view = newMatchView(engine, m)
		standings = models.NewStandings(engine.Stats())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, brackets.EventMatchUpdated, view)
	s.broadcast(tournamentID, brackets.EventStandingsUpdated, standings)
	return &view, nil
}

func (s *tournamentService) validateScore(input RecordScoreInput) error {
	if input.Score1 == nil || input.Score2 == nil {
		return ErrScoreRequired
	}
	for _, score := range []int{*input.Score1, *input.Score2} {
		if score < 0 || score > s.cfg.MaxScore {
			return fmt.Errorf("%w: %d is not between 0 and %d", ErrInvalidScore, score, s.cfg.MaxScore)
		}
	}
	if *input.Score1 == *input.Score2 && !s.cfg.LegacyTieScoring {
		return ErrEqualScores
	}
	return nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int, round *int) ([]MatchView, error) {
	var views []MatchView
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		var matches []*models.Match
		if round != nil {
			matches = entry.engine.MatchesByRound(*round)
		} else {
			matches = entry.engine.Matches()
		}
		views = matchViews(entry.engine, matches)
		return nil
	})
	return views, err
}

func (s *tournamentService) RoundStatus(ctx context.Context, tournamentID, round int) (*RoundStatus, error) {
	var status RoundStatus
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		status = RoundStatus{Round: round, Complete: entry.engine.IsRoundComplete(round)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	var standings []models.Standing
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		standings = models.NewStandings(entry.engine.Stats())
		return nil
	})
	return standings, err
}

// StandingsSnapshot reads the header and the ranking under one lock.
func (s *tournamentService) StandingsSnapshot(ctx context.Context, tournamentID int) (*StandingsSnapshot, error) {
	var snapshot StandingsSnapshot
	err := s.withEngine(ctx, tournamentID, func(entry *tournamentEntry) error {
		snapshot = StandingsSnapshot{
			Tournament: entry.engine.Header(),
			Standings:  models.NewStandings(entry.engine.Stats()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// --- engine cache ---

func (s *tournamentService) entry(id int) *tournamentEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		entry = &tournamentEntry{}
		s.entries[id] = entry
	}
	return entry
}

func (s *tournamentService) withEngine(ctx context.Context, id int, fn func(entry *tournamentEntry) error) error {
	entry := s.entry(id)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.engine == nil {
		engine, err := s.load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrTournamentNotFound) {
				s.mu.Lock()
				if s.entries[id] == entry {
					delete(s.entries, id)
				}
				s.mu.Unlock()
			}
			return err
		}
		entry.engine = engine
	}
	return fn(entry)
}

// load rebuilds the engine of a stored tournament; teams and matches are
// fetched in parallel.
func (s *tournamentService) load(ctx context.Context, id int) (*brackets.Tournament, error) {
	header, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	var (
		teams   []*models.Team
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, id, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}

	s.logger.DebugContext(ctx, "tournament loaded",
		slog.Int("tournament_id", id), slog.Int("teams", len(teams)), slog.Int("matches", len(matches)))
	return s.newEngine(*header, teams, matches), nil
}

func (s *tournamentService) newEngine(header models.Tournament, teams []*models.Team, matches []*models.Match) *brackets.Tournament {
	opts := brackets.Options{LegacyTieScoring: s.cfg.LegacyTieScoring, Now: s.cfg.Now}
	return brackets.Restore(header, teams, matches, s.cfg.NewSource(), opts)
}

func (s *tournamentService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr), slog.Any("original_error", err))
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

func (s *tournamentService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	room := brackets.RoomForTournament(tournamentID)
	s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}

// --- helpers ---

func validatePlayers(typ models.TournamentType, players []string) ([]string, error) {
	names := make([]string, 0, len(players))
	for _, p := range players {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, ErrPlayerNameEmpty
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidPlayerCount)
	}
	if want := typ.PlayersPerTeam(); want > 0 && len(names) != want {
		return nil, fmt.Errorf("%w: %s needs %d, got %d", ErrInvalidPlayerCount, typ, want, len(names))
	}
	return names, nil
}

func isRegistered(engine *brackets.Tournament, teamID int) bool {
	for _, team := range engine.Teams() {
		if team.ID == teamID {
			return true
		}
	}
	return false
}

func newMatchView(engine *brackets.Tournament, m *models.Match) MatchView {
	view := MatchView{Match: *m}
	if team, ok := engine.Team(m.Team1ID); ok {
		view.Team1 = newTeamView(team)
	}
	if team, ok := engine.Team(m.Team2ID); ok {
		view.Team2 = newTeamView(team)
	}
	if id, ok := m.WinnerID(); ok {
		view.Winner = &id
	}
	if id, ok := m.LoserID(); ok {
		view.Loser = &id
	}
	return view
}

func matchViews(engine *brackets.Tournament, matches []*models.Match) []MatchView {
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, newMatchView(engine, m))
	}
	return out
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	default:
		return err
	}
}
