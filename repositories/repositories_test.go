package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Dosada05/petanque-manager/db"
	"github.com/Dosada05/petanque-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := db.Connect(db.DriverSQLite, ":memory:", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(context.Background(), sqlDB, db.DriverSQLite))
	return sqlDB
}

func createTournament(t *testing.T, repo TournamentRepository, name string, typ models.TournamentType) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{Name: name, Type: typ, TerrainCount: 4}
	require.NoError(t, repo.Create(context.Background(), tournament))
	require.NotZero(t, tournament.ID)
	return tournament
}

func intPtr(v int) *int { return &v }

func TestMigrateIsIdempotent(t *testing.T) {
	sqlDB := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background(), sqlDB, db.DriverSQLite))
}

func TestTournamentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTournamentRepository(newTestDB(t))

	first := createTournament(t, repo, "Open du Var", models.TypeDoublette)
	second := createTournament(t, repo, "Mêlée du dimanche", models.TypeMelee)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Open du Var", got.Name)
	assert.Equal(t, models.TypeDoublette, got.Type)
	assert.Equal(t, 0, got.CurrentRound)
	assert.Nil(t, got.CompletedAt)

	t.Run("list newest first", func(t *testing.T) {
		list, err := repo.List(ctx, ListTournamentsFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
	})

	t.Run("list by type", func(t *testing.T) {
		typ := models.TypeMelee
		list, err := repo.List(ctx, ListTournamentsFilter{Type: &typ, Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, second.ID, list[0].ID)
	})

	t.Run("update round and complete", func(t *testing.T) {
		require.NoError(t, repo.UpdateRound(ctx, nil, first.ID, 3))
		at := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MarkCompleted(ctx, first.ID, at))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.CurrentRound)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, at.Equal(*got.CompletedAt))
	})

	t.Run("missing tournament", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
		assert.ErrorIs(t, repo.UpdateRound(ctx, nil, 999, 1), ErrTournamentNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, 999), ErrTournamentNotFound)
	})
}

func TestTournamentRepository_RejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	sqlDB := newTestDB(t)
	repo := NewTournamentRepository(sqlDB)
	tournament := createTournament(t, repo, "Concours", models.TypeTriplette)

	_, err := sqlDB.ExecContext(ctx, `UPDATE tournaments SET type = 'boules' WHERE id = $1`, tournament.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, tournament.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestTeamRepository(t *testing.T) {
	ctx := context.Background()
	sqlDB := newTestDB(t)
	tournaments := NewTournamentRepository(sqlDB)
	teams := NewTeamRepository(sqlDB)
	tournament := createTournament(t, tournaments, "Doublette", models.TypeDoublette)

	alpha := &models.Team{ID: 1, Number: 1, Players: []models.Player{{ID: 1, Name: "Marius"}, {ID: 2, Name: "Fanny"}}}
	beta := &models.Team{ID: 2, Number: 2, Players: []models.Player{{ID: 1, Name: "César"}, {ID: 2, Name: "Panisse"}}}
	require.NoError(t, teams.Create(ctx, nil, tournament.ID, alpha))
	require.NoError(t, teams.Create(ctx, nil, tournament.ID, beta))

	list, err := teams.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, "Marius, Fanny", list[0].PlayerNames())
	assert.Equal(t, "César, Panisse", list[1].PlayerNames())

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := teams.Create(ctx, nil, tournament.ID, &models.Team{ID: 1, Number: 3})
		assert.Error(t, err)
	})

	t.Run("delete and renumber", func(t *testing.T) {
		require.NoError(t, teams.Delete(ctx, nil, tournament.ID, alpha.ID))
		beta.Number = 1
		require.NoError(t, teams.UpdateNumbers(ctx, nil, tournament.ID, []*models.Team{beta}))

		list, err := teams.ListByTournament(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 2, list[0].ID)
		assert.Equal(t, 1, list[0].Number)
		assert.Len(t, list[0].Players, 2)

		assert.ErrorIs(t, teams.Delete(ctx, nil, tournament.ID, alpha.ID), ErrTeamNotFound)
	})

	t.Run("deleting the tournament removes its teams", func(t *testing.T) {
		require.NoError(t, tournaments.Delete(ctx, tournament.ID))
		list, err := teams.ListByTournament(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMatchRepository(t *testing.T) {
	ctx := context.Background()
	sqlDB := newTestDB(t)
	tournament := createTournament(t, NewTournamentRepository(sqlDB), "Tête-à-tête", models.TypeHeadToHead)
	matches := NewMatchRepository(sqlDB)

	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	bye := &models.Match{
		ID: 2, Round: 1, Team1ID: 3, Team2ID: models.ByeTeamID,
		Score1: intPtr(13), Score2: intPtr(7), Completed: true, IsBye: true,
		CreatedAt: created, CompletedAt: &created,
	}
	open := &models.Match{ID: 1, Round: 1, Team1ID: 1, Team2ID: 2, CreatedAt: created}
	later := &models.Match{ID: 3, Round: 2, Team1ID: 1, Team2ID: 3, CreatedAt: created}

	tx, err := sqlDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, matches.CreateBatch(ctx, tx, tournament.ID, []*models.Match{open, bye, later}))
	require.NoError(t, tx.Commit())

	all, err := matches.ListByTournament(ctx, tournament.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})

	assert.Nil(t, all[0].Score1)
	assert.False(t, all[0].Completed)
	assert.True(t, all[1].IsBye)
	require.NotNil(t, all[1].Score1)
	assert.Equal(t, 13, *all[1].Score1)

	round2 := 2
	filtered, err := matches.ListByTournament(ctx, tournament.ID, &round2)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 3, filtered[0].ID)

	t.Run("update score", func(t *testing.T) {
		done := created.Add(time.Hour)
		open.Score1, open.Score2, open.Terrain = intPtr(13), intPtr(11), intPtr(2)
		open.Completed = true
		open.CompletedAt = &done
		require.NoError(t, matches.UpdateScore(ctx, tournament.ID, open))

		round1 := 1
		stored, err := matches.ListByTournament(ctx, tournament.ID, &round1)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		got := stored[0]
		assert.Equal(t, open.ID, got.ID)
		assert.True(t, got.Completed)
		assert.Equal(t, 11, *got.Score2)
		assert.Equal(t, 2, *got.Terrain)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, done.Equal(*got.CompletedAt))
	})

	t.Run("unknown match", func(t *testing.T) {
		assert.ErrorIs(t, matches.UpdateScore(ctx, tournament.ID, &models.Match{ID: 42}), ErrMatchNotFound)
	})
}
