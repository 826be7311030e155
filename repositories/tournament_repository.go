package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/petanque-manager/models"
)

type ListTournamentsFilter struct {
	Type   *models.TournamentType
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateRound(ctx context.Context, exec SQLExecutor, id int, round int) error
	MarkCompleted(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
}

type sqlTournamentRepository struct {
	db *sql.DB
}

func NewTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db}
}

func (r *sqlTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, type, terrain_count, current_round, created_at, completed_at`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	var completedAt sql.NullTime
	if err := row.Scan(&t.ID, &t.Name, &t.Type, &t.TerrainCount, &t.CurrentRound, &t.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	if !t.Type.Valid() {
		return nil, fmt.Errorf("tournament %d has unknown type %q", t.ID, t.Type)
	}
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return &t, nil
}

func (r *sqlTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO tournaments (name, type, terrain_count, current_round, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Type, t.TerrainCount, t.CurrentRound, t.CreatedAt,
	).Scan(&t.ID)
	return handleConstraintError(err)
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *sqlTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argID)
		args = append(args, *filter.Type)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argID)
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) UpdateRound(ctx context.Context, exec SQLExecutor, id int, round int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE tournaments SET current_round = $1 WHERE id = $2`, round, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *sqlTournamentRepository) MarkCompleted(ctx context.Context, id int, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET completed_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete removes the tournament; teams, players and matches cascade.
func (r *sqlTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
