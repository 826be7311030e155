package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/petanque-manager/models"
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournamentID int, team *models.Team) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	Delete(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error
	UpdateNumbers(ctx context.Context, exec SQLExecutor, tournamentID int, teams []*models.Team) error
}

type sqlTeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) TeamRepository {
	return &sqlTeamRepository{db: db}
}

func (r *sqlTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create stores the team with its engine-assigned id and its players in roster order.
func (r *sqlTeamRepository) Create(ctx context.Context, exec SQLExecutor, tournamentID int, team *models.Team) error {
	executor := r.getExecutor(exec)
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	_, err := executor.ExecContext(ctx,
		`INSERT INTO teams (tournament_id, id, number, created_at) VALUES ($1, $2, $3, $4)`,
		tournamentID, team.ID, team.Number, team.CreatedAt)
	if err != nil {
		return handleConstraintError(err)
	}

	for _, p := range team.Players {
		_, err = executor.ExecContext(ctx,
			`INSERT INTO players (tournament_id, team_id, position, name) VALUES ($1, $2, $3, $4)`,
			tournamentID, team.ID, p.ID, p.Name)
		if err != nil {
			return handleConstraintError(err)
		}
	}
	return nil
}

func (r *sqlTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `
		SELECT t.id, t.number, t.created_at, p.position, p.name
		FROM teams t
		LEFT JOIN players p ON p.tournament_id = t.tournament_id AND p.team_id = t.id
		WHERE t.tournament_id = $1
		ORDER BY t.number ASC, p.position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	var current *models.Team
	for rows.Next() {
		var (
			id, number int
			createdAt  time.Time
			position   sql.NullInt64
			name       sql.NullString
		)
		if err := rows.Scan(&id, &number, &createdAt, &position, &name); err != nil {
			return nil, err
		}
		if current == nil || current.ID != id {
			current = &models.Team{ID: id, Number: number, CreatedAt: createdAt}
			teams = append(teams, current)
		}
		if position.Valid {
			current.Players = append(current.Players, models.Player{ID: int(position.Int64), Name: name.String})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *sqlTeamRepository) Delete(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error {
	executor := r.getExecutor(exec)
	// Игроков удаляем явно: каскад в SQLite зависит от PRAGMA foreign_keys.
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM players WHERE tournament_id = $1 AND team_id = $2`, tournamentID, teamID); err != nil {
		return err
	}
	result, err := executor.ExecContext(ctx,
		`DELETE FROM teams WHERE tournament_id = $1 AND id = $2`, tournamentID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *sqlTeamRepository) UpdateNumbers(ctx context.Context, exec SQLExecutor, tournamentID int, teams []*models.Team) error {
	executor := r.getExecutor(exec)
	for _, team := range teams {
		result, err := executor.ExecContext(ctx,
			`UPDATE teams SET number = $1 WHERE tournament_id = $2 AND id = $3`,
			team.Number, tournamentID, team.ID)
		if err != nil {
			return err
		}
		if err := checkAffectedRows(result, ErrTeamNotFound); err != nil {
			return err
		}
	}
	return nil
}
