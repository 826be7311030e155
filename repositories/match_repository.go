package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/petanque-manager/models"
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, tournamentID int, matches []*models.Match) error
	ListByTournament(ctx context.Context, tournamentID int, round *int) ([]*models.Match, error)
	UpdateScore(ctx context.Context, tournamentID int, match *models.Match) error
}

type sqlMatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) MatchRepository {
	return &sqlMatchRepository{db: db}
}

func (r *sqlMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, round_number, team1_id, team2_id, score1, score2, terrain, completed, is_bye, created_at, completed_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m                      models.Match
		score1, score2, ground sql.NullInt64
		completedAt            sql.NullTime
	)
	err := row.Scan(&m.ID, &m.Round, &m.Team1ID, &m.Team2ID, &score1, &score2, &ground,
		&m.Completed, &m.IsBye, &m.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	m.Score1 = nullIntPtr(score1)
	m.Score2 = nullIntPtr(score2)
	m.Terrain = nullIntPtr(ground)
	if completedAt.Valid {
		at := completedAt.Time
		m.CompletedAt = &at
	}
	return &m, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func (r *sqlMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, tournamentID int, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, id, round_number, team1_id, team2_id, score1, score2, terrain, completed, is_bye, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for _, m := range matches {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		_, err := executor.ExecContext(ctx, query,
			tournamentID, m.ID, m.Round, m.Team1ID, m.Team2ID,
			m.Score1, m.Score2, m.Terrain, m.Completed, m.IsBye, m.CreatedAt, m.CompletedAt,
		)
		if err != nil {
			return handleConstraintError(err)
		}
	}
	return nil
}

func (r *sqlMatchRepository) ListByTournament(ctx context.Context, tournamentID int, roundFilter *int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round_number = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *roundFilter)
	}
	queryBuilder.WriteString(" ORDER BY round_number ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *sqlMatchRepository) UpdateScore(ctx context.Context, tournamentID int, m *models.Match) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, terrain = $3, completed = $4, completed_at = $5
		WHERE tournament_id = $6 AND id = $7`

	result, err := r.db.ExecContext(ctx, query,
		m.Score1, m.Score2, m.Terrain, m.Completed, m.CompletedAt, tournamentID, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
