package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidReference   = errors.New("invalid reference")
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// handleConstraintError maps postgres constraint violations to repository
// errors. Other drivers' errors pass through.
func handleConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Constraint)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
