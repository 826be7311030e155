package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens a pooled handle for driver and pings it within timeout. For
// SQLite the DSN is a file path (or ":memory:").
func Connect(driver, dsn string, timeout time.Duration) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	if driver == DriverSQLite {
		// Один писатель: SQLite не любит параллельные записи.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

func sqliteDSN(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "sqlite://")
	if strings.Contains(path, "?") {
		return path
	}
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path != ":memory:" {
		params += "&_pragma=journal_mode(WAL)"
	}
	return path + "?" + params
}
