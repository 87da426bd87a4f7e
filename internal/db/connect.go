package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:paperforge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/paperforge?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Identical DDL works on SQLite and Postgres for this table.
const schema = `
CREATE TABLE IF NOT EXISTS papers (
  id TEXT PRIMARY KEY,
  class TEXT NOT NULL,
  created_at TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  school_id TEXT NOT NULL DEFAULT '',
  school_name TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  subject TEXT NOT NULL,
  total_duration TEXT NOT NULL DEFAULT '',
  total_marks INTEGER NOT NULL DEFAULT 0,
  questions_json TEXT NOT NULL,
  sections_json TEXT NOT NULL
);
`
