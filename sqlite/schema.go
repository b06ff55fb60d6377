package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultBusyTimeout is applied to connections opened with Open.
const DefaultBusyTimeout = 5 * time.Second

// Open opens the SQLite database at path.
// The caller owns the returned *sql.DB and must close it.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	// Validate path to prevent URI parameter injection
	if strings.ContainsAny(path, "?#") {
		return nil, errors.New("sqlite: path cannot contain '?' or '#' characters")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_time_format=sqlite", path, DefaultBusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}

	return db, nil
}

// InitSchema creates the messages table if it doesn't exist.
// It is meant for development and tests; it is not a migration system.
func InitSchema(ctx context.Context, db *sql.DB, tableName string) error {
	if tableName == "" {
		return errors.New("sqlite: table name must not be empty")
	}

	table := quoteIdentifier(tableName)
	statement := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			global_position INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			stream_name TEXT NOT NULL,
			type TEXT NOT NULL,
			position INTEGER NOT NULL,
			data TEXT,
			metadata TEXT,
			time DATETIME NOT NULL,
			UNIQUE (stream_name, position)
		)`, table)

	if _, err := db.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("sqlite: create schema: %w", err)
	}

	return nil
}
