package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DefaultTableName is the messages table read when none is configured.
const DefaultTableName = "messages"

// Config holds the connection settings for a PostgreSQL backend.
type Config struct {
	// ConnectionString is a lib/pq connection string or URL
	ConnectionString string
	// TableName is the messages table to read from
	TableName string
}

// Open opens and pings a database connection for config.
// The caller owns the returned *sql.DB and must close it.
func Open(config Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
