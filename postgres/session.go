package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

// Compile-time interface compliance check
var _ eventsource.Session = (*Session)(nil)

// Session executes range queries against a PostgreSQL messages table.
// The *sql.DB is borrowed: Session never closes it.
type Session struct {
	db        *sql.DB
	tableName string
}

// NewSession creates a session reading from tableName through db.
func NewSession(db *sql.DB, tableName string) (*Session, error) {
	if tableName == "" {
		return nil, errors.New("table name must not be empty")
	}

	return &Session{
		db:        db,
		tableName: tableName,
	}, nil
}

// quoteIdentifier quotes a PostgreSQL identifier, doubling embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// buildSelectQuery renders spec as SQL with $n placeholders.
func (s *Session) buildSelectQuery(spec eventsource.QuerySpec) (string, []any) {
	query := fmt.Sprintf(`
		SELECT id, stream_name, type, position, global_position, data, metadata, "time"
		FROM %s
		WHERE stream_name = $1 AND position >= $2
		ORDER BY position ASC
		LIMIT $3
	`, quoteIdentifier(s.tableName))

	return query, []any{spec.StreamName, spec.Position, spec.Limit}
}

// Execute returns the records matching spec, ordered by ascending position.
func (s *Session) Execute(ctx context.Context, spec eventsource.QuerySpec) (eventsource.RecordSet, error) {
	query, args := s.buildSelectQuery(spec)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return eventsource.RecordSet{}, classifyError("query records", err)
	}
	defer rows.Close()

	var records []eventsource.RawRecord
	for rows.Next() {
		var record eventsource.RawRecord

		err := rows.Scan(
			&record.ID,
			&record.StreamName,
			&record.Type,
			&record.Position,
			&record.GlobalPosition,
			&record.Data,
			&record.Metadata,
			&record.Time,
		)
		if err != nil {
			return eventsource.RecordSet{}, fmt.Errorf("%w: scan record: %w", eventsource.ErrQuery, err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return eventsource.RecordSet{}, classifyError("iterate records", err)
	}

	return eventsource.RecordSet{Records: records, Count: len(records)}, nil
}

// InitSchema creates the messages table and its indexes if they don't exist.
// It is meant for development and tests; it is not a migration system.
func InitSchema(db *sql.DB, tableName string) error {
	if tableName == "" {
		return errors.New("table name must not be empty")
	}

	table := quoteIdentifier(tableName)
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		global_position BIGSERIAL PRIMARY KEY,
		id VARCHAR(255) NOT NULL,
		stream_name VARCHAR(255) NOT NULL,
		type VARCHAR(255) NOT NULL,
		position BIGINT NOT NULL,
		data JSONB,
		metadata JSONB,
		"time" TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s(id);
	CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s(stream_name, position);
	`, table,
		quoteIdentifier("idx_"+tableName+"_id"), table,
		quoteIdentifier("idx_"+tableName+"_stream_position"), table)

	_, err := db.Exec(query)
	return err
}
