// Package sqlite provides a Session reading messages from a SQLite database
// through the pure Go modernc.org/sqlite driver.
package sqlite

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

// Session executes range queries against a SQLite messages table.
type Session struct {
	db        *sql.DB
	tableName string
}

// NewSession creates a session reading from tableName through db.
// The *sql.DB is borrowed: Session never closes it.
func NewSession(db *sql.DB, tableName string) (*Session, error) {
	if tableName == "" {
		return nil, errors.New("sqlite: table name must not be empty")
	}

	return &Session{
		db:        db,
		tableName: tableName,
	}, nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// buildSelectQuery renders spec as SQL with ? placeholders.
func (s *Session) buildSelectQuery(spec eventsource.QuerySpec) (string, []any) {
	query := fmt.Sprintf(
		"SELECT id, stream_name, type, position, global_position, data, metadata, time FROM %s WHERE stream_name = ? AND position >= ? ORDER BY position ASC LIMIT ?",
		quoteIdentifier(s.tableName))

	return query, []any{spec.StreamName, spec.Position, spec.Limit}
}

// Execute returns the records matching spec, ordered by ascending position.
func (s *Session) Execute(ctx context.Context, spec eventsource.QuerySpec) (eventsource.RecordSet, error) {
	query, args := s.buildSelectQuery(spec)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return eventsource.RecordSet{}, classifyError("read records", err)
	}

	records, err := scanRecords(rows)
	if err != nil {
		return eventsource.RecordSet{}, err
	}

	return eventsource.RecordSet{Records: records, Count: len(records)}, nil
}

// rowScanner abstracts sql.Rows for testing
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

func scanRecords(rows rowScanner) ([]eventsource.RawRecord, error) {
	defer rows.Close()

	var records []eventsource.RawRecord
	for rows.Next() {
		var record eventsource.RawRecord
		var recordTime timeValue

		err := rows.Scan(
			&record.ID,
			&record.StreamName,
			&record.Type,
			&record.Position,
			&record.GlobalPosition,
			&record.Data,
			&record.Metadata,
			&recordTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: sqlite: scan record: %w", eventsource.ErrQuery, err)
		}

		record.Time = recordTime.Time

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate records", err)
	}

	return records, nil
}
