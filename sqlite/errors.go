package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

// classifyError maps a driver error onto the eventsource error taxonomy.
// Context errors are returned unchanged.
func classifyError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: sqlite: %s: %w", eventsource.ErrBackendUnavailable, op, err)
	}
	return fmt.Errorf("%w: sqlite: %s: %w", eventsource.ErrQuery, op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql does not export its closed-database error
	if strings.Contains(err.Error(), "sql: database is closed") {
		return true
	}

	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	return false
}
