package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/lib/pq"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

// classifyError maps a driver error onto the eventsource error taxonomy.
// Context errors are returned unchanged.
func classifyError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %s: %w", eventsource.ErrBackendUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", eventsource.ErrQuery, op, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql does not export its closed-database error
	if strings.Contains(err.Error(), "sql: database is closed") {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		// connection_exception, operator_intervention, system_error
		case "08", "57", "58":
			return true
		}
	}

	return false
}
