package eventsource

import (
	"context"
	"fmt"
)

// Fetch executes spec against session and returns the raw rows.
// Session errors are returned unchanged; nothing is retried here.
func Fetch(ctx context.Context, session Session, spec QuerySpec) (RecordSet, error) {
	if err := spec.Validate(); err != nil {
		return RecordSet{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	records, err := session.Execute(ctx, spec)
	if err != nil {
		return RecordSet{}, err
	}

	// Sessions may leave Count unset
	records.Count = len(records.Records)

	if err := checkRange(spec, records.Records); err != nil {
		return RecordSet{}, err
	}

	return records, nil
}

// checkRange verifies that records honor spec: at most Limit rows of the
// requested stream, strictly ascending, none below the requested position.
func checkRange(spec QuerySpec, records []RawRecord) error {
	if len(records) > spec.Limit {
		return fmt.Errorf("%w: session returned %d records for a limit of %d", ErrQuery, len(records), spec.Limit)
	}

	previous := spec.Position - 1
	for _, record := range records {
		if record.StreamName != "" && record.StreamName != spec.StreamName {
			return fmt.Errorf("%w: session returned a record of stream '%s' for stream '%s'", ErrQuery, record.StreamName, spec.StreamName)
		}
		if record.Position <= previous {
			return fmt.Errorf("%w: session returned position %d after %d for stream '%s'", ErrQuery, record.Position, previous, spec.StreamName)
		}
		previous = record.Position
	}
	return nil
}
