// Package eventsource provides the read path of an event-sourced storage client.
// It retrieves ordered event records for a named stream from a relational backend,
// deserializes their JSON payloads and delivers them either as a single bounded batch
// or as a continuous, position-resumable sequence spanning many batches.
package eventsource

import (
	"context"
	"time"
)

// DefaultBatchSize is the number of records fetched per round trip when no batch size is configured.
const DefaultBatchSize = 1000

// RawRecord is a row as returned by the backend, before deserialization.
type RawRecord struct {
	// ID is the unique identifier of the record
	ID string
	// StreamName names the stream the record belongs to
	StreamName string
	// Type describes the kind of event
	Type string
	// Position is the zero-based index of the record within its stream
	Position int64
	// GlobalPosition is the position of the record across all streams
	GlobalPosition int64
	// Data is the serialized JSON payload, nil when none was recorded
	Data []byte
	// Metadata is the serialized JSON metadata, nil when none was recorded
	Metadata []byte
	// Time is the commit time in whatever zone the backend returned
	Time time.Time
}

// RecordSet is the result of executing a QuerySpec.
type RecordSet struct {
	Records []RawRecord
	Count   int
}

// Event is the deserialized, typed representation of one stored record.
// Events are values; once delivered they are not mutated by this package.
type Event struct {
	ID             string
	StreamName     string
	Type           string
	Position       int64
	GlobalPosition int64
	// Data is nil when the stored payload was null, which is distinct from an empty object.
	Data map[string]any
	// Metadata is nil when the stored metadata was null, which is distinct from an empty object.
	Metadata map[string]any
	// Time is always in UTC.
	Time time.Time
}

// Session executes range queries against a backend.
// Implementations own SQL generation, connection handling and any retry policy.
type Session interface {
	// Execute returns the records matching spec, ordered by ascending position.
	// Connectivity failures must match ErrBackendUnavailable and rejected
	// statements must match ErrQuery.
	Execute(ctx context.Context, spec QuerySpec) (RecordSet, error)
}

// SessionFunc adapts a function to the Session interface.
type SessionFunc func(ctx context.Context, spec QuerySpec) (RecordSet, error)

// Execute calls f(ctx, spec).
func (f SessionFunc) Execute(ctx context.Context, spec QuerySpec) (RecordSet, error) {
	return f(ctx, spec)
}
