// Package memory provides an in-memory, position-indexed Session.
// It is suitable for testing and demonstration purposes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

// Compile-time interface compliance check
var _ eventsource.Session = (*Store)(nil)

// Store holds streams of raw records in memory.
type Store struct {
	mu             sync.RWMutex
	streams        map[string][]eventsource.RawRecord
	globalPosition int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		streams: make(map[string][]eventsource.RawRecord),
	}
}

// Put appends records to streamName and returns them as stored.
// Positions are assigned contiguously from the end of the stream; missing
// IDs are generated and a zero Time is set to the current time.
func (s *Store) Put(streamName string, records ...eventsource.RawRecord) []eventsource.RawRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamName]
	stored := make([]eventsource.RawRecord, len(records))

	for i, record := range records {
		record.StreamName = streamName
		record.Position = int64(len(stream))
		record.GlobalPosition = s.globalPosition
		s.globalPosition++
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		if record.Time.IsZero() {
			record.Time = time.Now()
		}
		stream = append(stream, record)
		stored[i] = record
	}

	s.streams[streamName] = stream
	return stored
}

// Execute returns up to spec.Limit records of spec.StreamName at or after spec.Position.
func (s *Store) Execute(ctx context.Context, spec eventsource.QuerySpec) (eventsource.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return eventsource.RecordSet{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[spec.StreamName]

	// Positions are contiguous from zero, so a position is its slice index
	var result []eventsource.RawRecord
	if spec.Position < int64(len(stream)) {
		end := min(int64(len(stream)), spec.Position+int64(spec.Limit))
		result = make([]eventsource.RawRecord, end-spec.Position)
		copy(result, stream[spec.Position:end])
	}

	return eventsource.RecordSet{Records: result, Count: len(result)}, nil
}

// Len returns the number of records in streamName.
func (s *Store) Len(streamName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.streams[streamName])
}
