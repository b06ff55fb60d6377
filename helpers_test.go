package eventsource_test

import (
	"context"
	"fmt"
	"sync"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
	"github.com/shogotsuneto/go-simple-eventsource/memory"
)

// countingSession records every query executed through it.
type countingSession struct {
	eventsource.Session

	mu    sync.Mutex
	specs []eventsource.QuerySpec
}

func (s *countingSession) Execute(ctx context.Context, spec eventsource.QuerySpec) (eventsource.RecordSet, error) {
	s.mu.Lock()
	s.specs = append(s.specs, spec)
	s.mu.Unlock()

	return s.Session.Execute(ctx, spec)
}

func (s *countingSession) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.specs)
}

// seedStream puts count records with JSON data into streamName.
func seedStream(store *memory.Store, streamName string, count int) {
	for i := 0; i < count; i++ {
		store.Put(streamName, eventsource.RawRecord{
			Type:     "OrderPlaced",
			Data:     []byte(fmt.Sprintf(`{"sequence": %d}`, i)),
			Metadata: []byte(`{"source": "test"}`),
		})
	}
}

func positions(events []eventsource.Event) []int64 {
	result := make([]int64, len(events))
	for i, event := range events {
		result[i] = event.Position
	}
	return result
}
