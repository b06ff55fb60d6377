package eventsource

// QuerySpec is a backend-agnostic description of a range query:
// up to Limit records of StreamName with position >= Position, ascending by position.
type QuerySpec struct {
	StreamName string
	Position   int64
	Limit      int
}

// BuildQuery returns the QuerySpec for fetching up to batchSize records of streamName
// at or after position. Defaults for an unspecified position or batch size are
// resolved by the caller (see WithBatchSize and DefaultBatchSize).
func BuildQuery(streamName string, position int64, batchSize int) (QuerySpec, error) {
	spec := QuerySpec{
		StreamName: streamName,
		Position:   position,
		Limit:      batchSize,
	}
	if err := spec.Validate(); err != nil {
		return QuerySpec{}, err
	}
	return spec, nil
}

// Validate checks the invariants of a QuerySpec.
func (q QuerySpec) Validate() error {
	if q.StreamName == "" {
		return invalidArgument("stream name must not be empty")
	}
	if q.Position < 0 {
		return invalidArgument("position must not be negative, got %d", q.Position)
	}
	if q.Limit <= 0 {
		return invalidArgument("batch size must be positive, got %d", q.Limit)
	}
	return nil
}
