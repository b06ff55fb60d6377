package eventsource

import (
	"context"
	"iter"

	"go.uber.org/zap"
)

// Handler receives one event per call in ascending position order.
// Returning false stops the read; no further fetch or callback happens.
type Handler func(event Event) bool

// State is the lifecycle state of a single stream read.
type State int

// Read states
const (
	StateIdle State = iota
	StateFetching
	StateDelivering
	StateDone
	StateCancelled
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateDelivering:
		return "delivering"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reader delivers every event of a stream at or after a starting position,
// fetching it in batches until a batch comes back short.
type Reader struct {
	get      *Get
	logger   *zap.Logger
	observer Observer
}

// NewReader creates a stream reader over session.
func NewReader(session Session, opts ...Option) (*Reader, error) {
	get, err := NewGet(session, opts...)
	if err != nil {
		return nil, err
	}

	return &Reader{
		get:      get,
		logger:   get.logger,
		observer: get.observer,
	}, nil
}

// Read is a one-shot helper building a Reader and reading streamName from position.
func Read(ctx context.Context, session Session, streamName string, position int64, handler Handler, opts ...Option) (int, error) {
	reader, err := NewReader(session, opts...)
	if err != nil {
		return 0, err
	}
	return reader.Read(ctx, streamName, position, handler)
}

// Read delivers the events of streamName at or after position to handler and
// returns how many were delivered. On failure the count of events delivered
// before the failure is returned together with the error.
//
// Each batch reflects the backend state at the moment of its own fetch; two
// reads of the same stream are not guaranteed to observe the same snapshot.
func (r *Reader) Read(ctx context.Context, streamName string, position int64, handler Handler) (delivered int, err error) {
	if handler == nil {
		return 0, invalidArgument("handler must not be nil")
	}
	if _, err := BuildQuery(streamName, position, r.get.batchSize); err != nil {
		return 0, err
	}

	state := StateIdle
	batches := 0

	defer func() {
		switch state {
		case StateDone:
			r.logger.Debug("read complete",
				zap.String("stream_name", streamName),
				zap.Int("delivered", delivered),
				zap.Int("batches", batches))
		case StateCancelled:
			r.logger.Debug("read cancelled",
				zap.String("stream_name", streamName),
				zap.Int("delivered", delivered),
				zap.Int("batches", batches),
				zap.Error(err))
		case StateFailed:
			r.logger.Warn("read failed",
				zap.String("stream_name", streamName),
				zap.Int("delivered", delivered),
				zap.Int("batches", batches),
				zap.Error(err))
		}
		if r.observer != nil {
			r.observer.OnReadComplete(ctx, streamName, delivered, err)
		}
	}()

	r.logger.Debug("reading stream",
		zap.String("stream_name", streamName),
		zap.Int64("position", position),
		zap.Int("batch_size", r.get.batchSize))

	cursor := position
	for {
		if err := ctx.Err(); err != nil {
			state = StateCancelled
			return delivered, err
		}

		state = StateFetching
		events, err := r.get.Get(ctx, streamName, cursor)
		if err != nil {
			state = StateFailed
			return delivered, err
		}
		batches++

		state = StateDelivering
		for _, event := range events {
			if err := ctx.Err(); err != nil {
				state = StateCancelled
				return delivered, err
			}
			delivered++
			if !handler(event) {
				state = StateCancelled
				return delivered, nil
			}
		}

		if len(events) < r.get.batchSize {
			state = StateDone
			return delivered, nil
		}

		cursor = events[len(events)-1].Position + 1
	}
}

// Events returns a lazy sequence over the events of streamName at or after
// position. Breaking out of the range loop stops the read. A failure is
// yielded once as the final pair with a zero Event.
func (r *Reader) Events(ctx context.Context, streamName string, position int64) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		stopped := false
		_, err := r.Read(ctx, streamName, position, func(event Event) bool {
			if !yield(event, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Event{}, err)
		}
	}
}
