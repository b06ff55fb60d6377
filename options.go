package eventsource

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Observer is notified around each fetch and each completed read.
// See the otel package for an OpenTelemetry implementation.
type Observer interface {
	// OnFetchStart is called before a batch is fetched. The returned context
	// is passed to the session and to OnFetchComplete.
	OnFetchStart(ctx context.Context, streamName string, position int64, batchSize int) context.Context
	// OnFetchComplete is called after the batch was fetched and converted.
	OnFetchComplete(ctx context.Context, count int, duration time.Duration, err error)
	// OnReadComplete is called when a stream read reaches a terminal state.
	OnReadComplete(ctx context.Context, streamName string, delivered int, err error)
}

// Option configures a Get or a Reader.
type Option func(*options)

type options struct {
	batchSize    int
	batchSizeSet bool
	logger       *zap.Logger
	observer     Observer
}

func defaultOptions() *options {
	return &options{
		batchSize: DefaultBatchSize,
		logger:    zap.NewNop(),
	}
}

func newOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.batchSizeSet && o.batchSize <= 0 {
		return nil, invalidArgument("batch size must be positive, got %d", o.batchSize)
	}
	return o, nil
}

// WithBatchSize sets the maximum number of records fetched per round trip.
// Default is DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
		o.batchSizeSet = true
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the fetch and read observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}
