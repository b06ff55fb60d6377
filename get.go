package eventsource

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Get fetches one bounded, ordered batch of events per call.
// It borrows its session and never opens or closes it.
type Get struct {
	session   Session
	batchSize int
	logger    *zap.Logger
	observer  Observer
}

// NewGet creates a batch reader over session.
func NewGet(session Session, opts ...Option) (*Get, error) {
	if session == nil {
		return nil, invalidArgument("session must not be nil")
	}

	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Get{
		session:   session,
		batchSize: o.batchSize,
		logger:    o.logger,
		observer:  o.observer,
	}, nil
}

// GetBatch is a one-shot helper building a Get and fetching a single batch.
func GetBatch(ctx context.Context, session Session, streamName string, position int64, opts ...Option) ([]Event, error) {
	get, err := NewGet(session, opts...)
	if err != nil {
		return nil, err
	}
	return get.Get(ctx, streamName, position)
}

// BatchSize returns the configured number of records per round trip.
func (g *Get) BatchSize() int {
	return g.batchSize
}

// Get returns up to BatchSize events of streamName at or after position,
// ordered by ascending position. It performs exactly one round trip.
func (g *Get) Get(ctx context.Context, streamName string, position int64) ([]Event, error) {
	g.logger.Debug("getting event data",
		zap.String("stream_name", streamName),
		zap.Int64("position", position),
		zap.Int("batch_size", g.batchSize))

	spec, err := BuildQuery(streamName, position, g.batchSize)
	if err != nil {
		return nil, err
	}

	if g.observer != nil {
		ctx = g.observer.OnFetchStart(ctx, streamName, position, g.batchSize)
	}
	start := time.Now()

	events, err := g.fetchAndConvert(ctx, spec)

	if g.observer != nil {
		g.observer.OnFetchComplete(ctx, len(events), time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Info("finished getting event data",
		zap.String("stream_name", streamName),
		zap.Int64("position", position),
		zap.Int("batch_size", g.batchSize),
		zap.Int("count", len(events)))

	if g.logger.Core().Enabled(zap.DebugLevel) {
		for _, event := range events {
			g.logger.Debug("event data",
				zap.String("stream_name", event.StreamName),
				zap.Int64("position", event.Position),
				zap.String("type", event.Type),
				zap.Any("data", event.Data),
				zap.Any("metadata", event.Metadata))
		}
	}

	return events, nil
}

func (g *Get) fetchAndConvert(ctx context.Context, spec QuerySpec) ([]Event, error) {
	records, err := Fetch(ctx, g.session, spec)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("finished getting records",
		zap.String("stream_name", spec.StreamName),
		zap.Int64("position", spec.Position),
		zap.Int("count", records.Count))

	return convertAll(records.Records)
}
