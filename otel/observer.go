// Package otel implements eventsource.Observer with OpenTelemetry tracing and metrics.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

const (
	instrumentationName = "github.com/shogotsuneto/go-simple-eventsource"
)

// Observer records a span per fetched batch and counts fetched and delivered events.
type Observer struct {
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	fetchCounter    metric.Int64Counter
	fetchedEvents   metric.Int64Counter
	fetchDuration   metric.Float64Histogram
	fetchErrors     metric.Int64Counter
	deliveredEvents metric.Int64Counter
	readErrors      metric.Int64Counter
}

// Option configures the Observer
type Option func(*Observer)

// WithTracerProvider sets a custom tracer provider
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Observer) {
		o.tracer = provider.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets a custom meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *Observer) {
		o.meter = provider.Meter(instrumentationName)
	}
}

// New creates an Observer using the global providers unless overridden.
func New(opts ...Option) (*Observer, error) {
	obs := &Observer{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	for _, opt := range opts {
		opt(obs)
	}

	var err error

	obs.fetchCounter, err = obs.meter.Int64Counter(
		"eventsource.fetch.count",
		metric.WithDescription("Number of batch fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	obs.fetchedEvents, err = obs.meter.Int64Counter(
		"eventsource.fetch.events",
		metric.WithDescription("Number of events fetched"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	obs.fetchDuration, err = obs.meter.Float64Histogram(
		"eventsource.fetch.duration",
		metric.WithDescription("Batch fetch duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	obs.fetchErrors, err = obs.meter.Int64Counter(
		"eventsource.fetch.errors",
		metric.WithDescription("Number of failed batch fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	obs.deliveredEvents, err = obs.meter.Int64Counter(
		"eventsource.read.delivered",
		metric.WithDescription("Number of events delivered by stream reads"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	obs.readErrors, err = obs.meter.Int64Counter(
		"eventsource.read.errors",
		metric.WithDescription("Number of failed stream reads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return obs, nil
}

// OnFetchStart starts a span for the fetch of one batch.
func (o *Observer) OnFetchStart(ctx context.Context, streamName string, position int64, batchSize int) context.Context {
	ctx, _ = o.tracer.Start(ctx, "eventsource.get: "+streamName,
		trace.WithAttributes(
			attribute.String("stream.name", streamName),
			attribute.Int64("position", position),
			attribute.Int("batch_size", batchSize),
		),
	)

	o.fetchCounter.Add(ctx, 1)

	return ctx
}

// OnFetchComplete ends the fetch span and records the batch metrics.
func (o *Observer) OnFetchComplete(ctx context.Context, count int, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("count", count))

	o.fetchDuration.Record(ctx, float64(duration.Milliseconds()))
	o.fetchedEvents.Add(ctx, int64(count))

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		o.fetchErrors.Add(ctx, 1)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// OnReadComplete records how many events a stream read delivered.
func (o *Observer) OnReadComplete(ctx context.Context, streamName string, delivered int, err error) {
	attrs := metric.WithAttributes(attribute.String("stream.name", streamName))

	o.deliveredEvents.Add(ctx, int64(delivered), attrs)
	if err != nil {
		o.readErrors.Add(ctx, 1, attrs)
	}
}

// Ensure Observer implements eventsource.Observer
var _ eventsource.Observer = (*Observer)(nil)
