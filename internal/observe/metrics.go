// Package observe records correction queue and translator metrics through
// the OpenTelemetry metrics API. InitProvider bridges them to a Prometheus
// /metrics handler; tests use NewMetrics with their own MeterProvider.
package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

const meterName = "github.com/at-ishikawa/dialogfix"

// Metrics holds every instrument. It implements queue.Observer.
type Metrics struct {
	// QueueOutcomes counts dequeued items by outcome.
	QueueOutcomes metric.Int64Counter
	// QueueDuration is the time one item spent in the correction processor.
	QueueDuration metric.Float64Histogram
	// QueueDepth is the number of queued items.
	QueueDepth metric.Int64Gauge

	// TranslatorRequests counts translator calls by engine and status.
	TranslatorRequests metric.Int64Counter
	// TranslatorDuration is the latency of translator calls.
	TranslatorDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates every instrument on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.QueueOutcomes, err = m.Int64Counter("dialogfix.queue.outcomes",
		metric.WithDescription("Dequeued dialogue lines by outcome."),
	); err != nil {
		return nil, err
	}
	if met.QueueDuration, err = m.Float64Histogram("dialogfix.queue.duration",
		metric.WithDescription("Time spent correcting one dialogue line."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.QueueDepth, err = m.Int64Gauge("dialogfix.queue.depth",
		metric.WithDescription("Dialogue lines waiting in the correction queue."),
	); err != nil {
		return nil, err
	}
	if met.TranslatorRequests, err = m.Int64Counter("dialogfix.translator.requests",
		metric.WithDescription("Translator calls by engine and status."),
	); err != nil {
		return nil, err
	}
	if met.TranslatorDuration, err = m.Float64Histogram("dialogfix.translator.duration",
		metric.WithDescription("Latency of translator calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Observe records one dequeued item.
func (m *Metrics) Observe(outcome queue.Outcome, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	m.QueueOutcomes.Add(ctx, 1, attrs)
	m.QueueDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// Depth records the queue length.
func (m *Metrics) Depth(n int) {
	m.QueueDepth.Record(context.Background(), int64(n))
}

// InstrumentTranslator wraps a translator so every call is counted and timed.
func (m *Metrics) InstrumentTranslator(next translate.Translator) translate.Translator {
	return &instrumentedTranslator{next: next, metrics: m}
}

type instrumentedTranslator struct {
	next    translate.Translator
	metrics *Metrics
}

func (t *instrumentedTranslator) Translate(ctx context.Context, text string, profile dialogue.Profile, hints *codec.CodeTable) (string, error) {
	start := time.Now()
	result, err := t.next.Translate(ctx, text, profile, hints)

	status := "ok"
	switch {
	case errors.Is(err, translate.ErrEmptyTranslation) || (err == nil && result == "" && text != ""):
		status = "empty"
	case err != nil:
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("engine", profile.Engine),
		attribute.String("status", status),
	)
	t.metrics.TranslatorRequests.Add(ctx, 1, attrs)
	t.metrics.TranslatorDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	return result, err
}

var _ queue.Observer = (*Metrics)(nil)
