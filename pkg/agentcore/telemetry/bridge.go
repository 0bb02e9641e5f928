// Package telemetry bridges bus events into OpenTelemetry spans and
// metrics. The Bridge is an event.Handler; subscribing it to a bus gives
// every emitted event a span and an increment on the event counter without
// touching the emitting code.
//
// The bridge uses the global OTel providers. Configure them before wiring:
//
//	otel.SetTracerProvider(yourTracerProvider)
//	otel.SetMeterProvider(yourMeterProvider)
//	bus.SubscribeAll(telemetry.NewBridge())
//
// With the default noop providers every operation is a cheap no-op, so the
// bridge can stay wired in environments without a collector.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
)

// Tracer is the agentcore tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("agentcore")

var (
	defaultCounter     metric.Int64Counter
	defaultCounterOnce sync.Once
	defaultCounterErr  error
)

// eventCounter lazily creates the event counter on first use.
func eventCounter() (metric.Int64Counter, error) {
	defaultCounterOnce.Do(func() {
		meter := otel.Meter("agentcore")
		defaultCounter, defaultCounterErr = meter.Int64Counter("agentcore.events.total",
			metric.WithDescription("Number of events dispatched on the bus"),
		)
	})
	return defaultCounter, defaultCounterErr
}

// Bridge translates bus events into OTel spans and metrics.
type Bridge struct {
	counter metric.Int64Counter
}

// NewBridge creates a Bridge bound to the global OTel providers. If the
// event counter cannot be created the bridge still traces; counting is
// skipped.
func NewBridge() *Bridge {
	counter, _ := eventCounter()
	return &Bridge{counter: counter}
}

var _ event.Handler = (*Bridge)(nil)

// Handle implements event.Handler. Each event becomes a span named
// "agentcore.<type>" carrying the agent, event, and causation attributes,
// plus one increment on the agentcore.events.total counter.
func (b *Bridge) Handle(ctx context.Context, evt *event.Event) error {
	attrs := []attribute.KeyValue{
		attribute.String("agent.id", evt.SourceID()),
		attribute.String("event.id", evt.ID()),
		attribute.String("event.type", evt.Type().String()),
	}
	if evt.CausationID() != "" {
		attrs = append(attrs, attribute.String("event.causation_id", evt.CausationID()))
	}

	ctx, span := tracer.Start(ctx, "agentcore."+evt.Type().String(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if b.counter != nil {
		b.counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event.type", evt.Type().String()),
			attribute.String("agent.id", evt.SourceID()),
		))
	}
	return nil
}

// RecordMetric records an ad-hoc float64 value on a histogram named
// "agentcore.<name>". Instruments are created on demand and cached.
func RecordMetric(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) error {
	histogramsMu.Lock()
	histogram, ok := histograms[name]
	if !ok {
		var err error
		meter := otel.Meter("agentcore")
		histogram, err = meter.Float64Histogram("agentcore." + name)
		if err != nil {
			histogramsMu.Unlock()
			return err
		}
		histograms[name] = histogram
	}
	histogramsMu.Unlock()

	histogram.Record(ctx, value, metric.WithAttributes(attrs...))
	return nil
}

var (
	histogramsMu sync.Mutex
	histograms   = make(map[string]metric.Float64Histogram)
)
