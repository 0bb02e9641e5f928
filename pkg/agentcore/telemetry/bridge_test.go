package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
	"github.com/agentcore-dev/agentcore/pkg/agentcore/telemetry"
)

func TestBridgeCreatesSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)

	bus := event.NewBus()
	bus.SubscribeAll(telemetry.NewBridge())

	parent := event.New(event.ToolCalled, "agent-1")
	bus.Emit(context.Background(), parent)
	bus.Emit(context.Background(), event.NewFromParent(parent, event.ToolCompleted, "agent-1"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "agentcore.tool_called", spans[0].Name())
	assert.Equal(t, "agentcore.tool_completed", spans[1].Name())

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "agent-1", attrs["agent.id"].AsString())
	assert.Equal(t, parent.ID(), attrs["event.id"].AsString())
	assert.Equal(t, "tool_called", attrs["event.type"].AsString())

	childAttrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[1].Attributes() {
		childAttrs[kv.Key] = kv.Value
	}
	assert.Equal(t, parent.ID(), childAttrs["event.causation_id"].AsString())
}

func TestBridgeCountsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	bridge := telemetry.NewBridge()
	ctx := context.Background()

	require.NoError(t, bridge.Handle(ctx, event.New(event.ToolCalled, "agent-1")))
	require.NoError(t, bridge.Handle(ctx, event.New(event.ToolCalled, "agent-1")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "agentcore.events.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

func TestRecordMetric(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	ctx := context.Background()
	require.NoError(t, telemetry.RecordMetric(ctx, "tokens_used", 1500,
		attribute.String("agent.id", "agent-1")))
	require.NoError(t, telemetry.RecordMetric(ctx, "tokens_used", 500,
		attribute.String("agent.id", "agent-1")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "agentcore.tokens_used" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
			assert.Equal(t, 2000.0, hist.DataPoints[0].Sum)
			found = true
		}
	}
	assert.True(t, found, "expected agentcore.tokens_used histogram")
}
