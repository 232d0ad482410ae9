package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/customers/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func newInMemoryTracer(t *testing.T) (*telemetry.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := telemetry.NewTracerProviderWithExporter(telemetry.Config{
		SamplingRatio: 1.0,
		ServiceName:   "customer-service-test",
	}, exporter, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "customer-service-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))

	tp.EnableSpanProfiles()
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestNewTracerProviderWithExporter(t *testing.T) {
	ctx := context.Background()
	tp, exporter := newInMemoryTracer(t)

	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "unit")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unit", spans[0].Name)

	name, ok := spans[0].Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "customer-service-test", name.AsString())
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	tp, _ := newInMemoryTracer(t)

	tp.EnableSpanProfiles()
	assert.True(t, tp.IsSpanProfilesEnabled())

	// Second call is a no-op.
	tp.EnableSpanProfiles()
	assert.True(t, tp.IsSpanProfilesEnabled())
}

func TestStartServiceSpan(t *testing.T) {
	ctx := context.Background()
	tp, exporter := newInMemoryTracer(t)

	_, span := telemetry.StartServiceSpan(ctx, "customer", "get",
		telemetry.SpanAttrCustomerID, int64(7),
		"customer.active", true,
		42, "ignored non-string key",
	)
	telemetry.SetAttributes(span, telemetry.SpanAttrResults, 3, "customer.name", "Jane")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "customer.get", got.Name)

	id, ok := attrValue(got.Attributes, telemetry.SpanAttrCustomerID)
	require.True(t, ok)
	assert.Equal(t, int64(7), id.AsInt64())

	active, ok := attrValue(got.Attributes, "customer.active")
	require.True(t, ok)
	assert.True(t, active.AsBool())

	results, ok := attrValue(got.Attributes, telemetry.SpanAttrResults)
	require.True(t, ok)
	assert.Equal(t, int64(3), results.AsInt64())

	assert.Len(t, got.Attributes, 4)
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()
	tp, exporter := newInMemoryTracer(t)

	_, span := telemetry.StartServiceSpan(ctx, "customer", "update")
	telemetry.RecordError(span, errors.New("boom"))
	telemetry.RecordError(span, nil)
	telemetry.RecordError(nil, errors.New("no span"))
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "boom", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}
