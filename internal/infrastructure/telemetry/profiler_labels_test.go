package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestSanitizeLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   []string
	}{
		{"nil", nil, nil},
		{"sorted", map[string]string{"route": "/api/customers", "method": "GET"}, []string{"method", "GET", "route", "/api/customers"}},
		{"empty values dropped", map[string]string{"route": "", "method": "GET"}, []string{"method", "GET"}},
		{"high cardinality dropped", map[string]string{"request_id": "abc", "Customer-ID": "7", "method": "PUT"}, []string{"method", "PUT"}},
		{"keys normalized", map[string]string{"Http Route!": "/x"}, []string{"http_route", "/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLabels(tt.labels)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeLabels_TruncatesValues(t *testing.T) {
	got := sanitizeLabels(map[string]string{"operation": strings.Repeat("x", MaxLabelValueLength+10)})
	assert.Len(t, got[1], MaxLabelValueLength)
}

func TestHTTPRequestLabels(t *testing.T) {
	assert.Equal(t, map[string]string{"route": "/api/customers/:id", "method": "DELETE"},
		HTTPRequestLabels("/api/customers/:id", "DELETE"))
	assert.Empty(t, HTTPRequestLabels("", ""))
}

func TestWithProfilingLabels(t *testing.T) {
	var route string
	WithProfilingLabels(context.Background(), HTTPRequestLabels("/api/customers", "POST"), func(ctx context.Context) {
		route, _ = pprof.Label(ctx, ProfilingLabelRoute)
	})
	assert.Equal(t, "/api/customers", route)

	called := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	assert.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_MissingSettings(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "customer-service"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "application name")
}
