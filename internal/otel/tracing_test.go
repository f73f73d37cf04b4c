package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"

	"filevault/internal/logging"
)

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	var buf bytes.Buffer
	lg, err := logging.New(logging.Options{Writer: &buf})
	require.NoError(t, err)

	shutdown, err := Init(context.Background(), lg, "filevault")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"tracing_enabled":false`)
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	var buf bytes.Buffer
	lg, err := logging.New(logging.Options{Writer: &buf})
	require.NoError(t, err)

	shutdown, err := Init(context.Background(), lg, "filevault")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tracing init failed")
}

func TestGetSampler(t *testing.T) {
	tests := []struct {
		sampler string
		arg     string
		want    string
	}{
		{sampler: "always_on", want: trace.AlwaysSample().Description()},
		{sampler: "always_off", want: trace.NeverSample().Description()},
		{sampler: "traceidratio", arg: "0.25", want: trace.TraceIDRatioBased(0.25).Description()},
		{sampler: "traceidratio", arg: "bogus", want: trace.TraceIDRatioBased(1).Description()},
		{sampler: "parentbased_traceidratio", arg: "0.5", want: trace.ParentBased(trace.TraceIDRatioBased(0.5)).Description()},
		{sampler: "", want: trace.ParentBased(trace.AlwaysSample()).Description()},
	}
	for _, tt := range tests {
		t.Run(tt.sampler+"/"+tt.arg, func(t *testing.T) {
			t.Setenv("OTEL_TRACES_SAMPLER", tt.sampler)
			t.Setenv("OTEL_TRACES_SAMPLER_ARG", tt.arg)
			assert.Equal(t, tt.want, getSampler().Description())
		})
	}
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.1, parseRatio("0.1"))
	assert.Equal(t, 1.0, parseRatio(""))
	assert.Equal(t, 1.0, parseRatio("2"))
	assert.Equal(t, 1.0, parseRatio("-1"))
}
