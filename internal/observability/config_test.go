package observability

import (
	"testing"

	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg := LoadConfig(config.Config{AppName: " ", Environment: "development"})

	assert.Equal(t, "vitrine", cfg.ServiceName)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.Equal(t, 100, cfg.LogSamplingInitial)
	assert.False(t, cfg.OtelEnabled)
	assert.True(t, cfg.Debug())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("METRICS_PATH", "/internal/metrics")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP/protobuf")
	t.Setenv("LOG_LEVEL", "WARN")
	cfg := LoadConfig(config.Config{Environment: "production"})

	assert.Equal(t, "/internal/metrics", cfg.MetricsPath)
	assert.Equal(t, "http/protobuf", cfg.OtelExporterProtocol)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Debug())

	t.Setenv("METRICS_ENABLED", "false")
	assert.Empty(t, LoadConfig(config.Config{}).MetricsPath)
}
