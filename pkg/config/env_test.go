package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsguard/pkg/config"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TSGUARD_LINT_CONCURRENCY", "3")
	t.Setenv("TSGUARD_LOGGING_FORMAT", "json")
	t.Setenv("TSGUARD_TELEMETRY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := config.LoadConfig(writeConfig(t, "lint:\n  concurrency: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Lint.Concurrency)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
}
