package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
environment: test
clickhouse:
  host: localhost
postgres:
  host: localhost
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9000, cfg.ClickHouse.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "forecast.actuals", cfg.Kafka.ActualsTopic)
	assert.Equal(t, "forecast.created", cfg.Kafka.EventsTopic)
	assert.Equal(t, 24, cfg.Forecast.HistoryMonths)
	assert.Equal(t, 12, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, 10*time.Minute, cfg.Forecast.SeriesCacheTTL)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	require.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"logging:\n  level: loud\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "sekrit")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "sekrit", cfg.Postgres.Password)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}
