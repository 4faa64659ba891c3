package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDatasetURL, cfg.DatasetURL)
	assert.Equal(t, 10*time.Second, cfg.DatasetTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, []string{"html", "svg", "png"}, cfg.OutputFormats)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "temperature-heatmaps", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_URL", "file:///data/global-temperature.json")
	t.Setenv("DATASET_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REFRESH_INTERVAL", "6h")
	t.Setenv("OUTPUT_DIR", "/tmp/heatmap")
	t.Setenv("OUTPUT_FORMATS", " HTML , json,, ")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "charts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file:///data/global-temperature.json", cfg.DatasetURL)
	assert.Equal(t, 3*time.Second, cfg.DatasetTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, "/tmp/heatmap", cfg.OutputDir)
	assert.Equal(t, []string{"html", "json"}, cfg.OutputFormats)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "charts", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDatasetTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-1s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("DATASET_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATASET_TIMEOUT")
		})
	}
}

func TestLoad_InvalidRefreshInterval(t *testing.T) {
	for _, v := range []string{"soon", "-5m"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("REFRESH_INTERVAL", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
		})
	}
}

func TestLoad_OutputDirWithoutFormats(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/heatmap")
	t.Setenv("OUTPUT_FORMATS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_FORMATS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KAFKA_TOPIC=from-dotenv\nHTTP_ADDR=:7070\n"), 0o600))
	t.Setenv("KAFKA_TOPIC", "")
	require.NoError(t, os.Unsetenv("KAFKA_TOPIC"))
	t.Setenv("HTTP_ADDR", ":9999")

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.KafkaTopic)
	assert.Equal(t, ":9999", cfg.HTTPAddr, "existing variables win")
}

func TestLoadDotEnv_Missing(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
