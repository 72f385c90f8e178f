package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: qcsync
  env: test
  log_level: debug

lmstfy:
  host: "127.0.0.1"
  port: 7777
  namespace: qhse

quality:
  conforme_threshold: 90
  reserve_threshold: 70
  five_whys_depth: 5

workers:
  - name: quality-evaluator
    queue_name: quality_evaluate
    callback_queue: quality_evaluate_callback
    subscriber:
      threads: 2
      rate: 100ms
      timeout: 3s
      ttr: 60s
      error_backoff: 1s
    processor:
      threads: 4
      buffer_size: 64
      timeout: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "qcsync", cfg.App.Name)
	assert.Equal(t, 90, cfg.Quality.ConformeThreshold)
	assert.Equal(t, 5, cfg.Quality.FiveWhysDepth)

	require.Len(t, cfg.Workers, 1)
	w := cfg.Workers[0]
	assert.Equal(t, "quality_evaluate", w.QueueName)
	assert.Equal(t, 100*time.Millisecond, w.Subscriber.Rate)
	assert.Equal(t, 60*time.Second, w.Subscriber.TTR)
	assert.Equal(t, 30*time.Second, w.Processor.Timeout)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }},
		{"missing lmstfy host", func(c *Config) { c.Lmstfy.Host = "" }},
		{"no workers", func(c *Config) { c.Workers = nil }},
		{"worker without queue", func(c *Config) { c.Workers[0].QueueName = "" }},
		{"worker without callback queue", func(c *Config) { c.Workers[0].CallbackQueue = "" }},
		{"threshold out of range", func(c *Config) { c.Quality.ConformeThreshold = 120 }},
		{"inverted thresholds", func(c *Config) {
			c.Quality.ConformeThreshold = 50
			c.Quality.ReserveThreshold = 80
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, sampleConfig))
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
