package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.GitHub.RequestTimeout)
	assert.Equal(t, 8, cfg.GitHub.ReadmeConcurrency)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Monitor.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
github:
  token: file-token
  check_readme: true
  readme_concurrency: 4
database:
  enabled: true
  host: db.internal
  name: analyzer
monitor:
  enabled: true
  interval: 6h
  usernames:
    - torvalds
    - gaearon
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.True(t, cfg.GitHub.CheckReadme)
	assert.Equal(t, 4, cfg.GitHub.ReadmeConcurrency)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"torvalds", "gaearon"}, cfg.Monitor.Usernames)
	assert.Equal(t, 6*time.Hour, cfg.Monitor.Interval)
	assert.Equal(t, "host=db.internal port=5432 user=postgres password=postgres dbname=analyzer sslmode=disable", cfg.GetDSN())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PROFILE_ANALYZER_GITHUB_TOKEN", "env-token")
	t.Setenv("PROFILE_ANALYZER_SERVER_PORT", "7070")

	cfg, err := Load(writeConfig(t, "github:\n  token: file-token\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.GitHub.Token)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"database without host", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Host = ""
		}, "database host is required"},
		{"database without workers", func(c *Config) {
			c.Database.Enabled = true
			c.Worker.Count = 0
		}, "invalid worker count"},
		{"monitor without database", func(c *Config) { c.Monitor.Enabled = true }, "monitor requires the database"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"readme checks without concurrency", func(c *Config) {
			c.GitHub.CheckReadme = true
			c.GitHub.ReadmeConcurrency = 0
		}, "readme concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "test").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
