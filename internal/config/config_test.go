package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ev_priority_predictions.csv", cfg.Source.Path)
	assert.Empty(t, cfg.Source.Format)
	assert.Equal(t, "ev-priority.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 10, cfg.Report.TopN)
	assert.InDelta(t, 51.5074, cfg.Map.CenterLat, 1e-9)
	assert.InDelta(t, -0.1278, cfg.Map.CenterLon, 1e-9)
	assert.Equal(t, 10, cfg.Map.Zoom)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.InDelta(t, 50, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 100, cfg.Server.RateBurst)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
source:
  path: predictions.xlsx
  sheet: Scores
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://maps.example.org
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "predictions.xlsx", cfg.Source.Path)
	assert.Equal(t, "Scores", cfg.Source.Sheet)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://maps.example.org"}, cfg.Server.CORSOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Report.TopN)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
source:
  path: from-file.csv
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("EVPRIORITY_SOURCE_PATH", "from-env.csv")
	t.Setenv("EVPRIORITY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env.csv", cfg.Source.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("EVPRIORITY_SERVER_PORT", "3000")
	t.Setenv("EVPRIORITY_REPORT_TOP_N", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Report.TopN)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("source: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Source.Path = "ev_priority_predictions.csv"
	cfg.Store.DatabaseURL = "ev-priority.db"
	cfg.Report.TopN = 10
	cfg.Map.Zoom = 10
	cfg.Server.Port = 8080
	cfg.Server.RateLimit = 50
	cfg.Server.RateBurst = 100
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	for _, mode := range []string{"report", "import", "serve"} {
		assert.NoError(t, validDefaults().Validate(mode), mode)
	}
}

func TestValidate_MissingSource(t *testing.T) {
	cfg := validDefaults()
	cfg.Source.Path = "  "
	cfg.Source.Format = "parquet"

	err := cfg.Validate("report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.path is required")
	assert.Contains(t, err.Error(), "source.format must be one of csv, xlsx, sqlite")
}

func TestValidate_TopN(t *testing.T) {
	cfg := validDefaults()
	cfg.Report.TopN = 11
	err := cfg.Validate("report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.top_n must be between 0 and 10")

	cfg.Report.TopN = 0
	assert.NoError(t, cfg.Validate("report"))
}

func TestValidate_ImportNeedsDatabase(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
	assert.NoError(t, cfg.Validate("report"))
}

func TestValidateServe(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port must be > 0"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "server.rate_limit must be >= 0"},
		{"negative burst", func(c *Config) { c.Server.RateBurst = -1 }, "server.rate_burst must be >= 0"},
		{"zoom too high", func(c *Config) { c.Map.Zoom = 19 }, "map.zoom must be between 1 and 18"},
		{"zoom zero", func(c *Config) { c.Map.Zoom = 0 }, "map.zoom must be between 1 and 18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("serve")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateServe_RateLimitDisabled(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.RateLimit = 0
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
