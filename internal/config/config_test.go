package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saletype/internal/domain/saletype"
)

func TestLoad_Env(t *testing.T) {
	t.Setenv("SOT_DATABASE_DSN", "postgres://localhost/sot")
	t.Setenv("SOT_JWT_SECRET", "dev-secret")
	t.Setenv("SOT_HTTP_PORT", "9090")
	t.Setenv("SOT_MAIL_TIMEOUT", "3s")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/sot", cfg.Database.DSN)
	assert.Equal(t, ":9090", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "saletype", cfg.App.Name)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 100, cfg.Worker.BatchSize)
	assert.Empty(t, cfg.Report.BaseURL)
	assert.Equal(t, saletype.ProductFirst, cfg.Classifier.MatchPolicy())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
[app]
env = "production"

[database]
dsn = "postgres://db/sot"
max_conns = 40

[jwt]
secret = "0123456789abcdef0123456789abcdef"

[worker]
batch_size = 20
interval = "5s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
	t.Setenv("SOT_WORKER_BATCH_SIZE", "30")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, int32(40), cfg.Database.MaxConns)
	assert.Equal(t, 30, cfg.Worker.BatchSize, "env overrides file")
	assert.Equal(t, 5*time.Second, cfg.Worker.Interval)

	pool := cfg.Database.PoolConfig(cfg.App.Name)
	assert.Equal(t, int32(40), pool.MaxConns)
	assert.Equal(t, "saletype", pool.ApplicationName)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			App:      AppConfig{Env: "development"},
			Database: DatabaseConfig{DSN: "postgres://x", MaxConns: 10, MinConns: 2},
			JWT:      JWTConfig{Secret: "short"},
			HTTP:     HTTPConfig{Port: 8080},
		}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database.dsn"},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: "jwt.secret is required"},
		{name: "short secret in production", mutate: func(c *Config) { c.App.Env = "production" }, wantErr: "at least 32"},
		{name: "min above max", mutate: func(c *Config) { c.Database.MinConns = 20 }, wantErr: "min_conns"},
		{name: "bad port", mutate: func(c *Config) { c.HTTP.Port = 70000 }, wantErr: "http.port"},
		{name: "unknown policy", mutate: func(c *Config) { c.Classifier.Policy = "random" }, wantErr: "classifier.policy"},
		{name: "negative retries", mutate: func(c *Config) { c.Mail.RetryCount = -1 }, wantErr: "retry_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "development"}, Log: LogConfig{Level: "debug", Output: "stderr"}}

	lc := cfg.LoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.True(t, lc.Development)
	assert.Equal(t, []string{"stderr"}, lc.OutputPaths)
}
