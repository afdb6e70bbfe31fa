// Package config loads the service configuration from an optional
// config.toml and SOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"saletype/internal/domain/saletype"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/pkg/logger"
)

// EnvPrefix is prepended to every environment key: database.dsn -> SOT_DATABASE_DSN.
const EnvPrefix = "SOT"

// Config holds all configuration for the service.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Log        LogConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Mail       MailConfig
	Report     ReportConfig
	Worker     WorkerConfig
	Classifier ClassifierConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string
}

// IsDevelopment reports whether the service runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// StatementTimeout bounds each statement inside a transaction
	StatementTimeout time.Duration
}

// PoolConfig converts the settings into a pgx pool configuration.
func (d DatabaseConfig) PoolConfig(appName string) postgres.PoolConfig {
	cfg := postgres.DefaultPoolConfig(d.DSN)
	cfg.ApplicationName = appName
	if d.MaxConns > 0 {
		cfg.MaxConns = d.MaxConns
	}
	if d.MinConns > 0 {
		cfg.MinConns = d.MinConns
	}
	if d.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = d.MaxConnLifetime
	}
	if d.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = d.MaxConnIdleTime
	}
	if d.StatementTimeout > 0 {
		cfg.StatementTimeout = d.StatementTimeout
	}
	return cfg
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	IdempotencyEnabled bool
	IdempotencyTTL     time.Duration
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// MailConfig holds mail gateway settings.
type MailConfig struct {
	GatewayURL string
	APIKey     string
	From       string
	Timeout    time.Duration
	RetryCount int
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	// BaseURL prefixes print locations; empty yields host-relative URLs
	BaseURL string
}

// WorkerConfig holds outbox relay settings.
type WorkerConfig struct {
	BatchSize       int
	Interval        time.Duration
	CleanupInterval time.Duration
	RetentionPeriod time.Duration
}

// ClassifierConfig holds sale type classification settings.
type ClassifierConfig struct {
	// Policy is the rule match policy: "product_first" or "type_order"
	Policy string

	// PageSize bounds the ids accepted by one classify request
	PageSize int

	// CacheCandidates keeps each company's candidate types in memory,
	// invalidated through LISTEN/NOTIFY
	CacheCandidates bool
}

// MatchPolicy parses the configured policy.
func (c ClassifierConfig) MatchPolicy() saletype.MatchPolicy {
	p, _ := saletype.ParseMatchPolicy(c.Policy)
	return p
}

// Load reads configuration from configPath (a directory holding
// config.toml) and the environment. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			MaxConns:        v.GetInt32("database.max_conns"),
			MinConns:        v.GetInt32("database.min_conns"),
			MaxConnLifetime: v.GetDuration("database.max_conn_lifetime"),
			MaxConnIdleTime: v.GetDuration("database.max_conn_idle_time"),

			StatementTimeout: v.GetDuration("database.statement_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("jwt.secret"),
			Issuer:         v.GetString("jwt.issuer"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		HTTP: HTTPConfig{
			Port:               v.GetInt("http.port"),
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			IdleTimeout:        v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:    v.GetDuration("http.shutdown_timeout"),
			IdempotencyEnabled: v.GetBool("http.idempotency_enabled"),
			IdempotencyTTL:     v.GetDuration("http.idempotency_ttl"),
		},
		Mail: MailConfig{
			GatewayURL: v.GetString("mail.gateway_url"),
			APIKey:     v.GetString("mail.api_key"),
			From:       v.GetString("mail.from"),
			Timeout:    v.GetDuration("mail.timeout"),
			RetryCount: v.GetInt("mail.retry_count"),
		},
		Report: ReportConfig{
			BaseURL: v.GetString("report.base_url"),
		},
		Worker: WorkerConfig{
			BatchSize:       v.GetInt("worker.batch_size"),
			Interval:        v.GetDuration("worker.interval"),
			CleanupInterval: v.GetDuration("worker.cleanup_interval"),
			RetentionPeriod: v.GetDuration("worker.retention_period"),
		},
		Classifier: ClassifierConfig{
			Policy:          v.GetString("classifier.policy"),
			PageSize:        v.GetInt("classifier.page_size"),
			CacheCandidates: v.GetBool("classifier.cache_candidates"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers keys so AutomaticEnv picks them up without a file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "saletype")
	v.SetDefault("app.env", "development")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.statement_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "saletype")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.idempotency_enabled", false)
	v.SetDefault("http.idempotency_ttl", 24*time.Hour)
	v.SetDefault("mail.gateway_url", "")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.timeout", 10*time.Second)
	v.SetDefault("mail.retry_count", 2)
	v.SetDefault("report.base_url", "")
	v.SetDefault("worker.batch_size", 100)
	v.SetDefault("worker.interval", time.Second)
	v.SetDefault("worker.cleanup_interval", time.Hour)
	v.SetDefault("worker.retention_period", 7*24*time.Hour)
	v.SetDefault("classifier.policy", string(saletype.ProductFirst))
	v.SetDefault("classifier.page_size", 500)
	v.SetDefault("classifier.cache_candidates", true)
}

// applyDefaults fills zero values left by explicit empty settings.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "saletype"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "saletype"
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdempotencyTTL <= 0 {
		cfg.HTTP.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.Worker.BatchSize <= 0 {
		cfg.Worker.BatchSize = 100
	}
	if cfg.Worker.Interval <= 0 {
		cfg.Worker.Interval = time.Second
	}
	if cfg.Classifier.PageSize <= 0 {
		cfg.Classifier.PageSize = 500
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns && c.Database.MaxConns > 0 {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if c.JWT.Secret == "" {
		errs = append(errs, "jwt.secret is required")
	} else if !c.App.IsDevelopment() && len(c.JWT.Secret) < 32 {
		errs = append(errs, "jwt.secret must be at least 32 characters outside development")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, "http.port must be between 1 and 65535")
	}
	if _, err := saletype.ParseMatchPolicy(c.Classifier.Policy); err != nil {
		errs = append(errs, "classifier.policy: "+err.Error())
	}
	if c.Mail.RetryCount < 0 {
		errs = append(errs, "mail.retry_count must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoggerConfig converts the log settings into a logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:       c.Log.Level,
		Development: c.App.IsDevelopment(),
		Format:      c.Log.Format,
	}
	if c.Log.Output != "" {
		cfg.OutputPaths = []string{c.Log.Output}
	}
	return cfg
}
