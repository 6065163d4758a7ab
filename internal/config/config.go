package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port string
	Env  string

	LogLevel string

	// Integration
	IntegrationTimeout time.Duration
	MaxConcurrent      int

	// Request limits
	MaxBodyBytes   int64
	MaxConnections int

	AllowedOrigins []string

	// Rolling window for /api/stats
	StatsWindow     time.Duration
	StatsMaxSamples int

	// Sentry; empty disables reporting.
	SentryDSN string
}

const (
	defaultPort               = "5000"
	defaultIntegrationTimeout = 10 * time.Second
	defaultMaxBodyBytes       = 64 << 10
	defaultMaxConnections     = 256
	defaultStatsWindow        = time.Hour
	defaultStatsMaxSamples    = 10000
)

// Load reads configuration from the environment and an optional config.yaml
// in the working directory or ./config. Unusable values fall back to defaults.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	cfg := Config{
		Port:     strings.TrimSpace(v.GetString("port")),
		Env:      v.GetString("env"),
		LogLevel: v.GetString("log_level"),

		IntegrationTimeout: v.GetDuration("integration_timeout"),
		MaxConcurrent:      v.GetInt("max_concurrent"),

		MaxBodyBytes:   v.GetInt64("max_body_bytes"),
		MaxConnections: v.GetInt("max_connections"),

		AllowedOrigins: splitList(v.GetString("allowed_origins")),

		StatsWindow:     v.GetDuration("stats_window"),
		StatsMaxSamples: v.GetInt("stats_max_samples"),
		SentryDSN:       v.GetString("sentry_dsn"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.IntegrationTimeout <= 0 {
		cfg.IntegrationTimeout = defaultIntegrationTimeout
	}
	if cfg.MaxConcurrent < 0 {
		cfg.MaxConcurrent = 0
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = defaultMaxConnections
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = defaultStatsWindow
	}
	if cfg.StatsMaxSamples <= 0 {
		cfg.StatsMaxSamples = defaultStatsMaxSamples
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("integration_timeout", defaultIntegrationTimeout)
	// 0 lets every request integrate at once; MAX_CONNECTIONS still applies.
	v.SetDefault("max_concurrent", 0)

	v.SetDefault("max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("max_connections", defaultMaxConnections)

	v.SetDefault("allowed_origins", "*")
	v.SetDefault("stats_window", defaultStatsWindow)
	v.SetDefault("stats_max_samples", defaultStatsMaxSamples)
	v.SetDefault("sentry_dsn", "")
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a TCP port number, got %q", c.Port)
	}
	if c.IntegrationTimeout <= 0 {
		return fmt.Errorf("INTEGRATION_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Production reports whether ENV selects production logging.
func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
