// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig          `mapstructure:"app"`
	Query     QueryConfig        `mapstructure:"query"`
	HTTP      HTTPConfig         `mapstructure:"http"`
	Breaker   BreakerConfig      `mapstructure:"breaker"`
	Watch     WatchConfig        `mapstructure:"watch"`
	API       APIConfig          `mapstructure:"api"`
	Health    HealthConfig       `mapstructure:"health"`
	Fees      map[string]float64 `mapstructure:"fees"`
	Telemetry TelemetryConfig    `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// QueryConfig holds the pair and scope selected at startup.
type QueryConfig struct {
	Crypto string `mapstructure:"crypto"`
	Fiat   string `mapstructure:"fiat"`
	Scope  string `mapstructure:"scope"` // "all" or an exchange id
}

// HTTPConfig holds outbound HTTP settings.
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// BreakerConfig holds per-exchange circuit breaker settings.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// WatchConfig holds settings for repeated rounds.
type WatchConfig struct {
	Interval           time.Duration `mapstructure:"interval"`
	MaxRoundsPerMinute int           `mapstructure:"max_rounds_per_minute"`
}

// APIConfig holds the JSON API server settings.
type APIConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig holds the health server settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // otlp-grpc, otlp-http, zipkin, console
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	ZipkinEndpoint string `mapstructure:"zipkin_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// FeeOverrides returns configured fee rates keyed by lowercase exchange id.
func (c *Config) FeeOverrides() map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(c.Fees))
	for id, fee := range c.Fees {
		result[strings.ToLower(id)] = decimal.NewFromFloat(fee)
	}
	return result
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("BESTPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "BESTPRICE_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "BESTPRICE_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "BESTPRICE_LOG_LEVEL", "LOG_LEVEL")

	// Query
	v.BindEnv("query.crypto", "BESTPRICE_CRYPTO")
	v.BindEnv("query.fiat", "BESTPRICE_FIAT")
	v.BindEnv("query.scope", "BESTPRICE_SCOPE")

	// HTTP
	v.BindEnv("http.timeout", "BESTPRICE_HTTP_TIMEOUT")
	v.BindEnv("http.user_agent", "BESTPRICE_USER_AGENT")

	// API
	v.BindEnv("api.enabled", "BESTPRICE_API_ENABLED")
	v.BindEnv("api.port", "BESTPRICE_API_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "BESTPRICE_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "BESTPRICE_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "BESTPRICE_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "bestprice")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Query defaults
	v.SetDefault("query.crypto", "btc")
	v.SetDefault("query.fiat", "eur")
	v.SetDefault("query.scope", "all")

	// HTTP defaults
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "bestprice/1.0")
	v.SetDefault("http.max_body_bytes", 1<<20)

	// Breaker defaults
	v.SetDefault("breaker.max_failures", 3)
	v.SetDefault("breaker.open_timeout", "30s")

	// Watch defaults
	v.SetDefault("watch.interval", "15s")
	v.SetDefault("watch.max_rounds_per_minute", 6)

	// API defaults
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.port", 8080)

	// Health defaults
	v.SetDefault("health.port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "bestprice")
	v.SetDefault("telemetry.trace_provider", "otlp-grpc")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Query.Crypto == "" {
		return fmt.Errorf("query.crypto is required")
	}
	if c.Query.Fiat == "" {
		return fmt.Errorf("query.fiat is required")
	}
	if c.Query.Scope == "" {
		return fmt.Errorf("query.scope is required")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Breaker.MaxFailures == 0 {
		return fmt.Errorf("breaker.max_failures must be at least 1")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval)
	}
	if c.Watch.MaxRoundsPerMinute <= 0 {
		return fmt.Errorf("watch.max_rounds_per_minute must be positive")
	}
	for id, fee := range c.Fees {
		if fee < 0 || fee >= 1 {
			return fmt.Errorf("fees.%s must be in [0, 1), got %v", id, fee)
		}
	}
	switch c.Telemetry.TraceProvider {
	case "otlp-grpc", "otlp-http", "zipkin", "console":
	default:
		return fmt.Errorf("unknown telemetry.trace_provider: %s", c.Telemetry.TraceProvider)
	}
	return nil
}
