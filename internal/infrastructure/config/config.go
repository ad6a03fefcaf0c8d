// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compliance:
//   - III. Config: Store config in the environment
//   - Configuration is loaded from environment variables
//   - Sensitive data (database URL) only via environment
//   - No config files checked into version control
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// EnvPrefix is prepended to every environment variable (LCE_SERVER_PORT, ...).
const EnvPrefix = "LCE"

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Calculator contains the calculation policies
	Calculator CalculatorConfig `mapstructure:"calculator"`

	// Optimization contains recommendation engine settings
	Optimization OptimizationConfig `mapstructure:"optimization"`

	// Database contains the product data source settings
	Database DatabaseConfig `mapstructure:"database"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version of the application
	Version string `mapstructure:"version"`

	// Debug mode flag
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// RequestTimeout bounds the handling of a single request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// ShutdownTimeout is the maximum duration for graceful server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxRequestSize is the maximum allowed request body size
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// CORSAllowedOrigins is a list of allowed origins for CORS
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// TrustProxy takes client addresses from X-Forwarded-For / X-Real-IP
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is json or console
	Format string `mapstructure:"format"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// Enabled turns the limiter on
	Enabled bool `mapstructure:"enabled"`

	// RequestsPerSecond is the sustained rate per client
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`

	// Burst is the maximum burst per client
	Burst int `mapstructure:"burst"`
}

// CalculatorConfig contains the calculation policies.
type CalculatorConfig struct {
	// DutyBase is inclusive (product + shipping + insurance) or exclusive (product only)
	DutyBase string `mapstructure:"duty_base"`

	// Currency is reported on landed-cost results that do not name one
	Currency string `mapstructure:"currency"`
}

// OptimizationConfig contains recommendation engine settings.
type OptimizationConfig struct {
	// ConfidenceThreshold drops alternatives below this confidence
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`

	// MaxRecommendations caps the recommendations per product
	MaxRecommendations int `mapstructure:"max_recommendations"`

	// SeedFile is a JSON catalogue loaded into the in-memory store when no
	// database is configured
	SeedFile string `mapstructure:"seed_file"`
}

// DatabaseConfig contains the product data source settings.
type DatabaseConfig struct {
	// URL is the Postgres connection string; empty selects the in-memory store
	URL string `mapstructure:"url"`

	// MaxConns is the connection pool size
	MaxConns int32 `mapstructure:"max_conns"`

	// ConnectTimeout bounds the initial connection
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (if provided)
//  3. Default values
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading or validation
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/landedcost")
	return load(v)
}

// LoadFile loads the configuration from an explicit file, still honouring
// environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "landedcost")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 1<<20) // 1MB
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("calculator.duty_base", string(landedcost.DutyBaseInclusive))
	v.SetDefault("calculator.currency", string(valueobject.CurrencyUSD))

	v.SetDefault("optimization.confidence_threshold", 0.5)
	v.SetDefault("optimization.max_recommendations", 3)
	v.SetDefault("optimization.seed_file", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.connect_timeout", 5*time.Second)
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	// These are explicitly bound for clarity
	_ = v.BindEnv("app.environment", EnvPrefix+"_ENVIRONMENT")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
}

// Validate checks the loaded values.
//
// Returns:
//   - error: every invalid setting, joined
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: use json or console", c.Log.Format))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		errs = append(errs, errors.New("rate_limit: requests_per_second and burst must be positive"))
	}
	if _, err := c.Calculator.ParseDutyBase(); err != nil {
		errs = append(errs, fmt.Errorf("calculator.duty_base: %w", err))
	}
	if _, err := valueobject.ParseCurrency(c.Calculator.Currency); err != nil {
		errs = append(errs, fmt.Errorf("calculator.currency: %w", err))
	}
	if t := c.Optimization.ConfidenceThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("optimization.confidence_threshold %.2f outside [0,1]", t))
	}
	if c.Optimization.MaxRecommendations < 1 {
		errs = append(errs, errors.New("optimization.max_recommendations must be at least 1"))
	}
	if c.Database.URL != "" && c.Database.MaxConns < 1 {
		errs = append(errs, errors.New("database.max_conns must be at least 1"))
	}

	return errors.Join(errs...)
}

// ParseDutyBase returns the configured duty base policy.
func (c CalculatorConfig) ParseDutyBase() (landedcost.DutyBase, error) {
	return landedcost.ParseDutyBase(c.DutyBase)
}

// ParseCurrency returns the configured default currency.
func (c CalculatorConfig) ParseCurrency() (valueobject.Currency, error) {
	return valueobject.ParseCurrency(c.Currency)
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
//
// Returns:
//   - *Config: The loaded configuration
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
