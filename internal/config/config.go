// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest): environment variables (prefix SHAGQA_, plus
// GEMINI_API_KEY for the model credential), an optional shagqa.yaml in the
// working directory, and defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation, checked with errors.Is.
var (
	// ErrMissingCSVPath indicates no archive CSV path is configured.
	ErrMissingCSVPath = errors.New("missing archive CSV path")

	// ErrInvalidRateLimit indicates the per-window request budget is invalid.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidDailyLimit indicates the daily message budget is invalid.
	ErrInvalidDailyLimit = errors.New("invalid daily limit")

	// ErrInvalidExcerptBudget indicates the document excerpt cap is invalid.
	ErrInvalidExcerptBudget = errors.New("invalid excerpt budget")

	// ErrInvalidAddr indicates the listen address is empty.
	ErrInvalidAddr = errors.New("invalid listen address")
)

// Config stores application configuration.
// The API key is sensitive: it is read from the environment only and never
// written back to a config file or logged.
type Config struct {
	// HTTP server
	Addr       string `mapstructure:"addr"`
	TrustProxy bool   `mapstructure:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For behind a reverse proxy

	// Data sources
	CSVPath     string `mapstructure:"csv_path"`
	DataDir     string `mapstructure:"data_dir"`
	QuotaDBPath string `mapstructure:"quota_db_path"`

	// Model
	APIKey             string `mapstructure:"api_key"` // from GEMINI_API_KEY
	ModelName          string `mapstructure:"model_name"`
	CallTimeoutSeconds int    `mapstructure:"call_timeout_seconds"`

	// Gate limits
	RateLimit         int `mapstructure:"rate_limit"`          // requests per window per identity
	RateWindowMinutes int `mapstructure:"rate_window_minutes"` // sliding window length
	DailyLimit        int `mapstructure:"daily_limit"`         // shared messages per day

	// Knowledge base
	ExcerptBudget int `mapstructure:"excerpt_budget"` // chars quoted per rule document
	SampleSize    int `mapstructure:"sample_size"`    // records appended as grounding context

	// Answer cache
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"` // 0 disables caching

	// Logging
	LogJSON  bool   `mapstructure:"log_json"`
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("shagqa")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("SHAGQA")
	v.AutomaticEnv()

	// The model credential follows the SDK's conventional variable name
	// rather than the SHAGQA_ prefix.
	if err := v.BindEnv("api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("trust_proxy", false)

	v.SetDefault("csv_path", "data/Shaggy_Shag_Archives_Final.csv")
	v.SetDefault("data_dir", "data")
	v.SetDefault("quota_db_path", "quota.db")

	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("call_timeout_seconds", 30)

	v.SetDefault("rate_limit", 10)
	v.SetDefault("rate_window_minutes", 1)
	v.SetDefault("daily_limit", 50)

	v.SetDefault("excerpt_budget", 2000)
	v.SetDefault("sample_size", 5)
	v.SetDefault("cache_ttl_minutes", 60)

	v.SetDefault("log_json", false)
	v.SetDefault("log_level", "info")
}

// Validate fails fast on configuration the service cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidAddr
	}
	if c.CSVPath == "" {
		return ErrMissingCSVPath
	}
	if c.RateLimit <= 0 || c.RateWindowMinutes <= 0 {
		return fmt.Errorf("%w: %d per %d minutes", ErrInvalidRateLimit, c.RateLimit, c.RateWindowMinutes)
	}
	if c.DailyLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDailyLimit, c.DailyLimit)
	}
	if c.ExcerptBudget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidExcerptBudget, c.ExcerptBudget)
	}
	return nil
}

// RateWindow returns the sliding-window length as a duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowMinutes) * time.Minute
}

// CallTimeout returns the per-call model timeout as a duration.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// CacheTTL returns the answer-cache TTL; zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
