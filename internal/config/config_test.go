package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Addr:              "127.0.0.1:8080",
		CSVPath:           "data/archive.csv",
		RateLimit:         10,
		RateWindowMinutes: 1,
		DailyLimit:        50,
		ExcerptBudget:     2000,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, ErrInvalidAddr},
		{"missing csv", func(c *Config) { c.CSVPath = "" }, ErrMissingCSVPath},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }, ErrInvalidRateLimit},
		{"zero window", func(c *Config) { c.RateWindowMinutes = 0 }, ErrInvalidRateLimit},
		{"zero daily limit", func(c *Config) { c.DailyLimit = 0 }, ErrInvalidDailyLimit},
		{"zero excerpt budget", func(c *Config) { c.ExcerptBudget = 0 }, ErrInvalidExcerptBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.RateLimit)
	}
	if cfg.DailyLimit != 50 {
		t.Errorf("DailyLimit = %d, want 50", cfg.DailyLimit)
	}
	if cfg.ExcerptBudget != 2000 {
		t.Errorf("ExcerptBudget = %d, want 2000", cfg.ExcerptBudget)
	}
	if got := cfg.RateWindow().Minutes(); got != 1 {
		t.Errorf("RateWindow() = %v minutes, want 1", got)
	}
}
