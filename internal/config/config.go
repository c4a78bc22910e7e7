// Package config loads backtest configuration from environment
// variables, with sane defaults for every field.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds backtest configuration.
type Config struct {
	Symbol          string
	DataFile        string
	StartingCapital decimal.Decimal
	Commission      decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	LookbackWindow  int

	// HaltOnOrderError aborts a run on the first rejected order
	// instead of continuing to the next bar.
	HaltOnOrderError bool

	LogLevel  string
	LogFormat string
}

// Default returns the default backtest configuration.
func Default() *Config {
	return &Config{
		Symbol:          "BTC-USD",
		StartingCapital: decimal.NewFromFloat(10000),
		Commission:      decimal.Zero,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from environment variables on top of the
// defaults.
func Load() (*Config, error) {
	cfg := Default()

	if symbol := os.Getenv("BACKTEST_SYMBOL"); symbol != "" {
		cfg.Symbol = symbol
	}
	if file := os.Getenv("BACKTEST_DATA_FILE"); file != "" {
		cfg.DataFile = file
	}
	if value := os.Getenv("BACKTEST_CAPITAL"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil || !parsed.IsPositive() {
			return nil, fmt.Errorf("BACKTEST_CAPITAL must be a positive number, got %q", value)
		}
		cfg.StartingCapital = parsed
	}
	if value := os.Getenv("BACKTEST_COMMISSION"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil || parsed.IsNegative() || parsed.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("BACKTEST_COMMISSION must be in [0,1), got %q", value)
		}
		cfg.Commission = parsed
	}
	if value := os.Getenv("BACKTEST_START_DATE"); value != "" {
		t, err := parseDateEnv(value)
		if err != nil {
			return nil, fmt.Errorf("BACKTEST_START_DATE: %w", err)
		}
		cfg.StartDate = t
	}
	if value := os.Getenv("BACKTEST_END_DATE"); value != "" {
		t, err := parseDateEnv(value)
		if err != nil {
			return nil, fmt.Errorf("BACKTEST_END_DATE: %w", err)
		}
		cfg.EndDate = t
	}
	if val := parseIntEnv("BACKTEST_LOOKBACK_WINDOW", cfg.LookbackWindow); val >= 0 {
		cfg.LookbackWindow = val
	}
	cfg.HaltOnOrderError = os.Getenv("BACKTEST_HALT_ON_ORDER_ERROR") == "true"

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	return cfg, nil
}

func parseDateEnv(value string) (time.Time, error) {
	formats := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", value)
}

// parseIntEnv parses an integer environment variable
func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
