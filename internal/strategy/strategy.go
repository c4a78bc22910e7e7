// Package strategy ships ready-made decision logic for the runner.
// Each strategy registers its indicators during Setup and trades
// through the simulated account during Logic; none of them reach past
// the lookback they are handed.
package strategy

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return parsed
	}
	return defaultValue
}

// Config holds strategy configuration
type Config struct {
	ShortEMAPeriod int
	LongEMAPeriod  int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64

	// EntryFraction is the share of available cash committed per buy.
	EntryFraction decimal.Decimal
	// ExitPercent is the share of the position closed per sell.
	ExitPercent decimal.Decimal
}

// DefaultConfig returns default strategy configuration
func DefaultConfig() *Config {
	cfg := &Config{
		ShortEMAPeriod: 9,
		LongEMAPeriod:  21,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		RSIPeriod:      14,
		RSIOversold:    30.0,
		RSIOverbought:  70.0,
		EntryFraction:  decimal.NewFromFloat(0.95),
		ExitPercent:    decimal.NewFromInt(1),
	}

	if val := parseIntEnv("STRATEGY_SHORT_EMA", cfg.ShortEMAPeriod); val > 0 {
		cfg.ShortEMAPeriod = val
	}
	if val := parseIntEnv("STRATEGY_LONG_EMA", cfg.LongEMAPeriod); val > 0 {
		cfg.LongEMAPeriod = val
	}
	if val := parseIntEnv("STRATEGY_MACD_FAST", cfg.MACDFast); val > 0 {
		cfg.MACDFast = val
	}
	if val := parseIntEnv("STRATEGY_MACD_SLOW", cfg.MACDSlow); val > 0 {
		cfg.MACDSlow = val
	}
	if val := parseIntEnv("STRATEGY_MACD_SIGNAL", cfg.MACDSignal); val > 0 {
		cfg.MACDSignal = val
	}
	if val := parseIntEnv("STRATEGY_RSI_PERIOD", cfg.RSIPeriod); val > 0 {
		cfg.RSIPeriod = val
	}
	if val := parseFloatEnv("STRATEGY_RSI_OVERSOLD", cfg.RSIOversold); val > 0 {
		cfg.RSIOversold = val
	}
	if val := parseFloatEnv("STRATEGY_RSI_OVERBOUGHT", cfg.RSIOverbought); val > 0 {
		cfg.RSIOverbought = val
	}
	if val := parseFloatEnv("STRATEGY_ENTRY_FRACTION", 0); val > 0 && val <= 1 {
		cfg.EntryFraction = decimal.NewFromFloat(val)
	}
	if val := parseFloatEnv("STRATEGY_EXIT_PERCENT", 0); val > 0 && val <= 1 {
		cfg.ExitPercent = decimal.NewFromFloat(val)
	}

	return cfg
}
