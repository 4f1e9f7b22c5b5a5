package config_test

import (
	"testing"

	"github.com/ases-trading/ases/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "ases-trading", cfg.Firebase.ProjectID)
	assert.Equal(t, "./serviceAccountKey.json", cfg.Firebase.CredentialPath)
	assert.Equal(t, "ases_", cfg.Firebase.CollectionPrefix)

	assert.Equal(t, "binance", cfg.Exchange.ExchangeID)
	assert.Empty(t, cfg.Exchange.APIKey)
	assert.Empty(t, cfg.Exchange.APISecret)
	assert.True(t, cfg.Exchange.SandboxMode, "must start in paper trading mode")
	assert.Equal(t, 10, cfg.Exchange.RateLimit)
	assert.Equal(t, 30, cfg.Exchange.Timeout)

	assert.Equal(t, "info", cfg.System.LogLevel)
	assert.Equal(t, 5, cfg.System.MaxConcurrentStrategies)
	assert.Equal(t, 24, cfg.System.EvolutionCycleHours)
	assert.Equal(t, 30, cfg.System.MinBacktestPeriodDays)
	assert.InDelta(t, 0.20, cfg.System.MaxDrawdownThreshold, 1e-9)
	assert.InDelta(t, 1.0, cfg.System.MinSharpeRatio, 1e-9)
	assert.Equal(t, map[string]float64{
		"min_profit_factor":  1.5,
		"min_win_rate":       0.45,
		"max_daily_loss":     0.05,
		"min_trades_per_day": 3,
	}, cfg.System.PerformanceThresholds)

	assert.Equal(t, []string{"5m", "15m", "1h", "4h", "1d"}, cfg.Strategy.AvailableTimeframes)
	assert.Equal(t, 5, cfg.Strategy.MaxIndicatorsPerStrategy)
	assert.Equal(t, []string{
		"sma", "ema", "rsi", "macd", "bollinger_bands",
		"atr", "stochastic", "obv", "vwap",
	}, cfg.Strategy.AvailableIndicators)
	assert.InDelta(t, 0.3, cfg.Strategy.MinCorrelationThreshold, 1e-9)
	assert.InDelta(t, 0.8, cfg.Strategy.MaxCorrelationThreshold, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "foo")
	t.Setenv("EXCHANGE_SANDBOX_MODE", "false")
	t.Setenv("EXCHANGE_RATE_LIMIT", "25")
	t.Setenv("MAX_DRAWDOWN_THRESHOLD", "0.35")

	cfg := config.Load()

	assert.Equal(t, "foo", cfg.Firebase.ProjectID)
	assert.False(t, cfg.Exchange.SandboxMode)
	assert.Equal(t, 25, cfg.Exchange.RateLimit)
	assert.InDelta(t, 0.35, cfg.System.MaxDrawdownThreshold, 1e-9)

	// Untouched fields keep their defaults
	assert.Equal(t, "./serviceAccountKey.json", cfg.Firebase.CredentialPath)
	assert.Equal(t, "binance", cfg.Exchange.ExchangeID)
	assert.InDelta(t, 1.0, cfg.System.MinSharpeRatio, 1e-9)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_LIMIT", "fast")
	t.Setenv("EXCHANGE_SANDBOX_MODE", "maybe")
	t.Setenv("MIN_SHARPE_RATIO", "1.5x")

	cfg := config.Load()

	assert.Equal(t, 10, cfg.Exchange.RateLimit)
	assert.True(t, cfg.Exchange.SandboxMode)
	assert.InDelta(t, 1.0, cfg.System.MinSharpeRatio, 1e-9)
}

func TestCollectionName(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		entity   string
		expected string
	}{
		{"default prefix", "ases_", "strategies", "ases_strategies"},
		{"custom prefix", "dev_", "performance", "dev_performance"},
		{"empty entity yields prefix only", "ases_", "", "ases_"},
		{"empty prefix", "", "strategies", "strategies"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fb := config.FirebaseConfig{CollectionPrefix: tc.prefix}
			assert.Equal(t, tc.expected, fb.CollectionName(tc.entity))
		})
	}
}
