// Package config provides configuration management functionality.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// FirebaseConfig holds Firestore project and collection naming configuration
type FirebaseConfig struct {
	ProjectID        string
	CredentialPath   string
	CollectionPrefix string
}

// CollectionName returns the physical collection name for a logical entity.
// The prefix is prepended verbatim; no sanitization is performed.
func (f FirebaseConfig) CollectionName(entity string) string {
	return f.CollectionPrefix + entity
}

// ExchangeConfig holds exchange connection configuration
type ExchangeConfig struct {
	ExchangeID  string
	APIKey      string
	APISecret   string
	SandboxMode bool // Always start in paper trading mode unless explicitly overridden
	RateLimit   int  // requests per second
	Timeout     int  // in seconds
}

// SystemConfig holds system-wide configuration
type SystemConfig struct {
	LogLevel                string
	MaxConcurrentStrategies int
	EvolutionCycleHours     int
	MinBacktestPeriodDays   int
	MaxDrawdownThreshold    float64
	MinSharpeRatio          float64

	// PerformanceThresholds maps named performance gates to their limits.
	// Keys are fixed; values are tunable.
	PerformanceThresholds map[string]float64
}

// StrategyConfig holds strategy generation and testing configuration
type StrategyConfig struct {
	AvailableTimeframes      []string
	MaxIndicatorsPerStrategy int
	AvailableIndicators      []string
	MinCorrelationThreshold  float64
	MaxCorrelationThreshold  float64
}

// Config is the main configuration container. It is built once at process
// start by Load and passed by reference into every component that needs it;
// callers must treat it as read-only.
type Config struct {
	Firebase FirebaseConfig
	Exchange ExchangeConfig
	System   SystemConfig
	Strategy StrategyConfig
}

// Load reads configuration from environment variables.
// Every field has a static default; absent or malformed environment values
// fall back to the default (malformed values are logged as warnings), so
// loading never fails.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Firebase: FirebaseConfig{
			ProjectID:        getEnv("FIREBASE_PROJECT_ID", "ases-trading"),
			CredentialPath:   getEnv("FIREBASE_CREDENTIAL_PATH", "./serviceAccountKey.json"),
			CollectionPrefix: getEnv("FIREBASE_COLLECTION_PREFIX", "ases_"),
		},
		Exchange: ExchangeConfig{
			ExchangeID:  getEnv("EXCHANGE_ID", "binance"),
			APIKey:      getEnv("EXCHANGE_API_KEY", ""),
			APISecret:   getEnv("EXCHANGE_API_SECRET", ""),
			SandboxMode: getEnvAsBool("EXCHANGE_SANDBOX_MODE", true),
			RateLimit:   getEnvAsInt("EXCHANGE_RATE_LIMIT", 10),
			Timeout:     getEnvAsInt("EXCHANGE_TIMEOUT_SECONDS", 30),
		},
		System: SystemConfig{
			LogLevel:                getEnv("LOG_LEVEL", "info"),
			MaxConcurrentStrategies: getEnvAsInt("MAX_CONCURRENT_STRATEGIES", 5),
			EvolutionCycleHours:     getEnvAsInt("EVOLUTION_CYCLE_HOURS", 24),
			MinBacktestPeriodDays:   getEnvAsInt("MIN_BACKTEST_PERIOD_DAYS", 30),
			MaxDrawdownThreshold:    getEnvAsFloat("MAX_DRAWDOWN_THRESHOLD", 0.20),
			MinSharpeRatio:          getEnvAsFloat("MIN_SHARPE_RATIO", 1.0),
			PerformanceThresholds: map[string]float64{
				"min_profit_factor":  1.5,
				"min_win_rate":       0.45,
				"max_daily_loss":     0.05,
				"min_trades_per_day": 3,
			},
		},
		Strategy: StrategyConfig{
			AvailableTimeframes:      []string{"5m", "15m", "1h", "4h", "1d"},
			MaxIndicatorsPerStrategy: getEnvAsInt("MAX_INDICATORS_PER_STRATEGY", 5),
			AvailableIndicators: []string{
				"sma", "ema", "rsi", "macd", "bollinger_bands",
				"atr", "stochastic", "obv", "vwap",
			},
			MinCorrelationThreshold: getEnvAsFloat("MIN_CORRELATION_THRESHOLD", 0.3),
			MaxCorrelationThreshold: getEnvAsFloat("MAX_CORRELATION_THRESHOLD", 0.8),
		},
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			log.Warn().Str("key", key).Str("value", value).Int("default", defaultValue).
				Msg("Malformed integer environment value, using default")
			return defaultValue
		}
		return intVal
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			log.Warn().Str("key", key).Str("value", value).Bool("default", defaultValue).
				Msg("Malformed boolean environment value, using default")
			return defaultValue
		}
		return boolVal
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warn().Str("key", key).Str("value", value).Float64("default", defaultValue).
				Msg("Malformed float environment value, using default")
			return defaultValue
		}
		return floatVal
	}
	return defaultValue
}
