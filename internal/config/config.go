package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds runtime configuration resolved from the environment
type Config struct {
	Environment string
	LogLevel    string

	Provider struct {
		Name     string // "csv" or "bybit"
		DataRoot string // root directory for the csv provider
	}

	Exchange struct {
		APIKey  string
		Secret  string
		Testnet bool
	}

	Risk struct {
		MaxPositionSize             float64
		SafeDailyVolatility         float64
		ExtremeDailyVolatility      float64
		CorrelationWarningThreshold float64
		LookbackSamples             int
		FetchWorkers                int
	}

	Monitoring struct {
		PrometheusPort int
	}
}

// Load builds a Config from environment variables with sensible defaults
func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Provider.Name = getEnv("PRICE_PROVIDER", "csv")
	cfg.Provider.DataRoot = getEnv("DATA_ROOT", "data")

	cfg.Exchange.APIKey = getEnv("BYBIT_API_KEY", "")
	cfg.Exchange.Secret = getEnv("BYBIT_API_SECRET", "")
	cfg.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", false)

	cfg.Risk.MaxPositionSize = getEnvFloat("RISK_MAX_POSITION_SIZE", 0.15)
	cfg.Risk.SafeDailyVolatility = getEnvFloat("RISK_SAFE_DAILY_VOL", 0.03)
	cfg.Risk.ExtremeDailyVolatility = getEnvFloat("RISK_EXTREME_DAILY_VOL", 0.10)
	cfg.Risk.CorrelationWarningThreshold = getEnvFloat("RISK_CORR_WARNING", 0.70)
	cfg.Risk.LookbackSamples = getEnvInt("RISK_LOOKBACK_SAMPLES", 60)
	cfg.Risk.FetchWorkers = getEnvInt("RISK_FETCH_WORKERS", 0)

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 0)

	return cfg
}

// Validate checks the loaded configuration for obvious misconfiguration
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "csv", "bybit":
	default:
		return fmt.Errorf("unknown price provider %q (expected csv or bybit)", c.Provider.Name)
	}

	if c.Provider.Name == "csv" && c.Provider.DataRoot == "" {
		return fmt.Errorf("DATA_ROOT is required for the csv provider")
	}

	if c.Monitoring.PrometheusPort < 0 || c.Monitoring.PrometheusPort > 65535 {
		return fmt.Errorf("invalid PROMETHEUS_PORT %d", c.Monitoring.PrometheusPort)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
