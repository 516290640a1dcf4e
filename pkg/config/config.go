// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Analysis tuning
	UnitPriceMeanThreshold float64 // revenue-derivation heuristic cutoff
	OutlierQuantile        float64 // upper-tail trim percentile
	TopProductCount        int

	// CSV decoding attempt order
	CSVEncodings []string

	// Optional database sources (nil when the environment is not configured)
	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from a local .env file (if present) and the
// environment. Database sources are optional: their configs stay nil unless
// the corresponding environment is set.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		UnitPriceMeanThreshold: getEnvAsFloat("UNIT_PRICE_MEAN_THRESHOLD", 1000),
		OutlierQuantile:        getEnvAsFloat("OUTLIER_QUANTILE", 0.99),
		TopProductCount:        getEnvAsInt("TOP_PRODUCT_COUNT", 10),
		CSVEncodings:           getEnvAsStringSlice("CSV_ENCODINGS", []string{"utf-8", "iso-8859-1"}),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
	}

	if os.Getenv("POSTGRES_USER") != "" {
		pgCfg, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgCfg
	}

	if os.Getenv("SNOWFLAKE_USER") != "" {
		snowCfg, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is present.
func Default() *Config {
	return &Config{
		UnitPriceMeanThreshold: 1000,
		OutlierQuantile:        0.99,
		TopProductCount:        10,
		CSVEncodings:           []string{"utf-8", "iso-8859-1"},
		LogLevel:               "info",
		LogFormat:              "json",
	}
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.OutlierQuantile <= 0 || c.OutlierQuantile > 1 {
		return errors.New("outlier quantile must be in (0, 1]")
	}

	if c.UnitPriceMeanThreshold < 0 {
		return errors.New("unit price mean threshold cannot be negative")
	}

	if c.TopProductCount <= 0 {
		return errors.New("top product count must be positive")
	}

	if len(c.CSVEncodings) == 0 {
		return errors.New("at least one CSV encoding is required")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
