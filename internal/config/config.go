// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                    int
	DatabasePath            string
	CoinGeckoBaseURL        string
	CoinGeckoAPIKey         string
	SnapshotRefreshSchedule string
	MarketPageSize          int
	PopularAssetCount       int
	LogLevel                string
	DevMode                 bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnvAsInt("PORT", 8080),
		DevMode:                 getEnvAsBool("DEV_MODE", false),
		DatabasePath:            getEnv("DATABASE_PATH", "./data/cryptofolio.db"),
		CoinGeckoBaseURL:        getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoAPIKey:         getEnv("COINGECKO_API_KEY", ""),
		SnapshotRefreshSchedule: getEnv("SNAPSHOT_REFRESH_SCHEDULE", "@every 2m"),
		MarketPageSize:          getEnvAsInt("MARKET_PAGE_SIZE", 50),
		PopularAssetCount:       getEnvAsInt("POPULAR_ASSET_COUNT", 4),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.CoinGeckoBaseURL == "" {
		return fmt.Errorf("COINGECKO_BASE_URL is required")
	}
	if c.MarketPageSize < 1 || c.MarketPageSize > 250 {
		return fmt.Errorf("MARKET_PAGE_SIZE must be between 1 and 250")
	}
	if c.PopularAssetCount < 1 || c.PopularAssetCount > c.MarketPageSize {
		return fmt.Errorf("POPULAR_ASSET_COUNT must be between 1 and MARKET_PAGE_SIZE")
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
