package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Market    MarketConfig
	Bank      BankConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MarketConfig holds market-data refresh configuration
type MarketConfig struct {
	ProviderURL      string
	RefreshInterval  time.Duration
	ErrorBackoff     time.Duration
	HistoryLimit     int
	TradeProbability float64
}

// BankConfig holds the digital bank CSV store configuration
type BankConfig struct {
	CSVPath string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "5000"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Market: MarketConfig{
			ProviderURL:      getEnv("MARKET_PROVIDER_URL", "https://query1.finance.yahoo.com"),
			RefreshInterval:  getEnvAsDuration("MARKET_REFRESH_INTERVAL", 5*time.Second),
			ErrorBackoff:     getEnvAsDuration("MARKET_ERROR_BACKOFF", 10*time.Second),
			HistoryLimit:     getEnvAsInt("MARKET_HISTORY_LIMIT", 1000),
			TradeProbability: getEnvAsFloat("MARKET_TRADE_PROBABILITY", 0.1),
		},
		Bank: BankConfig{
			CSVPath: getEnv("BANK_CSV_PATH", "data/digital_bank.csv"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}, ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Market.HistoryLimit <= 0 {
		return nil, fmt.Errorf("MARKET_HISTORY_LIMIT must be positive")
	}
	if cfg.Market.TradeProbability < 0 || cfg.Market.TradeProbability > 1 {
		return nil, fmt.Errorf("MARKET_TRADE_PROBABILITY must be within [0,1]")
	}

	return cfg, nil
}

// Address returns the full server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction returns true if running in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, separator string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, separator)
}
