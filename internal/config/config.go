package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `json:"server"`
	Provider   ProviderConfig   `json:"provider"`
	Cache      CacheConfig      `json:"cache"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	Trending   TrendingConfig   `json:"trending"`
	Wallet     WalletConfig     `json:"wallet"`
	Classifier ClassifierConfig `json:"classifier"`
	Storage    StorageConfig    `json:"storage"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// ProviderConfig holds the upstream price/token provider configuration
type ProviderConfig struct {
	PriceEndpoint    string        `json:"price_endpoint"`
	TrendingEndpoint string        `json:"trending_endpoint"`
	Timeout          time.Duration `json:"timeout"`
	MaxRetries       int           `json:"max_retries"`
	RetryDelay       time.Duration `json:"retry_delay"`
}

// CacheConfig holds generic cache configuration
type CacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// RateLimitConfig holds outbound request throttling configuration
type RateLimitConfig struct {
	RequestsPerWindow int           `json:"requests_per_window"`
	WindowSize        time.Duration `json:"window_size"`
}

// TrendingConfig holds trending-token cache configuration
type TrendingConfig struct {
	RefreshInterval time.Duration `json:"refresh_interval"`
	ForegroundTTL   time.Duration `json:"foreground_ttl"`
	BackgroundTTL   time.Duration `json:"background_ttl"`
	MaxTTL          time.Duration `json:"max_ttl"`
	PageSize        int           `json:"page_size"`
	MaxPages        int           `json:"max_pages"`
	SearchLimit     int           `json:"search_limit"`
	MinQueryLength  int           `json:"min_query_length"`
}

// WalletConfig holds wallet ledger configuration
type WalletConfig struct {
	TrackedSymbol        string        `json:"tracked_symbol"`
	TrackedMint          string        `json:"tracked_mint"`
	PriceRefreshInterval time.Duration `json:"price_refresh_interval"`
	SwapSettlementDelay  time.Duration `json:"swap_settlement_delay"`
	// AlertMinDistancePercent is the minimum distance an alert target must
	// keep from the current price. Carried as a tunable, not an invariant.
	AlertMinDistancePercent float64 `json:"alert_min_distance_percent"`
}

// ClassifierConfig holds the heuristic scoring tunables
type ClassifierConfig struct {
	Threshold int `json:"threshold"`
}

// StorageConfig selects and configures the durable store backend
type StorageConfig struct {
	Backend       string `json:"backend"` // "file", "redis" or "memory"
	FileDir       string `json:"file_dir"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	KeyPrefix     string `json:"key_prefix"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string   `json:"level"`
	Environment string   `json:"environment"`
	OutputPaths []string `json:"output_paths"`
}

// LoadConfig loads configuration from the environment with defaults,
// reading a .env file first when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Provider: ProviderConfig{
			PriceEndpoint:    getEnv("PROVIDER_PRICE_ENDPOINT", "https://api.jup.ag/price/v2"),
			TrendingEndpoint: getEnv("PROVIDER_TRENDING_ENDPOINT", "https://tokens.jup.ag/tokens?tags=birdeye-trending"),
			Timeout:          getDurationEnv("PROVIDER_TIMEOUT", 30*time.Second),
			MaxRetries:       getIntEnv("PROVIDER_MAX_RETRIES", 3),
			RetryDelay:       getDurationEnv("PROVIDER_RETRY_DELAY", 1*time.Second),
		},
		Cache: CacheConfig{
			TTL: getDurationEnv("CACHE_TTL", 300*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getIntEnv("RATE_LIMIT_REQUESTS_PER_WINDOW", 300),
			WindowSize:        getDurationEnv("RATE_LIMIT_WINDOW_SIZE", time.Minute),
		},
		Trending: TrendingConfig{
			RefreshInterval: getDurationEnv("TRENDING_REFRESH_INTERVAL", 5*time.Minute),
			ForegroundTTL:   getDurationEnv("TRENDING_FOREGROUND_TTL", 10*time.Minute),
			BackgroundTTL:   getDurationEnv("TRENDING_BACKGROUND_TTL", 15*time.Minute),
			MaxTTL:          getDurationEnv("TRENDING_MAX_TTL", 30*time.Minute),
			PageSize:        getIntEnv("TRENDING_PAGE_SIZE", 10),
			MaxPages:        getIntEnv("TRENDING_MAX_PAGES", 3),
			SearchLimit:     getIntEnv("TRENDING_SEARCH_LIMIT", 5),
			MinQueryLength:  getIntEnv("TRENDING_MIN_QUERY_LENGTH", 3),
		},
		Wallet: WalletConfig{
			TrackedSymbol:           getEnv("WALLET_TRACKED_SYMBOL", "SOL"),
			TrackedMint:             getEnv("WALLET_TRACKED_MINT", "So11111111111111111111111111111111111111112"),
			PriceRefreshInterval:    getDurationEnv("WALLET_PRICE_REFRESH_INTERVAL", 30*time.Second),
			SwapSettlementDelay:     getDurationEnv("WALLET_SWAP_SETTLEMENT_DELAY", 2*time.Second),
			AlertMinDistancePercent: getFloatEnv("WALLET_ALERT_MIN_DISTANCE_PERCENT", 1.0),
		},
		Classifier: ClassifierConfig{
			Threshold: getIntEnv("CLASSIFIER_THRESHOLD", 45),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "file"),
			FileDir:       getEnv("STORAGE_FILE_DIR", "./data"),
			RedisAddr:     getEnv("STORAGE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("STORAGE_REDIS_PASSWORD", ""),
			RedisDB:       getIntEnv("STORAGE_REDIS_DB", 0),
			KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", "degentrader"),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("LOG_ENVIRONMENT", "development"),
			OutputPaths: getStringSliceEnv("LOG_OUTPUT_PATHS", []string{"stdout"}),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
