package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	JWT      JWTConfig
	Bridge   BridgeConfig
	Telegram TelegramConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	BaseURL  string
}

// JWTConfig holds JWT configuration for the admin API
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	APIKey           string
}

// BridgeConfig holds settings for the device bridge itself: the reference
// timezone naive device timestamps are interpreted in, the fallback shift
// end used when a work calendar yields no interval for the day, and fetch
// tuning.
type BridgeConfig struct {
	Timezone       string
	DefaultWorkEnd string // "15:04" local wall clock
	DeviceTimeout  time.Duration
	FetchPageSize  int
	FetchOverlap   time.Duration
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

func Load() (*Config, error) {
	// Missing .env is fine in production; variables come from the environment.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "faceid-bridge"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  getEnv("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", appPort)),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
		APIKey:           getEnv("BRIDGE_API_KEY", ""),
	}

	deviceTimeout, err := time.ParseDuration(getEnv("DEVICE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_TIMEOUT: %w", err)
	}

	fetchPageSize, err := strconv.Atoi(getEnv("FETCH_PAGE_SIZE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_PAGE_SIZE: %w", err)
	}

	fetchOverlap, err := time.ParseDuration(getEnv("FETCH_OVERLAP", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_OVERLAP: %w", err)
	}

	config.Bridge = BridgeConfig{
		Timezone:       getEnv("BRIDGE_TIMEZONE", "Asia/Tashkent"),
		DefaultWorkEnd: getEnv("BRIDGE_DEFAULT_WORK_END", "18:00"),
		DeviceTimeout:  deviceTimeout,
		FetchPageSize:  fetchPageSize,
		FetchOverlap:   fetchOverlap,
	}

	config.Telegram = TelegramConfig{
		BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.APIKey == "" {
		return fmt.Errorf("BRIDGE_API_KEY is required")
	}
	if _, err := time.LoadLocation(c.Bridge.Timezone); err != nil {
		return fmt.Errorf("invalid BRIDGE_TIMEZONE: %w", err)
	}
	if _, err := time.Parse("15:04", c.Bridge.DefaultWorkEnd); err != nil {
		return fmt.Errorf("invalid BRIDGE_DEFAULT_WORK_END: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the bridge reference timezone. Validate has already
// checked the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Bridge.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
