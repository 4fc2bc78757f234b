package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	App         AppConfig
	Storage     StorageConfig
	BusinessDay BusinessDayConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// BusinessDayConfig shapes the venue's operating day. The defaults match
// a bar open from evening into the following morning.
type BusinessDayConfig struct {
	StartHour    int
	EndHour      int
	GraceMinutes int
}

func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
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
		Name:     getEnv("DB_NAME", "timeclock"),
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
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	// Business-day configuration
	startHour, err := strconv.Atoi(getEnv("BUSINESS_DAY_START_HOUR", "18"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_DAY_START_HOUR: %w", err)
	}
	endHour, err := strconv.Atoi(getEnv("BUSINESS_DAY_END_HOUR", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_DAY_END_HOUR: %w", err)
	}
	graceMinutes, err := strconv.Atoi(getEnv("BUSINESS_DAY_GRACE_MINUTES", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_DAY_GRACE_MINUTES: %w", err)
	}

	config.BusinessDay = BusinessDayConfig{
		StartHour:    startHour,
		EndHour:      endHour,
		GraceMinutes: graceMinutes,
	}

	// Validate required fields
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
	if c.BusinessDay.StartHour < 0 || c.BusinessDay.StartHour > 23 {
		return fmt.Errorf("BUSINESS_DAY_START_HOUR must be within 0-23")
	}
	if c.BusinessDay.EndHour < 0 || c.BusinessDay.EndHour > 23 {
		return fmt.Errorf("BUSINESS_DAY_END_HOUR must be within 0-23")
	}
	if c.BusinessDay.GraceMinutes < 0 {
		return fmt.Errorf("BUSINESS_DAY_GRACE_MINUTES must not be negative")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
