package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	StaticDir      string
	AllowedOrigins []string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret            string
	TokenTTL             time.Duration
	AdminToken           string
	ReferralCodeAttempts int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttlDays, err := strconv.Atoi(getEnv("TOKEN_TTL_DAYS", "90"))
	if err != nil || ttlDays <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_DAYS must be a positive integer")
	}

	attempts, err := strconv.Atoi(getEnv("REFERRAL_CODE_ATTEMPTS", "5"))
	if err != nil || attempts <= 0 {
		return nil, fmt.Errorf("REFERRAL_CODE_ATTEMPTS must be a positive integer")
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", "users.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "referrals"),
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5000"),
			StaticDir:      getEnv("STATIC_DIR", "static"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		},
		App: AppConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			TokenTTL:             time.Duration(ttlDays) * 24 * time.Hour,
			AdminToken:           getEnv("ADMIN_TOKEN", ""),
			ReferralCodeAttempts: attempts,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch config.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	return config, nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
