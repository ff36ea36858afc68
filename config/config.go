// config/config.go - Environment configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

type Config struct {
	Env         string
	Port        string
	CORSOrigins string
	JWTSecret   string
	TokenTTL    time.Duration

	LogLevel string
	LogFile  string

	RateLimitMax    int
	RateLimitWindow time.Duration

	Database Database
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "3000"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            getEnv("DB_NAME", "teamhub"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
	}

	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = 15 * time.Minute
	}

	return cfg, cfg.Validate()
}

// Validate checks for settings the server cannot run without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set (generate one with: openssl rand -base64 64)")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minJWTSecretLength)
	}
	if c.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN assembled from
// the individual DB_* settings.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
