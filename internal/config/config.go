// Package config reads the service configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret      string
	SessionTTL     time.Duration
	GoogleClientID string

	AppName        string
	AppBaseURL     string
	CORSOrigins    []string
	SendGridAPIKey string
	EmailSender    string
	MigrateToken   string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (if any) and the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	sessionTTL, err := durationOr("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	rps, err := floatOr("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := intOr("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		DatabaseURL:    databaseURL(),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     sessionTTL,
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		AppName:        envOr("APP_NAME", "Rabbit Farm"),
		AppBaseURL:     strings.TrimRight(envOr("APP_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:    splitList(envOr("CORS_ORIGIN", "*")),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    envOr("EMAIL_SENDER", "no-reply@localhost"),
		MigrateToken:   os.Getenv("MIGRATE_TOKEN"),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGIN must list at least one origin")
	}
	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from POSTGRES_*.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(envOr("POSTGRES_USER", "postgres"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432"),
		Path:     "/" + envOr("POSTGRES_DB", "rabbitfarm"),
		RawQuery: "sslmode=" + envOr("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func intOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func floatOr(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, v)
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
