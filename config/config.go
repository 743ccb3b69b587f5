package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the immutable process configuration, loaded once at startup.
// The JWT secret lives here and nowhere else.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	SMTPHost    string
	SMTPPort    int
	EmailUser   string
	EmailPass   string
	RedisAddr   string
}

// Load reads .env if present, then the environment. DATABASE_URL and
// JWT_SECRET are required; everything else has a usable zero value.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg := &Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		EmailUser:   os.Getenv("EMAIL_USER"),
		EmailPass:   os.Getenv("EMAIL_PASS"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
		}
		cfg.SMTPPort = p
	}
	return cfg, nil
}
