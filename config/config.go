// Package config provides application configuration loading from environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	DBPath        string
	LogLevel      string
	JWTSecret     string
	TokenDuration time.Duration
	CORSOrigins   []string
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      os.Getenv("PORT"),
		DBPath:    os.Getenv("DB_PATH"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.TokenDuration = 24 * time.Hour
	if hrs := os.Getenv("TOKEN_DURATION_HOURS"); hrs != "" {
		if h, err := strconv.Atoi(hrs); err == nil && h > 0 {
			cfg.TokenDuration = time.Duration(h) * time.Hour
		}
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
