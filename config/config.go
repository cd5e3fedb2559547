package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-provided settings. It is built once in main
// and passed to the components that need it.
type Config struct {
	Port        string
	BaseURL     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	TokenSecret string

	EmailFrom string
	SMTP      SMTPConfig

	PushyAPIKey   string
	WeatherAPIKey string
}

// SMTPConfig is the mail relay part of Config.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          envOr("PORT", "5000"),
		BaseURL:       envOr("BASE_URL", "http://localhost:5000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		TokenSecret:   os.Getenv("JSON_WEB_TOKEN"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			User:     os.Getenv("EMAIL_USERNAME"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
		PushyAPIKey:   os.Getenv("PUSHY_API_KEY"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("JSON_WEB_TOKEN is not set")
	}

	return cfg, nil
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
