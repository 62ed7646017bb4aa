package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL"`
	JWTSecret   string   `env:"JWT_SECRET"`
	JWTIssuer   string   `env:"JWT_ISSUER" envDefault:"thorfins-backend"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Mail        Mail     `envPrefix:"MAIL_"`
}

// Mail configures the transactional-email API used for verification codes.
// With an empty APIKey, outgoing mail is logged instead of sent.
type Mail struct {
	APIKey      string `env:"API_KEY"`
	APIURL      string `env:"API_URL" envDefault:"https://api.brevo.com/v3/smtp/email"`
	SenderName  string `env:"SENDER_NAME" envDefault:"Thorfins"`
	SenderEmail string `env:"SENDER_EMAIL" envDefault:"no-reply@thorfins.app"`
}

// Load parses configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}
