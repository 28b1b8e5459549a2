// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"payflow-wallet/pkg/db"
)

// AppConfig holds all application-wide configuration. Everything comes from the
// environment; service credentials are never embedded as literals.
type AppConfig struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DB db.Config

	JWTSecret string `env:"JWT_SECRET,notEmpty"`

	// Exchange rate provider (see internal/rates).
	RateProviderURL string `env:"RATE_PROVIDER_URL" envDefault:"https://api.exchangerate.host/convert"`

	// Transaction receipt emails (see internal/notification).
	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	EmailFrom      string `env:"EMAIL_FROM" envDefault:"receipts@payflow.example"`
	EmailFromName  string `env:"EMAIL_FROM_NAME" envDefault:"PayFlow"`
}

// LoadConfig loads configuration from a .env file (if present) and the
// environment.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
