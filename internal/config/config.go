package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"3000"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`

	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	ClientURL      string   `env:"CLIENT_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	TokenPruneInterval time.Duration `env:"TOKEN_PRUNE_INTERVAL" envDefault:"1h"`

	// Optional Discord or Slack channel that mirrors every notification.
	NotificationWebhookURL  string `env:"NOTIFICATION_WEBHOOK_URL"`
	NotificationWebhookKind string `env:"NOTIFICATION_WEBHOOK_KIND" envDefault:"discord"`

	BootstrapAdmin BootstrapAdmin `envPrefix:"BOOTSTRAP_ADMIN_"`
}

// BootstrapAdmin describes an approved ADMIN account created on first start.
type BootstrapAdmin struct {
	Username string `env:"USERNAME"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

// Enabled reports whether enough fields are set to create the account.
func (b BootstrapAdmin) Enabled() bool {
	return b.Username != "" && b.Password != ""
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DatabaseURL == "" && cfg.DatabaseDriver != "sqlite" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// Origins returns the CORS allow-list: development defaults, CLIENT_URL and
// ALLOWED_ORIGINS, in that order.
func (c Config) Origins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}

	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
