package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port int    `envconfig:"PORT" default:"5000"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	UsersFile      string `envconfig:"USERS_FILE" default:"data/users.json"`
	SleepFile      string `envconfig:"SLEEP_FILE" default:"data/sleep_entries.json"`
	LogsFile       string `envconfig:"LOGS_FILE" default:"data/request_logs.json"`

	JWTSecret        string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpire        time.Duration `envconfig:"JWT_EXPIRE" default:"720h"`
	CookieExpireDays int           `envconfig:"JWT_COOKIE_EXPIRE" default:"30"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"*"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case "file":
		if c.UsersFile == "" || c.SleepFile == "" || c.LogsFile == "" {
			return errors.New("file storage requires USERS_FILE, SLEEP_FILE and LOGS_FILE to be set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.CookieExpireDays <= 0 {
		return errors.New("JWT_COOKIE_EXPIRE must be a positive number of days")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
