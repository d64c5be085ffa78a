package config

import (
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the relay's runtime settings, read from environment
// variables. The websocket protocol itself has no configuration surface;
// everything here is bind address, asset location, and the optional
// notification side channel.
type Config struct {
	Host      string `env:"HOST" envDefault:""`
	Port      int    `env:"PORT" envDefault:"8001"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`

	// SMTP settings for the notification side channel. Notifications fall
	// back to the process log when SMTPHost or EmailTo is empty.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`
	EmailTo      string `env:"EMAIL_TO"`
}

// Load reads configuration from the environment, loading a .env file first
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NotificationsEnabled reports whether the SMTP side channel is usable.
func (c *Config) NotificationsEnabled() bool {
	return c.SMTPHost != "" && c.EmailFrom != "" && c.EmailTo != ""
}
