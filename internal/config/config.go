// Package config loads service configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	APIKey   string `envconfig:"API_KEY" required:"true"`

	// Issue tracker holding the review tickets.
	TrackerRepo    string `envconfig:"TRACKER_REPO" required:"true"` // owner/repo
	TrackerToken   string `envconfig:"TRACKER_TOKEN" required:"true"`
	TrackerBaseURL string `envconfig:"TRACKER_BASE_URL" default:"https://api.github.com"`

	// Outbound notification webhook; empty disables delivery.
	NotifyWebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL"`

	// Journal identity used when deriving publication metadata.
	JournalAbbreviation string `envconfig:"JOURNAL_ABBREVIATION" default:"NeuroLibre"`
	DOIPrefix           string `envconfig:"DOI_PREFIX" default:"10.55458"`
	SiteURL             string `envconfig:"SITE_URL" default:"https://neurolibre.org"`
	PapersURL           string `envconfig:"PAPERS_HTML_URL" default:"https://papers.neurolibre.org"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
