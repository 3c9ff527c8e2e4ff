// Package config loads the relay's runtime configuration from the process
// environment. The configuration is built once at startup and passed down;
// nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for one relay run.
type Config struct {
	CookiebotAPIKey        string `env:"COOKIEBOT_API_KEY"`
	CookiebotDomainGroupID string `env:"COOKIEBOT_DOMAIN_GROUP_ID"`
	CookiebotDomain        string `env:"COOKIEBOT_DOMAIN"`
	NewRelicAccountID      string `env:"NEW_RELIC_ACCOUNT_ID"`
	NewRelicIngestKey      string `env:"NEW_RELIC_INGEST_KEY"`

	Environment string `env:"ENVIRONMENT" envDefault:"prod"`

	// Explicit window overrides, 8-digit YYYYMMDD. Either both or neither.
	StartDate string `env:"STARTDATE"`
	EndDate   string `env:"ENDDATE"`

	// Raw lookback value. daterange.Resolve coerces it, falling back to
	// 1 day on anything non-numeric or non-positive.
	LookbackDays string `env:"LOOKBACK_DAYS" envDefault:"1"`

	// Endpoint overrides, used by tests and region changes.
	CookiebotBaseURL string `env:"COOKIEBOT_BASE_URL" envDefault:"https://consent.cookiebot.com"`
	NewRelicBaseURL  string `env:"NEW_RELIC_BASE_URL" envDefault:"https://insights-collector.eu01.nr-data.net"`

	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT_SECONDS" envDefault:"30"`
}

// Timeout returns the configured HTTP timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load reads configuration from the environment and validates it.
// A .env file, if present, is loaded first so local runs can keep secrets
// out of the shell; scheduled runs use real environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and cross-field constraints. Blank-after-
// trim counts as missing so a quoted empty string in a unit file fails the
// same way an unset variable does.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"COOKIEBOT_API_KEY", c.CookiebotAPIKey},
		{"COOKIEBOT_DOMAIN_GROUP_ID", c.CookiebotDomainGroupID},
		{"COOKIEBOT_DOMAIN", c.CookiebotDomain},
		{"NEW_RELIC_ACCOUNT_ID", c.NewRelicAccountID},
		{"NEW_RELIC_INGEST_KEY", c.NewRelicIngestKey},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if (c.StartDate == "") != (c.EndDate == "") {
		return fmt.Errorf("STARTDATE and ENDDATE must be set together")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	return nil
}
