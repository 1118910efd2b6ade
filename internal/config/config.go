package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

// Prefix is prepended to every environment variable name, e.g. USERBOOK_PORT.
const Prefix = "USERBOOK"

// Config holds the process configuration. Every field can be set from the
// environment; the CLI may override a few of them with flags.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Remote user directory
	DirectoryURL     string        `envconfig:"DIRECTORY_URL" default:"https://randomuser.me/api/"`
	DirectoryTimeout time.Duration `envconfig:"DIRECTORY_TIMEOUT" default:"10s"`

	// Locale used to collate grocery item names.
	Locale string `envconfig:"LOCALE" default:"en"`

	// Screen opens allowed per client IP per minute.
	ScreenRateLimit int `envconfig:"SCREEN_RATE_LIMIT" default:"30"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid %s_PORT: %d", Prefix, c.Port)
	}
	if c.DirectoryTimeout <= 0 {
		return fmt.Errorf("invalid %s_DIRECTORY_TIMEOUT: %s", Prefix, c.DirectoryTimeout)
	}
	if c.ScreenRateLimit <= 0 {
		return fmt.Errorf("invalid %s_SCREEN_RATE_LIMIT: %d", Prefix, c.ScreenRateLimit)
	}
	u, err := url.Parse(c.DirectoryURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid %s_DIRECTORY_URL: %q", Prefix, c.DirectoryURL)
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// Language parses Locale into a language tag.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid %s_LOCALE %q: %w", Prefix, c.Locale, err)
	}
	return tag, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
