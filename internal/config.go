package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/hogwarts/internal/upstream"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app" envPrefix:"HOGWARTS_"`
	Upstream UpstreamConfig    `yaml:"upstream" envPrefix:"HOGWARTS_UPSTREAM_"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Upstream.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http" envPrefix:"HTTP_"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// UpstreamConfig describes the character API the catalog is loaded from.
//
// Timeout bounds each upstream request; zero leaves the transport
// defaults in place.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT"`
}

// Validate validates the upstream configuration.
func (c *UpstreamConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Upstream: UpstreamConfig{
			BaseURL:   upstream.DefaultBaseURL,
			UserAgent: "hogwarts/" + Version,
		},
	}
}
