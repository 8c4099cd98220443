package internal

import (
	"io"

	"github.com/starford/hogwarts/internal/catalog"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	source     catalog.Source
	logOutput  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath enables log level reloads from the given config file.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithSource replaces the upstream HTTP client, mainly for tests.
func WithSource(src catalog.Source) Option {
	return func(a *application) {
		a.source = src
	}
}

// WithLogOutput sets where structured logs are written. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
