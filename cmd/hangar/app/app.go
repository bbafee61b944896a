// Package app provides the application context and dependency management
// for the hangar CLI. It centralizes configuration, logging and the lazily
// loaded reference data that every command resolves collections against.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/pkg/errors"
	"github.com/agentstation/hangar/pkg/inventory"
	"github.com/agentstation/hangar/pkg/reference"
)

// App represents the hangar application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Reference data (lazy-initialized, singleton)
	mu        sync.RWMutex
	reference *reference.Data
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Reference returns the reference data, loading it on first use from the
// configured data directory or the embedded snapshot. Load failures are
// not cached so a corrected directory can be retried.
func (a *App) Reference() (*reference.Data, error) {
	a.mu.RLock()
	if a.reference != nil {
		data := a.reference
		a.mu.RUnlock()
		return data, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.reference != nil {
		return a.reference, nil
	}

	data, err := a.loadReference()
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("version", data.Version.String()).
		Str("data_dir", a.config.DataDir).
		Msg("Reference data ready")

	a.reference = data
	return data, nil
}

// Aggregator returns an aggregator bound to the reference data.
func (a *App) Aggregator() (*inventory.Aggregator, error) {
	data, err := a.Reference()
	if err != nil {
		return nil, err
	}
	return inventory.NewAggregator(data.Store, data.Manifest, data.Resolver, inventory.WithLogger(a.logger)), nil
}

func (a *App) loadReference() (*reference.Data, error) {
	opts := []reference.Option{reference.WithLogger(a.logger)}
	if dir := a.config.XWingData2Dir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.WrapIO("open", dir, err)
		}
		if !info.IsDir() {
			return nil, &errors.ConfigError{Component: "xwing_data2_dir", Message: dir + " is not a directory"}
		}
		opts = append(opts, reference.WithXWingData2(os.DirFS(dir)))
	}

	if a.config.DataDir != "" {
		return reference.FromPath(a.config.DataDir, opts...)
	}
	return reference.Embedded(opts...)
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reference = nil
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithReference sets preloaded reference data (useful for testing).
func WithReference(data *reference.Data) Option {
	return func(a *App) error {
		a.reference = data
		return nil
	}
}
