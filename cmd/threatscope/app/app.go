// Package app wires configuration, logging, and the command tree for the
// threatscope CLI.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/threatscope/threatscope/internal/feeds/attack"
	"github.com/threatscope/threatscope/internal/feeds/sheets"
	"github.com/threatscope/threatscope/internal/storage"
	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/logging"
	"github.com/threatscope/threatscope/pkg/synonyms"
)

// App holds the CLI application state.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Feed clients are created lazily and shared across commands.
	attackOnce   sync.Once
	attackClient *attack.Client
	sheetsOnce   sync.Once
	sheetsClient *sheets.Client
}

// Option configures the App.
type Option func(*App) error

// WithConfig overrides the loaded configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		if cfg == nil {
			return &errors.ConfigError{
				Component: "app",
				Message:   "config cannot be nil",
			}
		}
		a.config = cfg
		return nil
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return &errors.ConfigError{
				Component: "app",
				Message:   "logger cannot be nil",
			}
		}
		a.logger = logger
		return nil
	}
}

// WithAttackClient substitutes the ATT&CK feed client, mainly for tests.
func WithAttackClient(client *attack.Client) Option {
	return func(a *App) error {
		if client == nil {
			return &errors.ConfigError{
				Component: "app",
				Message:   "attack client cannot be nil",
			}
		}
		a.attackClient = client
		return nil
	}
}

// WithSheetsClient substitutes the spreadsheet feed client, mainly for tests.
func WithSheetsClient(client *sheets.Client) Option {
	return func(a *App) error {
		if client == nil {
			return &errors.ConfigError{
				Component: "app",
				Message:   "sheets client cannot be nil",
			}
		}
		a.sheetsClient = client
		return nil
	}
}

// New creates the application with build metadata and options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		cfg, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		a.config = cfg
	}

	if a.logger == nil {
		a.logger = logging.Default()
	}

	return a, nil
}

// Version returns the build version.
func (a *App) Version() string { return a.version }

// Commit returns the build commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build tool.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// AttackClient returns the shared ATT&CK feed client, created on first use
// with the configured cache directory.
func (a *App) AttackClient() *attack.Client {
	a.attackOnce.Do(func() {
		if a.attackClient == nil {
			a.attackClient = attack.New(attack.WithCacheDir(a.config.CacheDir))
		}
	})
	return a.attackClient
}

// SheetsClient returns the shared spreadsheet feed client, created on
// first use.
func (a *App) SheetsClient() *sheets.Client {
	a.sheetsOnce.Do(func() {
		if a.sheetsClient == nil {
			a.sheetsClient = sheets.New()
		}
	})
	return a.sheetsClient
}

// AttackVersion returns the configured ATT&CK release.
func (a *App) AttackVersion() string { return a.config.AttackVersion }

// Synonyms returns the sector vocabulary: the built-in table, with any
// per-category overrides from the config file applied.
func (a *App) Synonyms() *synonyms.Table {
	if len(a.config.Synonyms) == 0 {
		return synonyms.Default()
	}
	return synonyms.WithOverrides(a.config.Synonyms)
}

// CacheDir returns the bundle cache directory.
func (a *App) CacheDir() string { return a.config.CacheDir }

// Sheet returns the configured tracking spreadsheet.
func (a *App) Sheet() sheets.Spreadsheet { return a.config.Sheet }

// StorageConfig returns the report storage configuration.
func (a *App) StorageConfig() storage.Config { return a.config.Storage }

// OutputFormat returns the requested output format, empty for auto-detect.
func (a *App) OutputFormat() string { return a.config.Output }
