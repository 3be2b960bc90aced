package threatscope

import (
	"github.com/rs/zerolog"

	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/logging"
	"github.com/threatscope/threatscope/pkg/synonyms"
)

// Option configures a Search call.
type Option func(*config) error

// config carries the tunable collaborators of a search.
type config struct {
	table  *synonyms.Table
	logger *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		table:  synonyms.Default(),
		logger: logging.Default(),
	}
}

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithSynonyms replaces the default category synonym table.
func WithSynonyms(table *synonyms.Table) Option {
	return func(c *config) error {
		if table == nil {
			return &errors.ConfigError{Component: "search", Message: "synonym table cannot be nil"}
		}
		c.table = table
		return nil
	}
}

// WithLogger replaces the default logger for pipeline diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &errors.ConfigError{Component: "search", Message: "logger cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}
