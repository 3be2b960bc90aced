package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger options. The zero value is usable: info level,
// auto-detected format, stderr output.
type Config struct {
	// Level is the minimum level to emit (trace..fatal, or "disabled").
	Level string

	// Format selects "console", "json", or "auto" (console on a terminal,
	// JSON otherwise).
	Format string

	// NoColor disables ANSI colors in console format.
	NoColor bool

	// Output overrides the destination; nil means stderr.
	Output io.Writer
}

// envConfig builds a Config from LOG_LEVEL, LOG_FORMAT, and NO_COLOR.
func envConfig() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	return Config{
		Level:   level,
		Format:  os.Getenv("LOG_FORMAT"),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewFromConfig creates a logger from cfg without touching the default.
func NewFromConfig(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Caller info is only worth the noise when debugging.
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Configure applies cfg to the default logger.
func Configure(cfg Config) {
	SetDefault(NewFromConfig(cfg))
}

// writer picks the output writer for cfg.
func writer(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		if out == io.Writer(os.Stderr) && stderrIsTerminal() {
			format = "console"
		} else {
			format = "json"
		}
	}

	switch format {
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	default:
		return out
	}
}

// parseLevel maps a level string to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}
