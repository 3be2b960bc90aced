package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/threatscope/threatscope/internal/feeds/attack"
	"github.com/threatscope/threatscope/internal/feeds/sheets"
	"github.com/threatscope/threatscope/internal/storage"
	"github.com/threatscope/threatscope/pkg/constants"
	"github.com/threatscope/threatscope/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Feed configuration
	AttackVersion string
	CacheDir      string
	Sheet         sheets.Spreadsheet

	// Synonyms overrides the built-in sector vocabulary per category.
	Synonyms map[string][]string

	// Report storage configuration
	Storage storage.Config

	// Logging configuration
	LogLevel  string
	LogFormat string

	// logLevelFromFlag records whether LogLevel came from an explicit
	// --log-level flag rather than the environment.
	logLevelFromFlag bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.threatscope.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// LoadConfigFile loads configuration like LoadConfig but from an explicitly
// named config file. Unlike the searched locations, a named file that cannot
// be read is an error.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(path)
}

func loadConfig(explicit string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Bind cloud credentials that may live in .env files
	bindStorageKeys()

	// Try to read config file if it exists
	if explicit == "" {
		explicit = viper.GetString("config")
	}
	if explicit != "" {
		viper.SetConfigFile(explicit)
		if err := viper.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{
				Component: "config",
				Message:   "cannot read config file " + explicit,
				Err:       err,
			}
		}
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".threatscope")
		}

		// Read config file (ignore error if not found)
		_ = viper.ReadInConfig()
	}

	// Build config from viper
	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Output:  viper.GetString("output"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Feed configuration
		AttackVersion: viper.GetString("attack_version"),
		CacheDir:      viper.GetString("cache_dir"),
		Sheet:         loadSheetConfig(),
		Synonyms:      loadSynonymOverrides(),

		// Report storage configuration
		Storage: storage.Config{
			Type:         storage.Type(viper.GetString("storage.type")),
			LocalDir:     viper.GetString("storage.dir"),
			S3Bucket:     viper.GetString("storage.bucket"),
			S3Region:     viper.GetString("storage.region"),
			S3Prefix:     viper.GetString("storage.prefix"),
			AWSAccessKey: viper.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
		},

		// Logging configuration
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	// Set defaults
	if config.AttackVersion == "" {
		config.AttackVersion = attack.DefaultVersion
	}
	if config.CacheDir == "" {
		// Bundle releases are immutable, so caching them is always safe.
		if base, err := os.UserCacheDir(); err == nil {
			config.CacheDir = filepath.Join(base, constants.CacheDirName)
		}
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Output = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		c.logLevelFromFlag = true
	}
}

// loadSheetConfig builds the spreadsheet configuration, falling back to the
// community APT tracking sheet when the config file defines none.
func loadSheetConfig() sheets.Spreadsheet {
	sheet := sheets.DefaultSpreadsheet()

	if id := viper.GetString("sheet.id"); id != "" {
		sheet.ID = id
	}

	var tabs []sheets.TabConfig
	if err := viper.UnmarshalKey("sheet.tabs", &tabs); err == nil && len(tabs) > 0 {
		sheet.Tabs = tabs
	}

	return sheet
}

// loadSynonymOverrides reads per-category vocabulary overrides from the
// config file. An empty map keeps the built-in table.
func loadSynonymOverrides() map[string][]string {
	var overrides map[string][]string
	if err := viper.UnmarshalKey("synonyms", &overrides); err != nil {
		return nil
	}
	return overrides
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindStorageKeys explicitly binds cloud storage environment variables to Viper.
func bindStorageKeys() {
	keys := []string{
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"AWS_REGION",
	}

	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			// Log warning but continue - this isn't critical
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
