package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CurrentVersion is the only config schema version this build understands.
const CurrentVersion = 1

// EnvPrefix prefixes every environment override, e.g. DEPENDS_LOGGING_LEVEL.
const EnvPrefix = "DEPENDS"

// Config represents the complete depends configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Resolve ResolveConfig `json:"resolve" mapstructure:"resolve"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls which files count as modules
type ScanConfig struct {
	// Extension is the source-file suffix, including the leading dot
	Extension string `json:"extension" mapstructure:"extension"`
	// PackageIndex is the file that marks a directory as a package
	PackageIndex string `json:"packageIndex" mapstructure:"packageIndex"`
}

// ResolveConfig contains import resolution settings
type ResolveConfig struct {
	// CacheSize bounds the (directory, specifier) memo; 0 disables it
	CacheSize int `json:"cacheSize" mapstructure:"cacheSize"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Scan: ScanConfig{
			Extension:    ".py",
			PackageIndex: "__init__.py",
		},
		Resolve: ResolveConfig{
			CacheSize: 4096,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.depends/config.{json,toml,yaml},
// overlaid with DEPENDS_* environment variables. A .env file in repoRoot is
// loaded into the environment first; variables already set win. A missing
// .env is fine, a malformed one is an error.
func LoadConfig(repoRoot string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(repoRoot, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(repoRoot, ".depends"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so env overrides apply even without a config file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("scan.extension", d.Scan.Extension)
	v.SetDefault("scan.packageIndex", d.Scan.PackageIndex)
	v.SetDefault("resolve.cacheSize", d.Resolve.CacheSize)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if !strings.HasPrefix(c.Scan.Extension, ".") || len(c.Scan.Extension) < 2 {
		return &ConfigError{Field: "scan.extension", Message: "must start with '.'"}
	}
	if strings.Contains(c.Scan.PackageIndex, "/") || !strings.HasSuffix(c.Scan.PackageIndex, c.Scan.Extension) {
		return &ConfigError{Field: "scan.packageIndex", Message: "must be a file name ending in " + c.Scan.Extension}
	}
	if c.Resolve.CacheSize < 0 {
		return &ConfigError{Field: "resolve.cacheSize", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'human' or 'json'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
