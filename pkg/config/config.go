// Package config loads tsguard configuration from .tsguard.yaml, TSGUARD_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Sentinel validation errors.
var (
	ErrInvalidConcurrency = errors.New("lint concurrency must not be negative")
	ErrInvalidMaxFileSize = errors.New("invalid lint max_file_size")
	ErrInvalidLogLevel    = errors.New("invalid logging level")
	ErrInvalidLogFormat   = errors.New("invalid logging format")
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Config holds all tsguard configuration.
type Config struct {
	Lint      LintConfig      `mapstructure:"lint"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Rules is keyed by rule id exactly as written in the file.
	Rules map[string]RuleConfig `mapstructure:"-"`

	// File is the config file that was loaded, or "" when none was found.
	File string `mapstructure:"-"`
}

// LintConfig holds engine settings.
type LintConfig struct {
	MaxFileSize string   `mapstructure:"max_file_size"`
	Ignore      []string `mapstructure:"ignore"`
	Concurrency int      `mapstructure:"concurrency"`
}

// MaxFileSizeBytes parses MaxFileSize ("1MB", "512KiB", "0" for no limit).
func (c LintConfig) MaxFileSizeBytes() (int64, error) {
	if strings.TrimSpace(c.MaxFileSize) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, c.MaxFileSize, err)
	}

	return int64(size), nil //nolint:gosec // file size limits fit in int64
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JSON reports whether logs are written as JSON.
func (c LoggingConfig) JSON() bool {
	return c.Format == "json"
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Environment  string `mapstructure:"environment"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from configPath, or from .tsguard.yaml in
// the working directory, ./config or $HOME when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(FileName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	config.File = viperCfg.ConfigFileUsed()
	if readErr != nil {
		config.File = ""
	}

	if config.File != "" {
		rules, err := loadRules(config.File)
		if err != nil {
			return nil, err
		}

		config.Rules = rules
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("lint.concurrency", DefaultConcurrency)
	viperCfg.SetDefault("lint.max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("lint.ignore", []string{})

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Lint.Concurrency < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, config.Lint.Concurrency)
	}

	_, err := config.Lint.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	config.Logging.Level = strings.ToLower(config.Logging.Level)
	if !slices.Contains(validLogLevels, config.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	config.Logging.Format = strings.ToLower(config.Logging.Format)
	if !slices.Contains(validLogFormats, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// rulesFile is the part of the config file decoded without viper, which
// would lowercase the option keys.
type rulesFile struct {
	Rules map[string]RuleConfig `yaml:"rules"`
}

func loadRules(path string) (map[string]RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file rulesFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	return file.Rules, nil
}
