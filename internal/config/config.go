// Package config loads poupa's YAML configuration.
//
// Configuration is layered: built-in defaults, then the global file at
// $POUPA_HOME/config.yaml (default ~/.poupa/config.yaml), then an optional
// project overlay at ./.poupa/config.yaml merged per top-level section, and
// finally POUPA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/poupaenergia/poupa/internal/savings"
)

// CurrentVersion is the configuration schema version written by Save.
const CurrentVersion = "1.0.0"

// supportedVersions is the range of schema versions this build can read.
const supportedVersions = "^1.0.0"

const (
	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Output formats accepted by the CLI.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatXLSX   = "xlsx"
	FormatPDF    = "pdf"
)

// Environment variables that override file values.
const (
	EnvHome           = "POUPA_HOME"
	EnvProjectDir     = "POUPA_PROJECT_DIR"
	EnvComparisonRate = "POUPA_COMPARISON_RATE"
	EnvFlatDiscount   = "POUPA_FLAT_DISCOUNT"
	EnvCO2Factor      = "POUPA_CO2_FACTOR"
	EnvSolarPrice     = "POUPA_SOLAR_PRICE"
	EnvOutputFormat   = "POUPA_OUTPUT_FORMAT"
	EnvLogLevel       = "POUPA_LOG_LEVEL"
	EnvLogFormat      = "POUPA_LOG_FORMAT"
	EnvServerAddr     = "POUPA_SERVER_ADDR"
)

// Config is the full poupa configuration.
type Config struct {
	Version string          `yaml:"version"`
	Tariffs savings.Tariffs `yaml:"tariffs"`
	Output  OutputConfig    `yaml:"output"`
	Logging LoggingConfig   `yaml:"logging"`
	Server  ServerConfig    `yaml:"server"`
	Batch   BatchConfig     `yaml:"batch"`

	configPath string
}

// OutputConfig controls how estimates are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	ExportDir     string `yaml:"export_dir,omitempty"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ServerConfig configures the estimate HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Metrics         bool          `yaml:"metrics"`
}

// BatchConfig configures scenario file evaluation.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns a Config holding only built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Tariffs: savings.DefaultTariffs(),
		Output: OutputConfig{
			DefaultFormat: FormatTable,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// New returns the effective global configuration: defaults, the global
// config file when present, then environment overrides.
//
// A config file that cannot be read or parsed is logged and ignored.
func New() *Config {
	cfg := Default()

	dir, err := GetConfigDir()
	if err != nil {
		log.Warn().Err(err).Str("component", "config").Msg("cannot resolve config directory, using defaults")
		cfg.applyEnvOverrides()
		return cfg
	}
	cfg.configPath = filepath.Join(dir, configFileName)

	if loadErr := cfg.loadFile(cfg.configPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		log.Warn().
			Err(loadErr).
			Str("component", "config").
			Str("path", cfg.configPath).
			Msg("failed to load config file, using defaults")
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Load reads a single config file on top of the defaults without applying
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks the schema version, tariffs and enumerated settings.
func (c *Config) Validate() error {
	if err := validateVersion(c.Version); err != nil {
		return err
	}
	if err := c.Tariffs.Validate(); err != nil {
		return fmt.Errorf("tariffs: %w", err)
	}
	if !isValidFormat(c.Output.DefaultFormat) {
		return fmt.Errorf("output.default_format %q is not one of %s",
			c.Output.DefaultFormat, strings.Join(OutputFormats(), ", "))
	}
	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	return nil
}

func validateVersion(v string) error {
	if v == "" {
		return errors.New("version is required")
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("parsing supported version range: %w", err)
	}
	if !constraint.Check(parsed) {
		return fmt.Errorf("config version %s is not supported (want %s)", v, supportedVersions)
	}
	return nil
}

// OutputFormats lists the accepted values of output.default_format.
func OutputFormats() []string {
	return []string{FormatTable, FormatJSON, FormatNDJSON, FormatXLSX, FormatPDF}
}

func isValidFormat(f string) bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return true
	}
	return false
}

// applyEnvOverrides applies POUPA_* variables. Unparseable numbers are
// logged and skipped.
func (c *Config) applyEnvOverrides() {
	floats := []struct {
		env    string
		target *float64
	}{
		{EnvComparisonRate, &c.Tariffs.ComparisonRate},
		{EnvFlatDiscount, &c.Tariffs.FlatDiscount},
		{EnvCO2Factor, &c.Tariffs.CO2KgPerKWh},
		{EnvSolarPrice, &c.Tariffs.SolarPricePerKWh},
	}
	for _, f := range floats {
		raw := os.Getenv(f.env)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			log.Warn().Str("component", "config").Str("env", f.env).Str("value", raw).
				Msg("ignoring non-numeric environment override")
			continue
		}
		*f.target = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}
