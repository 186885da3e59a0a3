// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/persist"
	"github.com/kunal-511/weekendly/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Persist PersistConfig `toml:"persist"`
	Planner PlannerConfig `toml:"planner"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects the backend.
type StorageConfig struct {
	// DSN is a sqlite path, a .json path, a postgres:// or redis:// URL, or
	// "keyring" to read the real DSN from the OS keyring.
	DSN           string `toml:"dsn" validate:"required"`
	BackupOnStart bool   `toml:"backup_on_start"`
}

// PersistConfig tunes the background save mirror.
type PersistConfig struct {
	Debounce      Duration `toml:"debounce" validate:"gte=0"`
	MaxRetries    int      `toml:"max_retries" validate:"gte=0,lte=20"`
	RetryInterval Duration `toml:"retry_interval" validate:"gte=0"`
}

type PlannerConfig struct {
	Theme       string `toml:"theme" validate:"theme"`
	LongWeekend bool   `toml:"long_weekend"` // start new plans with friday and monday active
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Duration is a time.Duration written as "500ms" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DSN:           constants.DefaultStoragePath,
			BackupOnStart: true,
		},
		Persist: PersistConfig{
			Debounce:      Duration(constants.DefaultPersistDebounce),
			MaxRetries:    constants.DefaultPersistMaxRetries,
			RetryInterval: Duration(constants.DefaultPersistRetryInterval),
		},
		Planner: PlannerConfig{
			Theme: constants.DefaultTheme,
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return ExpandPath(constants.DefaultConfigPath)
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom starts with defaults, overlays the file if it exists, then
// applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DSN = ExpandPath(cfg.Storage.DSN)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WEEKENDLY_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("WEEKENDLY_THEME"); v != "" {
		cfg.Planner.Theme = v
	}
	if v := os.Getenv("WEEKENDLY_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WEEKENDLY_DEBUG: %w", err)
		}
		cfg.Log.Debug = debug
	}
	if v := os.Getenv("WEEKENDLY_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WEEKENDLY_DEBOUNCE: %w", err)
		}
		cfg.Persist.Debounce = Duration(d)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

// PersistOptions converts the [persist] section for persist.NewMirror.
func (c *Config) PersistOptions() persist.Options {
	return persist.Options{
		Debounce:      time.Duration(c.Persist.Debounce),
		MaxRetries:    c.Persist.MaxRetries,
		RetryInterval: time.Duration(c.Persist.RetryInterval),
	}
}

// Dir is the directory holding the config file, logs and backups.
func Dir(configPath string) string {
	return filepath.Dir(configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
