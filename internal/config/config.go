package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/storage"
)

// FileName is the config file kept at the project root.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage     StorageConfig   `yaml:"storage"`
	Logging     LoggingConfig   `yaml:"logging"`
	Analytics   AnalyticsConfig `yaml:"analytics"`
	ActivityLog bool            `yaml:"activity_log" env:"TALLY_ACTIVITY_LOG"`
	Git         GitConfig       `yaml:"git"`
}

// StorageConfig selects where the ledger is kept. A relative path is
// resolved against the project root.
type StorageConfig struct {
	Backend   string `yaml:"backend" env:"TALLY_STORAGE_BACKEND"`
	Path      string `yaml:"path" env:"TALLY_STORAGE_PATH"`
	RedisAddr string `yaml:"redis_addr,omitempty" env:"TALLY_REDIS_ADDR"`
	RedisDB   int    `yaml:"redis_db,omitempty" env:"TALLY_REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix,omitempty" env:"TALLY_KEY_PREFIX"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TALLY_LOG_LEVEL"`
	Format string `yaml:"format" env:"TALLY_LOG_FORMAT"`
}

// AnalyticsConfig tunes the report.
type AnalyticsConfig struct {
	TopCategories int `yaml:"top_categories"`
}

// GitConfig controls the optional git history of the project directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"TALLY_GIT_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Path:    "data",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Analytics: AnalyticsConfig{
			TopCategories: 6,
		},
		ActivityLog: true,
		Git: GitConfig{
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// ApplyEnv overrides cfg from TALLY_* variables. A .env file in dir is
// loaded first; variables already set in the environment win over it.
func ApplyEnv(cfg *Config, dir string) error {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports every problem in cfg at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend))
		}
	case storage.BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for the redis backend"))
		}
		if c.Storage.RedisDB < 0 {
			errs = append(errs, errors.New("storage.redis_db must not be negative"))
		}
	case storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	if c.Analytics.TopCategories < 1 {
		errs = append(errs, errors.New("analytics.top_categories must be at least 1"))
	}
	return errors.Join(errs...)
}

// StorageOptions resolves the storage settings against the project root.
func (c *Config) StorageOptions(root string) storage.Options {
	path := c.Storage.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return storage.Options{
		Backend:   c.Storage.Backend,
		Path:      path,
		RedisAddr: c.Storage.RedisAddr,
		RedisDB:   c.Storage.RedisDB,
		KeyPrefix: c.Storage.KeyPrefix,
	}
}
