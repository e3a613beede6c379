package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the airgap CLI.
type Config struct {
	Catalog     string      `yaml:"catalog"`
	Out         string      `yaml:"out"`
	SchemasDir  string      `yaml:"schemas_dir"`
	Source      string      `yaml:"source"`
	Concurrency int         `yaml:"concurrency"`
	Progress    bool        `yaml:"progress"`
	Retry       RetryConfig `yaml:"retry"`
}

// RetryConfig defines retry behavior for schema downloads.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Catalog:     "src/api/json/catalog.json",
		Out:         "build",
		SchemasDir:  "schemas",
		Source:      "src/schemas/json",
		Concurrency: 10,
		Retry: RetryConfig{
			Attempts:   4,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Catalog     string          `yaml:"catalog"`
	Out         string          `yaml:"out"`
	SchemasDir  string          `yaml:"schemas_dir"`
	Source      string          `yaml:"source"`
	Concurrency int             `yaml:"concurrency"`
	Progress    bool            `yaml:"progress"`
	Retry       yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Catalog != "" {
		cfg.Catalog = yc.Catalog
	}
	if yc.Out != "" {
		cfg.Out = yc.Out
	}
	if yc.SchemasDir != "" {
		cfg.SchemasDir = yc.SchemasDir
	}
	if yc.Source != "" {
		cfg.Source = yc.Source
	}
	if yc.Concurrency != 0 {
		cfg.Concurrency = yc.Concurrency
	}
	cfg.Progress = yc.Progress
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return errors.New("config: catalog path is required")
	}
	if c.Out == "" {
		return errors.New("config: output directory is required")
	}
	if c.SchemasDir == "" {
		return errors.New("config: schemas directory name is required")
	}
	if strings.ContainsAny(c.SchemasDir, `/\`) {
		return errors.New("config: schemas directory must be a plain name, not a path")
	}
	if c.Concurrency <= 0 {
		return errors.New("config: concurrency must be positive")
	}
	if c.Retry.Attempts <= 0 {
		return errors.New("config: retry attempts must be positive")
	}
	if c.Retry.Backoff < 0 {
		return errors.New("config: retry backoff must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Catalog != "" {
		c.Catalog = override.Catalog
	}
	if override.Out != "" {
		c.Out = override.Out
	}
	if override.SchemasDir != "" {
		c.SchemasDir = override.SchemasDir
	}
	if override.Source != "" {
		c.Source = override.Source
	}
	if override.Concurrency != 0 {
		c.Concurrency = override.Concurrency
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	return c
}
