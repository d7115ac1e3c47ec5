package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStart = "AA"
	DefaultTime  = 30
)

var (
	ErrUnsupportedVersion = errors.New("config: unsupported version")
	ErrInvalidConfig      = errors.New("config: invalid value")
)

type Config struct {
	Version int `yaml:"version"`
	Search  struct {
		Start         string        `yaml:"start"`
		Time          int           `yaml:"time"`
		MaxExpansions int           `yaml:"max_expansions"`
		Timeout       time.Duration `yaml:"timeout"`
		CheckInterval int           `yaml:"check_interval"`
	} `yaml:"search"`
	Log struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"log"`
	Output struct {
		RecordDir   string `yaml:"record_dir"`
		MetricsFile string `yaml:"metrics_file"`
	} `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Version = 1
	cfg.Search.Start = DefaultStart
	cfg.Search.Time = DefaultTime
	cfg.Search.CheckInterval = 1024
	cfg.Log.Level = "info"
	cfg.Log.Console = true
	return &cfg
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Search.Start == "":
		return fmt.Errorf("%w: search.start is empty", ErrInvalidConfig)
	case c.Search.Time < 0:
		return fmt.Errorf("%w: search.time %d is negative", ErrInvalidConfig, c.Search.Time)
	case c.Search.MaxExpansions < 0:
		return fmt.Errorf("%w: search.max_expansions %d is negative", ErrInvalidConfig, c.Search.MaxExpansions)
	case c.Search.Timeout < 0:
		return fmt.Errorf("%w: search.timeout %s is negative", ErrInvalidConfig, c.Search.Timeout)
	case c.Search.CheckInterval < 0:
		return fmt.Errorf("%w: search.check_interval %d is negative", ErrInvalidConfig, c.Search.CheckInterval)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses log.level, defaulting to info when unset.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	return level, nil
}
