package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors config.toml. Empty values leave defaults in place.
type fileConfig struct {
	Backend   string `toml:"backend"`
	APIURL    string `toml:"api_url"`
	APIToken  string `toml:"api_token"`
	TaskList  string `toml:"task_list"`
	Timeout   string `toml:"timeout"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. <dir>/config.toml, if present
// 3. Environment variables
// Flags (--debug, --quiet) are applied by the caller.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg, cfg.ConfigPath()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigPath(), err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that can be checked without a backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

func loadConfigFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	setString(&cfg.Backend, fc.Backend)
	setString(&cfg.BaseURL, fc.APIURL)
	setString(&cfg.Token, fc.APIToken)
	setString(&cfg.TaskList, fc.TaskList)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	setString(&cfg.Backend, os.Getenv("TODO_BACKEND"))
	setString(&cfg.BaseURL, os.Getenv("TODO_API_URL"))
	setString(&cfg.Token, os.Getenv("TODO_API_TOKEN"))
	setString(&cfg.TaskList, os.Getenv("TODO_TASK_LIST"))
	setString(&cfg.LogLevel, os.Getenv("TODO_LOG_LEVEL"))
	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
