// Package config handles the configuration directory, the config file and
// environment overrides.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// LogFile receives diagnostics while the interactive UI owns the terminal.
	LogFile = "todo.log"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the task store: "rest" (default) or "google".
	Backend string

	// BaseURL is the REST API base URL, e.g. http://localhost:5000.
	BaseURL string

	// Token is an optional bearer token for the REST API.
	Token string

	// TaskList is the Google Tasks list ID used by the google backend.
	TaskList string

	// Timeout bounds each REST request. Zero means no timeout.
	Timeout time.Duration

	// LogLevel and LogFormat configure the diagnostic sink.
	LogLevel  string
	LogFormat string
}

// New creates a new Config with defaults and the default or specified
// config directory. If configDir is empty, uses XDG_CONFIG_HOME/todo or
// $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		Backend:   BackendREST,
		TaskList:  "@default",
		LogLevel:  "info",
		LogFormat: "text",
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// EffectiveLogLevel returns the log level, forced to debug by --debug.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
