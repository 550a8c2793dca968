// Package config provides TOML configuration loading for hunkstage.
// The configuration file lives at ~/.hunkstage/config.toml by default, but can
// be overridden with the --config flag. CLI flags always take precedence over
// file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// Config represents the configuration file structure.
// Field names use Go camelCase internally but map to snake_case in TOML files
// via struct tags.
type Config struct {
	// InitialLevel is the visibility level a new view opens at (1-4).
	// Default: 2 (sections open, files collapsed)
	InitialLevel int `toml:"initial_level"`

	// MaxParallelFetches bounds concurrent diff fetches within one batch.
	// Default: 4
	MaxParallelFetches int `toml:"max_parallel_fetches"`

	// FetchTimeoutMs is the deadline passed to each diff fetch.
	// Default: 0 (the diff source decides)
	FetchTimeoutMs int `toml:"fetch_timeout_ms"`

	// ContextLines is forwarded to the diff source as -U<n>.
	// Default: 3
	ContextLines int `toml:"context_lines"`

	// IgnoreWhitespace is forwarded to the diff source.
	// Default: false
	IgnoreWhitespace bool `toml:"ignore_whitespace"`

	// DiffCacheTTLMs expires cached diffs after this long. Collapsing always
	// evicts regardless of TTL.
	// Default: 0 (no expiration)
	DiffCacheTTLMs int `toml:"diff_cache_ttl_ms"`

	// StateDB is the SQLite file used to persist view layouts between runs.
	// Default: empty (layouts are not persisted)
	StateDB string `toml:"state_db"`

	// VerifyPatches re-parses every synthesized patch before returning it.
	// Default: false
	VerifyPatches bool `toml:"verify_patches"`

	// LogLevel controls logging verbosity: debug, info, warn, error.
	// Default: info
	LogLevel string `toml:"log_level"`
}

// Defaults for zero-valued fields.
const (
	DefaultInitialLevel       = 2
	DefaultMaxParallelFetches = 4
	DefaultContextLines       = 3
	DefaultLogLevel           = "info"
)

// WithDefaults returns a copy with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.InitialLevel == 0 {
		c.InitialLevel = DefaultInitialLevel
	}
	if c.MaxParallelFetches == 0 {
		c.MaxParallelFetches = DefaultMaxParallelFetches
	}
	if c.ContextLines == 0 {
		c.ContextLines = DefaultContextLines
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate checks value ranges. Call it after WithDefaults.
func (c Config) Validate() error {
	if c.InitialLevel < 1 || c.InitialLevel > 4 {
		return apperrors.New(apperrors.CodeConfigInvalid,
			fmt.Sprintf("initial_level must be between 1 and 4, got %d", c.InitialLevel))
	}
	if c.MaxParallelFetches < 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "max_parallel_fetches cannot be negative")
	}
	if c.FetchTimeoutMs < 0 || c.DiffCacheTTLMs < 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "durations cannot be negative")
	}
	if c.ContextLines < 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, "context_lines cannot be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.New(apperrors.CodeConfigInvalid,
			fmt.Sprintf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return nil
}

// FetchTimeout returns FetchTimeoutMs as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMs) * time.Millisecond
}

// DiffCacheTTL returns DiffCacheTTLMs as a duration.
func (c Config) DiffCacheTTL() time.Duration {
	return time.Duration(c.DiffCacheTTLMs) * time.Millisecond
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// DefaultConfigPath returns the default config file location: ~/.hunkstage/config.toml.
// Returns an error only if the user's home directory cannot be determined.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".hunkstage", "config.toml"), nil
}

// WriteDefault creates a config file with the default settings at path.
//
// Behavior:
//   - If the file already exists, returns without error (does not overwrite).
//   - Creates the parent directory if it doesn't exist.
//   - Returns an error if the file cannot be written.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, nothing to do
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# hunkstage configuration

# Visibility level a new view opens at (1 collapsed .. 4 fully expanded)
initial_level = %d

# Concurrent diff fetches when expanding many files at once
max_parallel_fetches = %d

# Context lines requested from the diff source
context_lines = %d
`, DefaultInitialLevel, DefaultMaxParallelFetches, DefaultContextLines)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads a TOML config file from the given path and returns a Config
// with defaults applied.
//
// Behavior:
//   - If path is empty, attempts to load from the default location (~/.hunkstage/config.toml).
//     Returns a default Config without error if the default file doesn't exist.
//   - If path is specified, returns an error if the file doesn't exist.
//   - Returns an error if the file exists but cannot be parsed or is invalid.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			*cfg = cfg.WithDefaults()
			return cfg, nil
		}
		if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
			*cfg = cfg.WithDefaults()
			return cfg, nil
		}
		path = defaultPath
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	*cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
