package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const appName = "notehtml"

// Config represents the notehtml configuration
type Config struct {
	MarkdownKey  string        `json:"markdown_key"`
	LogFile      string        `json:"log_file"`
	LogLevel     string        `json:"log_level"`
	ExportDir    string        `json:"export_dir"`
	Interval     time.Duration `json:"-"` // Custom JSON handling below
	Sanitize     bool          `json:"sanitize"`
	Minify       bool          `json:"minify"`
	PreviewWidth int           `json:"preview_width"`
}

// fileConfig is the on-disk form; Interval is a duration string
type fileConfig struct {
	MarkdownKey  string `json:"markdown_key"`
	LogFile      string `json:"log_file"`
	LogLevel     string `json:"log_level,omitempty"`
	ExportDir    string `json:"export_dir"`
	Interval     string `json:"interval"`
	Sanitize     bool   `json:"sanitize"`
	Minify       bool   `json:"minify"`
	PreviewWidth int    `json:"preview_width,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MarkdownKey:  "markdown",
		LogFile:      filepath.Join(os.TempDir(), "notehtml.log"),
		LogLevel:     "info",
		ExportDir:    filepath.Join(xdg.DataHome, appName, "export"),
		Interval:     2 * time.Second,
		Sanitize:     true,
		Minify:       false,
		PreviewWidth: 100,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, appName, "config.json")
	}
	return filepath.Join(home, ".config", appName, "config.json")
}

// StateFilePath returns the path to the state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, appName, "state.json")
}

// Load reads configuration from the config directory
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	defaults := DefaultConfig()
	raw := fileConfig{
		MarkdownKey:  defaults.MarkdownKey,
		LogFile:      defaults.LogFile,
		LogLevel:     defaults.LogLevel,
		ExportDir:    defaults.ExportDir,
		Interval:     defaults.Interval.String(),
		Sanitize:     defaults.Sanitize,
		Minify:       defaults.Minify,
		PreviewWidth: defaults.PreviewWidth,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
	}

	cfg := &Config{
		MarkdownKey:  raw.MarkdownKey,
		LogFile:      raw.LogFile,
		LogLevel:     raw.LogLevel,
		ExportDir:    raw.ExportDir,
		Interval:     interval,
		Sanitize:     raw.Sanitize,
		Minify:       raw.Minify,
		PreviewWidth: raw.PreviewWidth,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		MarkdownKey:  c.MarkdownKey,
		LogFile:      c.LogFile,
		LogLevel:     c.LogLevel,
		ExportDir:    c.ExportDir,
		Interval:     c.Interval.String(),
		Sanitize:     c.Sanitize,
		Minify:       c.Minify,
		PreviewWidth: c.PreviewWidth,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MarkdownKey == "" {
		return fmt.Errorf("markdown_key cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.PreviewWidth < 0 {
		return fmt.Errorf("preview_width cannot be negative")
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.ExportDir, err = expandPath(c.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to expand export_dir: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
