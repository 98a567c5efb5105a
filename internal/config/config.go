// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataFile = "todo-data.json"
	DefaultUI       = UIGraphical
	DefaultLogLevel = "info"
)

// UI mode names.
const (
	UIGraphical = "gui"
	UIShell     = "shell"
)

// Config holds the full configuration for the todo tool.
type Config struct {
	// DataFile is the task file; relative paths resolve against the
	// working directory.
	DataFile string `toml:"data_file"`

	// UI selects the default front-end: "gui" or "shell".
	UI string `toml:"ui"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// Load builds the configuration with the usual precedence: defaults,
// then the user config file, then the project config file, then
// environment variables, then flags. The caller may have registered its
// own flags on fs; Load registers the config-owned ones and parses.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	fs.StringVar(&cfg.DataFile, "file", cfg.DataFile, "Task data file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace|debug|info|warn|error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log destination file (default stderr)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.UI = DefaultUI
	cfg.LogLevel = DefaultLogLevel
}

// findUserConfigFile returns the per-user config path if it exists.
func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "todo", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// findProjectConfigFile returns the working-directory config path if it
// exists. Project settings override user settings.
func findProjectConfigFile() string {
	path := ".todo.toml"
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TODO_UI"); v != "" {
		cfg.UI = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func finalize(cfg *Config) error {
	switch cfg.UI {
	case UIGraphical, UIShell:
	default:
		return fmt.Errorf("invalid ui mode %q (want %q or %q)", cfg.UI, UIGraphical, UIShell)
	}

	var err error
	if cfg.DataFile, err = expandHome(cfg.DataFile); err != nil {
		return err
	}
	if cfg.LogFile, err = expandHome(cfg.LogFile); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
