// Package config loads the editor configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultTransformTimeout = 100 * time.Millisecond
	DefaultMode             = "normal"
	DefaultStatusHistory    = 50
)

// Config holds the editor settings.
type Config struct {
	// ScriptDir is where extension *.lua files load from.
	ScriptDir string `toml:"script_dir"`

	// TransformTimeout bounds how long a view transform request may
	// stay unanswered before the base tokens commit.
	TransformTimeout time.Duration `toml:"transform_timeout"`

	// DefaultMode is the mode new real buffers start in.
	DefaultMode string `toml:"default_mode"`

	// StatusHistory is how many status messages the editor keeps.
	StatusHistory int `toml:"status_history"`

	// SessionFile is where the split layout persists. Empty disables
	// session persistence.
	SessionFile string `toml:"session_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	scriptDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		scriptDir = filepath.Join(home, ".config", "vellum", "extensions")
	}
	return Config{
		ScriptDir:        scriptDir,
		TransformTimeout: DefaultTransformTimeout,
		DefaultMode:      DefaultMode,
		StatusHistory:    DefaultStatusHistory,
	}
}

// Load reads a TOML config file. A missing file yields the defaults; a
// malformed one is an error. Zero fields fall back to their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.TransformTimeout <= 0 {
		cfg.TransformTimeout = DefaultTransformTimeout
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = DefaultMode
	}
	if cfg.StatusHistory <= 0 {
		cfg.StatusHistory = DefaultStatusHistory
	}
	return cfg, nil
}
