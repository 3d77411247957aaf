// Package config loads the TUI's configuration from an XDG-style config
// directory via viper: a single Load() that applies defaults, reads an
// optional YAML file, and unmarshals into a typed struct. Provider and
// credential plumbing belongs to the session backend, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// TUI holds the structured config the CLI surface accepts:
// working path, tool-syntax selector, diff-block rendering flag, sandbox
// policy, an optional one-shot task string, a continue-from-latest flag, an
// optional model override, and optional record/playback paths used to feed
// the event loop from a recorded session instead of a live backend.
type TUI struct {
	WorkingPath        string `mapstructure:"working_path"`
	ToolSyntax         string `mapstructure:"tool_syntax"` // "xml" or "native"
	DiffBlockRendering bool   `mapstructure:"diff_block_rendering"`
	SandboxPolicy      string `mapstructure:"sandbox_policy"` // "readonly", "workspace-write", "full-access"
	Task               string `mapstructure:"-"`              // CLI flag only, never persisted
	ContinueFromLatest bool   `mapstructure:"-"`
	Model              string `mapstructure:"model"`
	RecordPath         string `mapstructure:"-"`
	PlaybackPath       string `mapstructure:"-"`
	ShowWelcomeBanner  bool   `mapstructure:"show_welcome_banner"`
}

// Config is the root configuration document.
type Config struct {
	TUI TUI `mapstructure:"tui"`
}

// Load reads config.yaml from GetConfigDir (if present), applies defaults,
// and unmarshals into Config.
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config: get config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	for key, value := range GetDefaults() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// GetDefaults returns the default configuration values, the single source
// of truth Load() seeds viper with before reading the file.
func GetDefaults() map[string]any {
	return map[string]any{
		"tui.working_path":         ".",
		"tui.tool_syntax":          "native",
		"tui.diff_block_rendering": true,
		"tui.sandbox_policy":       "workspace-write",
		"tui.model":                "",
		"tui.show_welcome_banner":  true,
	}
}

// GetConfigDir returns the XDG config directory for term-llm.
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "term-llm"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "term-llm"), nil
}

// GetConfigPath returns the path where the config file should live.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
