// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for agentdeck.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.agentdeck/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/agentdeck/internal/util"
)

// ThemeKey is the config key the theme preference persists under.
const ThemeKey = "ui.theme"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete agentdeck configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Agent service connection
	Agent AgentConfig `toml:"agent" json:"agent"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Tool confirmation configuration
	Tools ToolsConfig `toml:"tools" json:"tools"`

	// History persistence configuration
	History HistoryConfig `toml:"history" json:"history"`
}

// AgentConfig contains agent service connection settings.
type AgentConfig struct {
	// BaseURL is the agent service address.
	BaseURL string `toml:"base_url" json:"base_url"`
	// ChatPath is the streaming chat endpoint path.
	ChatPath string `toml:"chat_path" json:"chat_path"`
	// HealthPath is the health probe endpoint path.
	HealthPath string `toml:"health_path" json:"health_path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light". Anything else loads as
	// "dark".
	Theme string `toml:"theme" json:"theme"`
	// Debug shows raw tool call JSON alongside tool cards.
	Debug bool `toml:"debug" json:"debug"`
	// CompactMode uses a more compact layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// ToolsConfig contains tool confirmation settings.
type ToolsConfig struct {
	// ConfirmRequired lists the tool names that block on user
	// confirmation before running. Empty list falls back to the
	// built-in set.
	ConfirmRequired []string `toml:"confirm_required" json:"confirm_required"`
}

// HistoryConfig contains conversation history settings.
type HistoryConfig struct {
	// Enabled controls whether finished conversations are saved.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path overrides the history database location (empty = default
	// ~/.agentdeck/history.db).
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "0.1.0",

		Agent: AgentConfig{
			BaseURL:    "http://localhost:8787",
			ChatPath:   "/api/chat",
			HealthPath: "/api/health",
		},

		UI: UIConfig{
			Theme:       "dark",
			Debug:       false,
			CompactMode: false,
		},

		Tools: ToolsConfig{
			ConfirmRequired: []string{"getWeatherInformation"},
		},

		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the agentdeck configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".agentdeck"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the history database path, honoring the override.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when the file is absent. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing
// file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills in any missing values with defaults. An unknown theme
// value is not an error here; it normalizes to dark so a hand-edited
// config cannot wedge startup.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Agent.BaseURL == "" {
		c.Agent.BaseURL = defaults.Agent.BaseURL
	}
	if c.Agent.ChatPath == "" {
		c.Agent.ChatPath = defaults.Agent.ChatPath
	}
	if c.Agent.HealthPath == "" {
		c.Agent.HealthPath = defaults.Agent.HealthPath
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		c.UI.Theme = defaults.UI.Theme
	}
	if len(c.Tools.ConfirmRequired) == 0 {
		c.Tools.ConfirmRequired = defaults.Tools.ConfirmRequired
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if c.Agent.BaseURL != "" {
		if _, err := url.Parse(c.Agent.BaseURL); err != nil {
			return fmt.Errorf("agent.base_url: invalid URL: %w", err)
		}
	}
	if !strings.HasPrefix(c.Agent.ChatPath, "/") {
		return fmt.Errorf("agent.chat_path: must start with '/', got %q", c.Agent.ChatPath)
	}
	if !strings.HasPrefix(c.Agent.HealthPath, "/") {
		return fmt.Errorf("agent.health_path: must start with '/', got %q", c.Agent.HealthPath)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme: must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AGENTDECK_URL: overrides agent.base_url
//   - AGENTDECK_THEME: overrides ui.theme
//   - AGENTDECK_DEBUG: set to "1" or "true" to enable the debug view
//   - AGENTDECK_NO_HISTORY: set to "1" or "true" to disable history
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("AGENTDECK_URL"); baseURL != "" {
		c.Agent.BaseURL = baseURL
	}
	if theme := os.Getenv("AGENTDECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if debug := os.Getenv("AGENTDECK_DEBUG"); debug != "" {
		c.UI.Debug = debug == "1" || strings.EqualFold(debug, "true")
	}
	if noHist := os.Getenv("AGENTDECK_NO_HISTORY"); noHist != "" {
		if noHist == "1" || strings.EqualFold(noHist, "true") {
			c.History.Enabled = false
		}
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# agentdeck configuration file")
	fmt.Fprintln(&buf, "# Generated by agentdeck - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
