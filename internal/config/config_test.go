// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Agent.BaseURL != "http://localhost:8787" {
		t.Errorf("base_url = %q, want default", cfg.Agent.BaseURL)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.UI.Theme)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
}

func TestLoadFromPathReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[agent]
base_url = "http://agent.internal:9000"

[ui]
theme = "light"
debug = true

[tools]
confirm_required = ["bash", "writeFile"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Agent.BaseURL != "http://agent.internal:9000" {
		t.Errorf("base_url = %q", cfg.Agent.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.UI.Theme)
	}
	if !cfg.UI.Debug {
		t.Error("debug should be true")
	}
	if len(cfg.Tools.ConfirmRequired) != 2 || cfg.Tools.ConfirmRequired[0] != "bash" {
		t.Errorf("confirm_required = %v", cfg.Tools.ConfirmRequired)
	}
	// Omitted fields keep their defaults.
	if cfg.Agent.HealthPath != "/api/health" {
		t.Errorf("health_path = %q, want default", cfg.Agent.HealthPath)
	}
}

func TestInvalidThemeNormalizesToDark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"solarized\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark fallback", cfg.UI.Theme)
	}
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[agent]\nbase_url = \"http://file:1\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AGENTDECK_URL", "http://env:2")
	t.Setenv("AGENTDECK_DEBUG", "true")
	t.Setenv("AGENTDECK_NO_HISTORY", "1")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Agent.BaseURL != "http://env:2" {
		t.Errorf("base_url = %q, want env override", cfg.Agent.BaseURL)
	}
	if !cfg.UI.Debug {
		t.Error("debug env override not applied")
	}
	if cfg.History.Enabled {
		t.Error("history env override not applied")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Agent.BaseURL = "http://saved:3"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("theme = %q after round trip", loaded.UI.Theme)
	}
	if loaded.Agent.BaseURL != "http://saved:3" {
		t.Errorf("base_url = %q after round trip", loaded.Agent.BaseURL)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file perm = %o, want 0600", perm)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad chat path", func(c *Config) { c.Agent.ChatPath = "chat" }, true},
		{"bad health path", func(c *Config) { c.Agent.HealthPath = "health" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	loaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { loaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	// Give the watcher loop a beat to start before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-loaded:
		if cfg.UI.Theme != "light" {
			t.Errorf("reloaded theme = %q, want light", cfg.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the reloaded config")
	}
}
