// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler.
//
// Command: config [show|set|path]
//
// Examples:
//   agentdeck config show
//   agentdeck config set ui.theme light
//   agentdeck config set agent.base_url http://localhost:9000
//   agentdeck config path
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jeranaias/agentdeck/internal/config"
)

// HandleConfig runs the config command.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "", "show":
		configShow(args)

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			fatalf("usage: agentdeck config set KEY VALUE")
		}
		configSet(args.ConfigKey, args.ConfigVal)

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Println(path)

	default:
		fatalf("unknown config subcommand %q; try show, set, path", args.Subcommand)
	}
}

func configShow(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fatalf("encoding: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("agent.base_url     = %s\n", cfg.Agent.BaseURL)
	fmt.Printf("agent.chat_path    = %s\n", cfg.Agent.ChatPath)
	fmt.Printf("agent.health_path  = %s\n", cfg.Agent.HealthPath)
	fmt.Printf("ui.theme           = %s\n", cfg.UI.Theme)
	fmt.Printf("ui.debug           = %t\n", cfg.UI.Debug)
	fmt.Printf("history.enabled    = %t\n", cfg.History.Enabled)
	fmt.Printf("tools.confirm_required = %v\n", cfg.Tools.ConfirmRequired)
}

// configSet updates a single key and saves the file.
func configSet(key, value string) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}

	switch key {
	case "agent.base_url":
		cfg.Agent.BaseURL = value
	case "agent.chat_path":
		cfg.Agent.ChatPath = value
	case "agent.health_path":
		cfg.Agent.HealthPath = value
	case config.ThemeKey:
		if value != "dark" && value != "light" {
			fatalf("ui.theme must be dark or light")
		}
		cfg.UI.Theme = value
	case "ui.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			fatalf("ui.debug must be true or false")
		}
		cfg.UI.Debug = b
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			fatalf("history.enabled must be true or false")
		}
		cfg.History.Enabled = b
	default:
		fatalf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}
	if err := config.Save(cfg); err != nil {
		fatalf("saving config: %v", err)
	}
	fmt.Printf("%s = %s\n", key, value)
}
