// agentdeck - terminal chat for a hosted conversational agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/cli"
	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/history"
	"github.com/jeranaias/agentdeck/internal/model"
	"github.com/jeranaias/agentdeck/internal/theme"
	"github.com/jeranaias/agentdeck/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

// runTUI wires the session, history store, theme store and config
// watcher into the Bubble Tea program.
func runTUI(args cli.Args) {
	// The standard logger would corrupt the alternate screen.
	log.SetOutput(io.Discard)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	baseURL := cfg.Agent.BaseURL
	if args.Server != "" {
		baseURL = args.Server
	}
	client := agent.NewClient(baseURL).
		WithChatPath(cfg.Agent.ChatPath).
		WithHealthPath(cfg.Agent.HealthPath)

	sess := agent.NewSession(client, confirm.NewRegistry(cfg.Tools.ConfirmRequired))

	// Conversation persistence. A broken store degrades to in-memory
	// history; the chat itself keeps working.
	var store *history.Store
	if cfg.History.Enabled {
		if path, err := cfg.HistoryPath(); err == nil {
			if store, err = history.Open(path); err == nil {
				defer store.Close()
				sess.SetPersist(func(conv *model.Conversation) {
					if conv == nil {
						store.Delete(sess.ConversationID())
						return
					}
					store.Save(conv)
				})
			}
		}
	}

	// Theme changes write straight back to the config file. A failed
	// write keeps the in-memory mode; the next toggle retries.
	themes := theme.NewStore(cfg.UI.Theme, func(mode theme.Mode) error {
		current := config.Global()
		current.UI.Theme = mode.String()
		return config.Save(current)
	})

	m := chat.New(sess, client, themes, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Live config reload. Best effort; editing the file while the TUI
	// runs picks up debug and confirmation changes without a restart.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, func(next *config.Config) {
			config.SetGlobal(next)
			p.Send(chat.ConfigReloadedMsg{Config: next})
			if mode := theme.ParseMode(next.UI.Theme); mode != themes.Get() {
				p.Send(chat.ThemeChangedMsg{Mode: mode})
			}
		})
		if err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
