// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Saved conversation management.
//
// Command: history [list|show|delete|clear]
//
// Examples:
//   agentdeck history list
//   agentdeck history show conv_9f2c
//   agentdeck history delete conv_9f2c
//   agentdeck history clear --confirm
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/history"
)

// HandleHistory runs the history management command.
func HandleHistory(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		fatalf("resolving history path: %v", err)
	}
	store, err := history.Open(path)
	if err != nil {
		fatalf("opening history: %v", err)
	}
	defer store.Close()

	parser := NewArgParser(args.Raw)

	switch args.Subcommand {
	case "", "list":
		historyList(store, args)

	case "show":
		id := parser.Positional(0)
		if id == "" {
			fatalf("usage: agentdeck history show <id>")
		}
		historyShow(store, id)

	case "delete":
		id := parser.Positional(0)
		if id == "" {
			fatalf("usage: agentdeck history delete <id>")
		}
		if err := store.Delete(id); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				fatalf("no conversation %q", id)
			}
			fatalf("deleting conversation: %v", err)
		}
		fmt.Printf("deleted %s\n", id)

	case "clear":
		if !parser.BoolFlag("confirm") {
			fatalf("refusing to delete all conversations without --confirm")
		}
		if err := store.Clear(); err != nil {
			fatalf("clearing history: %v", err)
		}
		fmt.Println("history cleared")

	default:
		fatalf("unknown history subcommand %q; try list, show, delete, clear", args.Subcommand)
	}
}

func historyList(store *history.Store, args Args) {
	entries, err := store.List()
	if err != nil {
		fatalf("listing conversations: %v", err)
	}

	if args.JSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fatalf("encoding: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	if len(entries) == 0 {
		fmt.Println("no saved conversations")
		return
	}
	for _, e := range entries {
		fmt.Printf("%-24s  %s  %s\n", e.ID, e.UpdatedAt.Format(time.DateTime), e.Title)
	}
}

func historyShow(store *history.Store, id string) {
	conv, err := store.Load(id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			fatalf("no conversation %q", id)
		}
		fatalf("loading conversation: %v", err)
	}
	fmt.Printf("%s (%d messages)\n\n", conv.DisplayTitle(), len(conv.Messages))
	printTranscript(conv.Messages)
}
