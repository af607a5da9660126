// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL command handler.
//
// Handles "agentdeck chat", a line-based alternative to the TUI for
// terminals where a full-screen interface is unwanted (ssh sessions,
// screen readers, logging).
//
// Command: chat
//
// Interactive commands:
//   /help, /h      Show available commands
//   /clear, /c     Clear the conversation
//   /history       Show the transcript so far
//   /quit, /q      Exit
//   Ctrl+C         Cancel the current generation
//   Ctrl+D         Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/history"
	"github.com/jeranaias/agentdeck/internal/model"
)

// chatREPL bundles the line editor with its history file.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

// newChatREPL creates the line editor with input history support.
func newChatREPL() *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return &chatREPL{line: line, historyFile: historyFile}
}

// close writes input history back and releases the terminal.
func (r *chatREPL) close() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}

	sess, client, changes := newSession(args, cfg)

	// Conversations persist the same way the TUI persists them.
	if cfg.History.Enabled {
		if path, err := cfg.HistoryPath(); err == nil {
			if store, err := history.Open(path); err == nil {
				defer store.Close()
				sess.SetPersist(persistToStore(sess, store))
			}
		}
	}

	repl := newChatREPL()
	defer repl.close()

	renderer := newCLIMarkdownRenderer()

	if !args.Quiet {
		fmt.Println("agentdeck chat - type /help for commands, /quit to exit")
		if err := client.CheckHealth(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: agent service is unreachable (%v); responses will fail until it is back\n", err)
		}
		fmt.Println()
	}

	for {
		input, err := repl.line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				// Ctrl+C at the prompt cancels any stream, then keeps
				// the REPL alive.
				sess.Stop()
				fmt.Println("(interrupted)")
				continue
			}
			// io.EOF on Ctrl+D.
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		repl.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runChatCommand(sess, input); quit {
				return
			}
			continue
		}

		if err := sess.SendMessage(input); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		if err := runToCompletion(sess, changes, args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		if text := lastAssistantText(sess.Messages()); text != "" {
			fmt.Print("agent> ")
			displayResponse(renderer, text, args.Plain)
		}
	}
}

// runChatCommand executes a slash command. Returns true to exit.
func runChatCommand(sess *agent.Session, input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/clear", "/c":
		sess.ClearHistory()
		fmt.Println("conversation cleared")

	case "/history":
		printTranscript(sess.Messages())

	case "/help", "/h":
		fmt.Println(`Commands:
  /help, /h      Show this help
  /clear, /c     Clear the conversation
  /history       Show the transcript so far
  /quit, /q      Exit
  Ctrl+C         Cancel the current generation
  Ctrl+D         Exit`)

	default:
		fmt.Printf("unknown command %q; try /help\n", input)
	}
	return false
}

// printTranscript prints the conversation so far in plain text.
func printTranscript(messages []*model.Message) {
	if len(messages) == 0 {
		fmt.Println("(no messages yet)")
		return
	}
	for _, msg := range messages {
		label := msg.Role.String()
		for _, p := range msg.Parts {
			switch {
			case p.IsText():
				fmt.Printf("%s: %s\n", label, p.Text)
			case p.IsTool():
				fmt.Printf("%s: [tool %s, %s]\n", label, p.Tool.Name, p.Tool.State)
			}
		}
	}
}
