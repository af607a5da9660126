// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for the ask and chat commands.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/history"
	"github.com/jeranaias/agentdeck/internal/model"
)

// newSession builds a client and session from the loaded config plus any
// CLI overrides. The returned channel receives a wakeup for every session
// mutation; pair it with waitIdle.
func newSession(args Args, cfg *config.Config) (*agent.Session, *agent.Client, chan struct{}) {
	baseURL := cfg.Agent.BaseURL
	if args.Server != "" {
		baseURL = args.Server
	}

	client := agent.NewClient(baseURL).
		WithChatPath(cfg.Agent.ChatPath).
		WithHealthPath(cfg.Agent.HealthPath)

	sess := agent.NewSession(client, confirm.NewRegistry(cfg.Tools.ConfirmRequired))

	changes := make(chan struct{}, 1)
	sess.SetOnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return sess, client, changes
}

// waitIdle blocks until the session leaves its busy states. The change
// channel coalesces, so the status is re-checked after every wakeup.
func waitIdle(sess *agent.Session, changes chan struct{}) {
	for sess.Status().Busy() {
		select {
		case <-changes:
		case <-time.After(250 * time.Millisecond):
			// Poll fallback; a wakeup can land before the status flip.
		}
	}
}

// lastAssistantText returns the text content of the most recent
// assistant message, or "".
func lastAssistantText(messages []*model.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleAssistant {
			return messages[i].TextContent()
		}
	}
	return ""
}

// pendingConfirmation returns the most recent tool call gated on user
// confirmation, or nil.
func pendingConfirmation(sess *agent.Session) *model.ToolCall {
	registry := sess.Registry()
	messages := sess.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		for j := len(messages[i].Parts) - 1; j >= 0; j-- {
			p := messages[i].Parts[j]
			if p.IsTool() && p.Tool.State == model.ToolInputAvailable && registry.Requires(p.Tool.Name) {
				return p.Tool
			}
		}
	}
	return nil
}

// persistToStore adapts a history store to the session persistence
// hook. A nil conversation means the history was cleared.
func persistToStore(sess *agent.Session, store *history.Store) func(*model.Conversation) {
	return func(conv *model.Conversation) {
		if conv == nil {
			if err := store.Delete(sess.ConversationID()); err != nil && !errors.Is(err, history.ErrNotFound) {
				log.Printf("history: delete failed: %v", err)
			}
			return
		}
		if err := store.Save(conv); err != nil {
			log.Printf("history: save failed: %v", err)
		}
	}
}

// newCLIMarkdownRenderer builds a glamour renderer sized to the
// terminal, or nil when rendering is unavailable.
func newCLIMarkdownRenderer() *glamour.TermRenderer {
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// displayResponse prints a response, rendering markdown only when stdout
// is an interactive terminal and --plain was not given.
func displayResponse(renderer *glamour.TermRenderer, content string, plain bool) {
	if plain || !IsStdoutTTY() || renderer == nil {
		fmt.Println(content)
		return
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		fmt.Println(content)
		return
	}
	fmt.Print(rendered)
}

// fatalf prints an error to stderr and exits non-zero.
func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}
