// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler.
//
// Handles "agentdeck ask" which sends one question to the agent service
// and prints the reply.
//
// Command: ask [question]
//
// Examples:
//   agentdeck ask "What is the weather in Oslo?"
//   agentdeck ask --plain "Summarize this" < notes.md
//   echo "question" | agentdeck ask
//
// Tool calls that require confirmation are prompted for on stdin when
// it is a terminal; on piped input they are rejected so the command
// never hangs.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/config"
)

// HandleAsk runs the one-shot ask command.
func HandleAsk(args Args) {
	query := strings.TrimSpace(args.Query)

	// Piped stdin is appended to the question so `cmd | agentdeck ask`
	// and `agentdeck ask "context:" < file` both work.
	if !IsTTY() {
		piped, err := io.ReadAll(io.LimitReader(os.Stdin, 256*1024))
		if err == nil && len(piped) > 0 {
			if query != "" {
				query += "\n\n"
			}
			query += string(piped)
		}
	}
	if strings.TrimSpace(query) == "" {
		fatalf("no question given; usage: agentdeck ask \"question\"")
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}

	sess, _, changes := newSession(args, cfg)

	if err := sess.SendMessage(query); err != nil {
		fatalf("sending message: %v", err)
	}

	if err := runToCompletion(sess, changes, args); err != nil {
		fatalf("%v", err)
	}

	text := lastAssistantText(sess.Messages())
	if text == "" {
		fatalf("the agent returned no text")
	}
	displayResponse(newCLIMarkdownRenderer(), text, args.Plain)
}

// runToCompletion drives the generation to the end, resolving any
// confirmation-gated tool calls along the way.
func runToCompletion(sess *agent.Session, changes chan struct{}, args Args) error {
	for {
		waitIdle(sess, changes)

		if err := sess.Err(); err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		tool := pendingConfirmation(sess)
		if tool == nil {
			return nil
		}

		res, err := resolveToolCall(tool.Name, tool.CallID, args)
		if err != nil {
			return err
		}
		if err := sess.AddToolResult(res); err != nil {
			return fmt.Errorf("submitting tool result: %w", err)
		}
	}
}

// resolveToolCall asks the user to approve a gated tool call. Without a
// terminal the call is rejected; blocking a pipe forever is worse than
// a denied tool.
func resolveToolCall(name, callID string, args Args) (agent.ToolResult, error) {
	if !IsTTY() {
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "agentdeck: tool %q requires confirmation; rejected (stdin is not a terminal)\n", name)
		}
		return agent.RejectResult(name, callID), nil
	}

	fmt.Fprintf(os.Stderr, "The agent wants to run %q. Allow? [y/N] ", name)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return agent.ToolResult{}, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return agent.ConfirmResult(name, callID), nil
	default:
		return agent.RejectResult(name, callID), nil
	}
}
