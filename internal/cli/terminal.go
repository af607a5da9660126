// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY detection for the agentdeck CLI.
//
// Interactive terminals get markdown rendering and prompts; piped
// output stays plain so it can be post-processed. NO_COLOR is honored.
package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is the fallback width when detection fails.
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping.
	MinTerminalWidth = 40
)

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorEnabled reports whether colored output should be produced.
func ColorEnabled() bool {
	if !IsStdoutTTY() {
		return false
	}
	return !termenv.EnvNoColor()
}

// GetTerminalWidth returns the current terminal width, clamped to
// [MinTerminalWidth, ...) with DefaultTerminalWidth as the fallback.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}
