// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command-line arguments and runs the non-TUI
// commands: one-shot ask, the line-based chat REPL, history and config
// management, version and help.
//
// The TUI itself lives in internal/ui/chat; this package only decides
// which surface to start and handles everything that runs without a
// full-screen terminal.
package cli
