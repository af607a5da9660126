// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for agentdeck.
//
// String helpers are display-width aware (CJK and emoji take two
// terminal columns) via go-runewidth. File helpers write atomically so a
// crash mid-write never leaves a corrupt config or history file.
package util
