// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/ui/styles"
	"github.com/jeranaias/agentdeck/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom bar: session status on the left, key hints on
// the right.
type StatusBar struct {
	Status  agent.Status
	Pending bool
	ErrText string
	Theme   string
	Width   int
	theme   *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(th *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: agent.StatusIdle,
		Width:  80,
		theme:  th,
	}
}

// statusLabel maps the session status to its display text and indicator.
func (s *StatusBar) statusLabel() string {
	if s.Pending {
		return styles.StatusIndicators.Warning + " awaiting confirmation"
	}
	switch s.Status {
	case agent.StatusSubmitted:
		return styles.StatusIndicators.Pending + " sending"
	case agent.StatusStreaming:
		return "~ streaming"
	case agent.StatusError:
		label := styles.StatusIndicators.Error + " error"
		if s.ErrText != "" {
			label += ": " + util.TruncateWidth(s.ErrText, 40)
		}
		return label
	default:
		return styles.StatusIndicators.Success + " ready"
	}
}

// hints returns the context-sensitive key hints.
func (s *StatusBar) hints() []string {
	if s.Pending {
		return []string{"y confirm", "n reject", "tab switch"}
	}
	if s.Status.Busy() {
		return []string{"esc stop", "ctrl+t theme", "ctrl+c quit"}
	}
	return []string{"enter send", "ctrl+l clear", "ctrl+t theme", "ctrl+c quit"}
}

// View renders the bar.
func (s *StatusBar) View() string {
	left := s.statusLabel()
	if s.Status == agent.StatusError {
		left = s.theme.StatusError.Render(left)
	}
	if s.Theme != "" {
		left += "  " + s.theme.ShortcutDesc.Render("theme:"+s.Theme)
	}

	var parts []string
	for _, hint := range s.hints() {
		key, desc, ok := strings.Cut(hint, " ")
		if !ok {
			parts = append(parts, hint)
			continue
		}
		parts = append(parts, s.theme.ShortcutKey.Render(key)+" "+s.theme.ShortcutDesc.Render(desc))
	}
	right := strings.Join(parts, "  ")

	gap := s.Width - util.StringWidth(stripANSI(left)) - util.StringWidth(stripANSI(right)) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
