// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full chat surface:
//
//	[service banner, when raised]
//	header
//	transcript viewport
//	spinner line
//	composer
//	status bar
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting agentdeck..."
	}

	var sections []string

	if banner := m.banner.View(); banner != "" {
		sections = append(sections, banner)
	}

	header := m.theme.Header.Width(m.width).Render("agentdeck")
	sections = append(sections, header)

	sections = append(sections, m.viewport.View())

	if spin := m.spinner.View(); spin != "" {
		sections = append(sections, " "+spin)
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, m.input.View())
	sections = append(sections, m.status.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// TranscriptForTest exposes the rendered transcript for tests.
func (m *Model) TranscriptForTest() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	return b.String()
}
