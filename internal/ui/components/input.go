// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdeck/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// InputArea is the message composer. While a tool call awaits
// confirmation the composer is disabled: it ignores edits, shows an
// explanatory placeholder, and the chat model refuses submission.
type InputArea struct {
	input          textinput.Model
	width          int
	focused        bool
	disabled       bool
	disabledReason string
	theme          *styles.Theme
}

// NewInputArea creates the composer.
func NewInputArea(th *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Width = 70
	ti.Prompt = "> "
	ti.PromptStyle = th.InputPrompt
	ti.TextStyle = th.InputText
	ti.PlaceholderStyle = th.InputPlaceholder
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &InputArea{
		input: ti,
		width: 80,
		theme: th,
	}
}

// Focus focuses the composer.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused reports whether the composer has focus.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetWidth sets the composer width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetDisabled toggles the disabled state. The typed draft survives; it
// reappears when the composer re-enables.
func (i *InputArea) SetDisabled(disabled bool, reason string) {
	i.disabled = disabled
	i.disabledReason = reason
}

// Disabled reports whether the composer is disabled.
func (i *InputArea) Disabled() bool {
	return i.disabled
}

// Value returns the current draft.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the draft.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the draft.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Empty reports whether the draft is blank after trimming.
func (i *InputArea) Empty() bool {
	return strings.TrimSpace(i.input.Value()) == ""
}

// Update handles input events. Events are dropped while disabled.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	if i.disabled {
		return i, nil
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the composer.
func (i *InputArea) View() string {
	var inner string
	if i.disabled {
		reason := i.disabledReason
		if reason == "" {
			reason = "Waiting..."
		}
		inner = i.theme.InputDisabled.Render(reason)
	} else {
		inner = i.input.View()
	}

	borderColor := styles.Overlay
	if i.focused && !i.disabled {
		borderColor = styles.Cyan
	}

	container := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(i.width - 2)

	return container.Render(inner)
}
