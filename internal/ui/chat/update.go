// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/theme"
)

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionChangedMsg:
		cmds := []tea.Cmd{m.waitForChange()}
		if m.gate.TryRender() {
			m.refresh()
		} else if m.gate.Dirty() {
			cmds = append(cmds, renderTickCmd())
		}
		if m.session.Status().Busy() && !m.spinner.Active() {
			cmds = append(cmds, m.spinner.Start())
		}
		return m, tea.Batch(cmds...)

	case RenderTickMsg:
		if m.gate.TryRender() || m.gate.ForceRender() {
			m.refresh()
		}
		return m, nil

	case HealthCheckMsg:
		if msg.Err != nil {
			m.banner.Show(msg.Err.Error())
		}
		return m, nil

	case ThemeChangedMsg:
		// External mode change (config file edit). Set is a no-op when
		// the store already holds the mode.
		m.themes.Set(msg.Mode)
		m.applyTheme(msg.Mode)
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.showDebug = msg.Config.UI.Debug
			m.refresh()
		}
		return m, nil
	}

	// Everything else (spinner ticks, cursor blinks) flows to components.
	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.session.Pending()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.session.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		// Stopping is idempotent; the session fires the underlying
		// cancellation at most once.
		m.session.Stop()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.session.ClearHistory()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		mode, _ := m.themes.Toggle()
		m.applyTheme(mode)
		return m, nil

	case key.Matches(msg, m.keys.ToggleDebug):
		m.showDebug = !m.showDebug
		m.refresh()
		return m, nil
	}

	if pending {
		return m.handleConfirmationKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown),
		key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmationKey resolves the gated tool call. All other input
// is swallowed while the decision is pending.
func (m *Model) handleConfirmationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tool := m.pendingToolCall()
	if tool == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.session.AddToolResult(agent.ConfirmResult(tool.Name, tool.CallID))
	case key.Matches(msg, m.keys.Reject):
		m.session.AddToolResult(agent.RejectResult(tool.Name, tool.CallID))
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focusedButton = 1 - m.focusedButton
		m.refresh()
	case key.Matches(msg, m.keys.Submit):
		if m.focusedButton == 0 {
			m.session.AddToolResult(agent.ConfirmResult(tool.Name, tool.CallID))
		} else {
			m.session.AddToolResult(agent.RejectResult(tool.Name, tool.CallID))
		}
	}
	return m, nil
}

// handleSubmit sends the draft. Whitespace-only drafts are rejected
// silently; the draft clears before the request so the composer is
// immediately ready for the next message.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.input.Empty() {
		return m, nil
	}
	if m.session.Status().Busy() {
		return m, nil
	}

	text := m.input.Value()
	m.input.Reset()

	if err := m.session.SendMessage(text); err != nil {
		if errors.Is(err, agent.ErrBusy) {
			// Lost the race with an in-flight request; restore the draft.
			m.input.SetValue(text)
		}
		return m, nil
	}

	m.refresh()
	return m, m.spinner.Start()
}

// =============================================================================
// STATE REFRESH
// =============================================================================

// handleResize relays the new size to every component.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 1
	if m.banner.Visible {
		headerHeight += 2
	}
	footerHeight := 5 // spinner line + composer + status bar
	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}

	m.list.SetWidth(msg.Width - 2)
	m.input.SetWidth(msg.Width)
	m.banner.SetWidth(msg.Width)
	m.status.Width = msg.Width

	m.refresh()
	return m, nil
}

// refresh rebuilds the transcript view from the session snapshot.
func (m *Model) refresh() {
	status := m.session.Status()
	pending := m.session.Pending()

	// Transcript.
	m.list.SetMessages(m.session.Messages())
	m.list.Streaming = status == agent.StatusStreaming
	m.list.ShowDebug = m.showDebug
	m.list.FocusedButton = m.focusedButton

	atBottom := !m.ready || m.viewport.AtBottom()
	m.viewport.SetContent(m.list.View())
	if atBottom {
		// Follow the stream unless the user scrolled away.
		m.viewport.GotoBottom()
	}

	// Composer gating.
	m.input.SetDisabled(pending, "Confirm or reject the tool call above (y/n)")
	if !pending {
		m.focusedButton = 0
	}

	// Status line.
	m.status.Status = status
	m.status.Pending = pending
	m.status.Theme = m.themes.Get().String()
	if err := m.session.Err(); err != nil {
		m.status.ErrText = err.Error()
	} else {
		m.status.ErrText = ""
	}

	if !status.Busy() {
		m.spinner.Stop()
	}
}

// applyTheme rebuilds styles for a new mode. The markdown cache drops so
// already-rendered parts pick up the new palette.
func (m *Model) applyTheme(mode theme.Mode) {
	m.theme.ApplyMode(mode)
	m.markdown.SetMode(mode)
	m.status.Theme = mode.String()
	m.refresh()
}
