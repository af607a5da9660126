// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/model"
	"github.com/jeranaias/agentdeck/internal/theme"
	"github.com/jeranaias/agentdeck/internal/ui/components"
	"github.com/jeranaias/agentdeck/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	session *agent.Session
	client  *agent.Client
	themes  *theme.Store
	keys    KeyMap

	theme    *styles.Theme
	viewport viewport.Model
	input    *components.InputArea
	banner   *components.ServiceBanner
	status   *components.StatusBar
	spinner  *components.ThinkingSpinner
	list     *components.MessageList
	markdown *components.MarkdownRenderer

	gate    *RenderGate
	changes chan struct{}

	// focusedButton selects the confirm (0) or reject (1) button while a
	// tool call is gated.
	focusedButton int
	showDebug     bool

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates the chat model. The session's change hook is claimed by
// the model; events flow through the coalescing channel into Update.
func New(sess *agent.Session, client *agent.Client, store *theme.Store, cfg *config.Config) *Model {
	mode := store.Get()
	th := styles.NewTheme(mode)
	md := components.NewMarkdownRenderer(mode, 64)

	m := &Model{
		session:  sess,
		client:   client,
		themes:   store,
		keys:     DefaultKeyMap(),
		theme:    th,
		input:    components.NewInputArea(th),
		banner:   components.NewServiceBanner(th),
		status:   components.NewStatusBar(th),
		spinner:  components.NewThinkingSpinner(th),
		list:     components.NewMessageList(th, md, sess.Registry()),
		markdown: md,
		gate:     NewRenderGate(defaultMaxFPS),
		changes:  make(chan struct{}, 1),
		width:    80,
		height:   24,
	}
	m.showDebug = cfg != nil && cfg.UI.Debug
	m.status.Theme = mode.String()

	// The hook runs on the streaming goroutine. Mark the gate and poke
	// the channel; a full channel already has a wakeup in flight.
	sess.SetOnChange(func() {
		m.gate.Mark()
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	return m
}

// Init starts the composer cursor, the startup health probe, and the
// session-change listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Focus(),
		m.waitForChange(),
		m.checkHealthCmd(),
	)
}

// waitForChange blocks until the session reports a change.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return SessionChangedMsg{}
	}
}

// checkHealthCmd probes the agent service once at startup. There is no
// retry; an unhealthy service raises the persistent banner.
func (m *Model) checkHealthCmd() tea.Cmd {
	return func() tea.Msg {
		return HealthCheckMsg{Err: m.client.CheckHealth(context.Background())}
	}
}

// pendingToolCall returns the most recent tool call gated on
// confirmation, or nil.
func (m *Model) pendingToolCall() *model.ToolCall {
	registry := m.session.Registry()
	messages := m.session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		for j := len(messages[i].Parts) - 1; j >= 0; j-- {
			part := messages[i].Parts[j]
			if !part.IsTool() {
				continue
			}
			if part.Tool.State == model.ToolInputAvailable && registry.Requires(part.Tool.Name) {
				return part.Tool
			}
		}
	}
	return nil
}
