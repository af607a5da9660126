// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdeck/internal/agent"
	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/model"
	"github.com/jeranaias/agentdeck/internal/theme"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	client := agent.NewClient("http://127.0.0.1:1")
	sess := agent.NewSession(client, confirm.Default())
	return New(sess, client, theme.NewStore("dark", nil), config.Default())
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(*Model)
}

func TestEmptySubmitLeavesEverythingUntouched(t *testing.T) {
	m := sized(t, newTestModel(t))

	m.input.SetValue("   ")
	before := len(m.session.Messages())

	m.handleSubmit()

	if got := len(m.session.Messages()); got != before {
		t.Errorf("whitespace submit appended a message: %d -> %d", before, got)
	}
	if m.input.Value() != "   " {
		t.Errorf("whitespace submit should leave the draft alone, got %q", m.input.Value())
	}
}

func TestPendingToolCallFindsGatedCall(t *testing.T) {
	m := newTestModel(t)

	conv := model.NewConversation()
	conv.AddUserMessage("weather?")
	reply := conv.AddAssistantMessage()
	part := model.NewToolPart("getWeatherInformation", "call_9", model.ToolInputAvailable)
	part.Tool.Input = json.RawMessage(`{"city":"Oslo"}`)
	reply.AppendPart(part)
	m.session.Restore(conv)

	tool := m.pendingToolCall()
	if tool == nil {
		t.Fatal("gated call not found")
	}
	if tool.CallID != "call_9" {
		t.Errorf("CallID = %q, want call_9", tool.CallID)
	}

	if !m.session.Pending() {
		t.Error("session should report a pending confirmation")
	}
}

func TestPendingToolCallIgnoresUnregisteredAndResolved(t *testing.T) {
	m := newTestModel(t)

	conv := model.NewConversation()
	reply := conv.AddAssistantMessage()
	reply.AppendPart(model.NewToolPart("readFile", "call_1", model.ToolInputAvailable))
	reply.AppendPart(model.NewToolPart("getWeatherInformation", "call_2", model.ToolOutputAvailable))
	m.session.Restore(conv)

	if tool := m.pendingToolCall(); tool != nil {
		t.Errorf("no call should be gated, found %q", tool.CallID)
	}
	if m.session.Pending() {
		t.Error("session should not report a pending confirmation")
	}
}

func TestComposerDisabledWhilePending(t *testing.T) {
	m := sized(t, newTestModel(t))

	conv := model.NewConversation()
	reply := conv.AddAssistantMessage()
	reply.AppendPart(model.NewToolPart("getWeatherInformation", "call_1", model.ToolInputAvailable))
	m.session.Restore(conv)

	m.refresh()
	if !m.input.Disabled() {
		t.Error("composer should be disabled while a tool call is gated")
	}

	// Resolving the call re-enables the composer.
	if err := conv.SetToolOutput("call_1", json.RawMessage(`"ok"`)); err != nil {
		t.Fatal(err)
	}
	m.session.Restore(conv)
	m.refresh()
	if m.input.Disabled() {
		t.Error("composer should re-enable once the call resolves")
	}
}

func TestHealthFailureRaisesBanner(t *testing.T) {
	m := sized(t, newTestModel(t))

	if m.banner.Visible {
		t.Fatal("banner should start hidden")
	}

	m.Update(HealthCheckMsg{Err: agent.ErrServiceUnhealthy})
	if !m.banner.Visible {
		t.Error("failed health check should raise the banner")
	}

	// Healthy result leaves the banner alone.
	m2 := sized(t, newTestModel(t))
	m2.Update(HealthCheckMsg{Err: nil})
	if m2.banner.Visible {
		t.Error("healthy check should not raise the banner")
	}
}

func TestThemeToggleFlowsThroughStore(t *testing.T) {
	m := sized(t, newTestModel(t))

	if m.theme.Mode != theme.Dark {
		t.Fatalf("initial mode = %q", m.theme.Mode)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Mode != theme.Light {
		t.Errorf("mode after toggle = %q, want light", m.theme.Mode)
	}
	if m.themes.Get() != theme.Light {
		t.Error("store should hold the toggled mode")
	}
}

func TestQuitStopsSession(t *testing.T) {
	m := sized(t, newTestModel(t))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce the quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %T", msg)
	}
}
