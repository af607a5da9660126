// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// PART PARSING TESTS
// =============================================================================

func TestParsePartType(t *testing.T) {
	tests := []struct {
		name     string
		wireType string
		wantKind PartKind
		wantTool string
	}{
		{"text part", "text", PartText, ""},
		{"tool part", "tool-getWeatherInformation", PartTool, "getWeatherInformation"},
		{"tool part short name", "tool-x", PartTool, "x"},
		{"bare prefix is not a tool", "tool-", PartUnknown, ""},
		{"prefix must match exactly", "tooling-foo", PartUnknown, ""},
		{"unrecognized type", "reasoning", PartUnknown, ""},
		{"empty type", "", PartUnknown, ""},
		{"case sensitive", "Tool-getWeatherInformation", PartUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, tool := ParsePartType(tt.wireType)
			if kind != tt.wantKind {
				t.Errorf("ParsePartType(%q) kind = %q, want %q", tt.wireType, kind, tt.wantKind)
			}
			if tool != tt.wantTool {
				t.Errorf("ParsePartType(%q) tool = %q, want %q", tt.wireType, tool, tt.wantTool)
			}
		})
	}
}

func TestWirePartTypeRoundTrip(t *testing.T) {
	p := NewToolPart("getLocalTime", "call_1", ToolInputAvailable)
	wire := WirePartType(p)
	if wire != "tool-getLocalTime" {
		t.Fatalf("WirePartType = %q, want %q", wire, "tool-getLocalTime")
	}
	kind, name := ParsePartType(wire)
	if kind != PartTool || name != "getLocalTime" {
		t.Errorf("round trip = (%q, %q), want (tool, getLocalTime)", kind, name)
	}
}

func TestPartIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want bool
	}{
		{"text with content", NewTextPart("hi"), false},
		{"empty text", NewTextPart(""), true},
		{"tool part", NewToolPart("bash", "c1", ToolInputStreaming), false},
		{"tool kind without payload", Part{Kind: PartTool}, true},
		{"unknown part", NewUnknownPart("reasoning"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.part.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestAppendTextDelta(t *testing.T) {
	msg := NewAssistantMessage()

	msg.AppendTextDelta("Hello")
	msg.AppendTextDelta(", world")
	if len(msg.Parts) != 1 {
		t.Fatalf("expected deltas to coalesce into 1 part, got %d", len(msg.Parts))
	}
	if msg.Parts[0].Text != "Hello, world" {
		t.Errorf("text = %q, want %q", msg.Parts[0].Text, "Hello, world")
	}

	// A tool part in between starts a fresh text part.
	msg.AppendPart(NewToolPart("bash", "c1", ToolInputStreaming))
	msg.AppendTextDelta("after")
	if len(msg.Parts) != 3 {
		t.Fatalf("expected 3 parts after interleaved tool call, got %d", len(msg.Parts))
	}
	if msg.Parts[2].Text != "after" {
		t.Errorf("trailing text = %q, want %q", msg.Parts[2].Text, "after")
	}
}

func TestMessageTextContentSkipsNonText(t *testing.T) {
	msg := NewMessage(RoleAssistant,
		NewTextPart("before "),
		NewToolPart("bash", "c1", ToolOutputAvailable),
		NewUnknownPart("reasoning"),
		NewTextPart("after"),
	)
	if got := msg.TextContent(); got != "before after" {
		t.Errorf("TextContent() = %q, want %q", got, "before after")
	}
}

func TestMessagePreviewTruncation(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("héllo ", 20))
	got := msg.Preview(10)
	if len([]rune(got)) != 10 {
		t.Errorf("preview rune length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview %q should end with ellipsis", got)
	}
}

func TestMessageCloneIsDeep(t *testing.T) {
	msg := NewMessage(RoleAssistant, NewToolPart("bash", "c1", ToolInputAvailable))
	cp := msg.Clone()

	cp.Parts[0].Tool.State = ToolOutputAvailable
	if msg.Parts[0].Tool.State != ToolInputAvailable {
		t.Error("mutating the clone changed the original tool call")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if !strings.HasPrefix(id, "msg_") {
			t.Fatalf("id %q missing msg_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationToolLifecycle(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("run it")
	asst := conv.AddAssistantMessage()
	asst.AppendPart(NewToolPart("getWeatherInformation", "call_1", ToolInputStreaming))

	if err := conv.SetToolInput("call_1", json.RawMessage(`{"city":"Oslo"}`)); err != nil {
		t.Fatalf("SetToolInput: %v", err)
	}
	_, tc := conv.FindToolCall("call_1")
	if tc == nil {
		t.Fatal("FindToolCall returned nil after SetToolInput")
	}
	if tc.State != ToolInputAvailable {
		t.Errorf("state = %q, want input-available", tc.State)
	}

	if err := conv.SetToolOutput("call_1", json.RawMessage(`"sunny"`)); err != nil {
		t.Fatalf("SetToolOutput: %v", err)
	}
	if tc.State != ToolOutputAvailable {
		t.Errorf("state = %q, want output-available", tc.State)
	}
	if string(tc.Output) != `"sunny"` {
		t.Errorf("output = %s, want \"sunny\"", tc.Output)
	}
}

func TestConversationUnknownToolCall(t *testing.T) {
	conv := NewConversation()
	conv.AddAssistantMessage()

	err := conv.SetToolOutput("missing", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownToolCall) {
		t.Errorf("SetToolOutput error = %v, want ErrUnknownToolCall", err)
	}
}

func TestConversationSetToolError(t *testing.T) {
	conv := NewConversation()
	asst := conv.AddAssistantMessage()
	asst.AppendPart(NewToolPart("bash", "c1", ToolInputAvailable))

	if err := conv.SetToolError("c1", "exit status 1"); err != nil {
		t.Fatalf("SetToolError: %v", err)
	}
	_, tc := conv.FindToolCall("c1")
	if tc.State != ToolOutputError {
		t.Errorf("state = %q, want output-error", tc.State)
	}
	if tc.ErrorText != "exit status 1" {
		t.Errorf("error text = %q", tc.ErrorText)
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage()

	conv.Clear()
	if !conv.IsEmpty() {
		t.Error("conversation not empty after Clear")
	}
	if conv.Title != "" {
		t.Errorf("title = %q, want empty after Clear", conv.Title)
	}
}

func TestConversationSnapshotIsolation(t *testing.T) {
	conv := NewConversation()
	asst := conv.AddAssistantMessage()
	asst.AppendTextDelta("partial")

	snap := conv.Snapshot()
	asst.AppendTextDelta(" more")

	if snap[0].TextContent() != "partial" {
		t.Errorf("snapshot text = %q, want %q", snap[0].TextContent(), "partial")
	}
}

func TestConversationTitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("notice")
	conv.AddUserMessage("what is the weather in Oslo today?")

	if conv.Title != "what is the weather in Oslo today?" {
		t.Errorf("title = %q", conv.Title)
	}
}

func TestConversationPruning(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("keep me")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("m")
	}

	if got := conv.MessageCount(); got != MaxMessages+1 {
		t.Errorf("message count = %d, want %d", got, MaxMessages+1)
	}
	if conv.Messages[0].Role != RoleSystem {
		t.Error("system message not preserved at front after pruning")
	}
}

func TestPruningKeepsTranscriptOrder(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxMessages; i++ {
		conv.AddMessage(NewUserMessage(fmt.Sprintf("m%d", i)))
	}
	conv.AddSystemMessage("notice")
	for i := MaxMessages; i < MaxMessages+5; i++ {
		conv.AddMessage(NewUserMessage(fmt.Sprintf("m%d", i)))
	}

	// The cap applies to non-system messages; the notice rides along.
	if got := conv.MessageCount(); got != MaxMessages+1 {
		t.Fatalf("message count = %d, want %d", got, MaxMessages+1)
	}

	// Oldest survivor is the first message inside the cap window.
	if got := conv.Messages[0].TextContent(); got != "m5" {
		t.Errorf("first surviving message = %q, want m5", got)
	}
	if got := conv.Messages[len(conv.Messages)-1].TextContent(); got != "m1004" {
		t.Errorf("last message = %q, want m1004", got)
	}

	// The notice keeps its place between its original neighbors.
	idx := -1
	for i, msg := range conv.Messages {
		if msg.Role == RoleSystem {
			idx = i
			break
		}
	}
	if idx <= 0 || idx >= len(conv.Messages)-1 {
		t.Fatalf("system notice at index %d", idx)
	}
	if got := conv.Messages[idx-1].TextContent(); got != "m999" {
		t.Errorf("message before notice = %q, want m999", got)
	}
	if got := conv.Messages[idx+1].TextContent(); got != "m1000" {
		t.Errorf("message after notice = %q, want m1000", got)
	}
}
