// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and message parts.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation. A message is a
// sequence of parts; the parts keep their wire order.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, parts ...Part) *Message {
	return &Message{
		ID:        generateID("msg"),
		Role:      role,
		Parts:     parts,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a user message holding a single text part.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, NewTextPart(text))
}

// NewAssistantMessage creates an empty assistant message that streaming
// events will fill with parts.
func NewAssistantMessage() *Message {
	return NewMessage(RoleAssistant)
}

// NewSystemMessage creates a system message holding a single text part.
// System messages carry local notices and render like assistant output.
func NewSystemMessage(text string) *Message {
	return NewMessage(RoleSystem, NewTextPart(text))
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendTextDelta appends a streamed text delta to the last part when it is
// a text part, otherwise starts a new text part. Tool parts interleaved
// between text blocks therefore split the text into separate parts, which
// matches the wire order.
func (m *Message) AppendTextDelta(delta string) {
	if n := len(m.Parts); n > 0 && m.Parts[n-1].Kind == PartText {
		m.Parts[n-1].Text += delta
		return
	}
	m.Parts = append(m.Parts, NewTextPart(delta))
}

// AppendPart appends a part as-is.
func (m *Message) AppendPart(p Part) {
	m.Parts = append(m.Parts, p)
}

// ToolCall returns the tool call with the given call ID, or nil.
func (m *Message) ToolCall(callID string) *ToolCall {
	for i := range m.Parts {
		if m.Parts[i].IsTool() && m.Parts[i].Tool.CallID == callID {
			return m.Parts[i].Tool
		}
	}
	return nil
}

// TextContent concatenates the message's text parts. Used for history
// previews and the line-mode CLI, not for rendering.
func (m *Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Kind == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Preview returns a truncated single-line preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.TextContent()), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no renderable parts.
func (m *Message) IsEmpty() bool {
	for _, p := range m.Parts {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	cp := *m
	cp.Parts = make([]Part, len(m.Parts))
	for i, p := range m.Parts {
		if p.Tool != nil {
			tool := *p.Tool
			p.Tool = &tool
		}
		cp.Parts[i] = p
	}
	return &cp
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique prefixed ID, e.g. "msg_5b2c...".
func generateID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
