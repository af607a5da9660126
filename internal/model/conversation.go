// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and message parts.
package model

import (
	"encoding/json"
	"errors"
	"time"
)

// MaxMessages is the maximum number of messages to keep in conversation
// history. When exceeded, old messages are pruned to prevent unbounded
// memory growth.
const MaxMessages = 1000

// ErrUnknownToolCall is returned when a tool event or result references a
// call ID that no message in the conversation carries.
var ErrUnknownToolCall = errors.New("unknown tool call id")

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered chat transcript with metadata. It is a
// plain data structure; the owning session serializes access to it.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateID("conv"),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and appends a user message with one text part.
func (c *Conversation) AddUserMessage(text string) *Message {
	msg := NewUserMessage(text)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an empty assistant message for
// streaming events to fill.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system notice.
func (c *Conversation) AddSystemMessage(text string) *Message {
	msg := NewSystemMessage(text)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageByID returns a message by its ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clear removes all messages from the conversation.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// =============================================================================
// TOOL CALL LOOKUP AND MUTATION
// =============================================================================

// FindToolCall locates a tool call by ID anywhere in the transcript.
// Returns the owning message and the call, or nils.
func (c *Conversation) FindToolCall(callID string) (*Message, *ToolCall) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if tc := c.Messages[i].ToolCall(callID); tc != nil {
			return c.Messages[i], tc
		}
	}
	return nil, nil
}

// SetToolInput replaces the arguments of a tool call and marks them
// complete. Used when the stream reports input-available.
func (c *Conversation) SetToolInput(callID string, input json.RawMessage) error {
	_, tc := c.FindToolCall(callID)
	if tc == nil {
		return ErrUnknownToolCall
	}
	tc.Input = input
	tc.State = ToolInputAvailable
	c.UpdatedAt = time.Now()
	return nil
}

// SetToolOutput records a tool call's result and transitions it to
// output-available.
func (c *Conversation) SetToolOutput(callID string, output json.RawMessage) error {
	_, tc := c.FindToolCall(callID)
	if tc == nil {
		return ErrUnknownToolCall
	}
	tc.Output = output
	tc.ErrorText = ""
	tc.State = ToolOutputAvailable
	c.UpdatedAt = time.Now()
	return nil
}

// SetToolError records a tool call failure and transitions it to
// output-error.
func (c *Conversation) SetToolError(callID string, errText string) error {
	_, tc := c.FindToolCall(callID)
	if tc == nil {
		return ErrUnknownToolCall
	}
	tc.ErrorText = errText
	tc.State = ToolOutputError
	c.UpdatedAt = time.Now()
	return nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Snapshot returns a deep copy of the message list. The streaming goroutine
// mutates messages under the session lock; renderers work from snapshots so
// they never observe a half-applied event.
func (c *Conversation) Snapshot() []*Message {
	out := make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		out[i] = msg.Clone()
	}
	return out
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = c.Snapshot()
	return &clone
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// Title fallback for listings.
func (c *Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// pruneOldMessages drops the oldest messages once the transcript exceeds
// MaxMessages. System notices are always kept, and surviving messages
// stay in their original order.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}

	// Grant the newest non-system messages the cap, walking backwards.
	keep := make([]bool, len(c.Messages))
	quota := MaxMessages
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleSystem {
			keep[i] = true
			continue
		}
		if quota > 0 {
			keep[i] = true
			quota--
		}
	}

	pruned := make([]*Message, 0, MaxMessages)
	for i, msg := range c.Messages {
		if keep[i] {
			pruned = append(pruned, msg)
		}
	}
	c.Messages = pruned
}
