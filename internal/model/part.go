// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and message parts.
package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// PART KIND
// =============================================================================

// PartKind discriminates the content kinds a message part can carry.
type PartKind string

const (
	// PartText is a markdown-renderable text block.
	PartText PartKind = "text"
	// PartTool is a tool invocation with its own lifecycle state.
	PartTool PartKind = "tool"
	// PartUnknown is any wire part type this build does not understand.
	// Unknown parts are preserved but never rendered.
	PartUnknown PartKind = "unknown"
)

// toolPartPrefix is the wire-type prefix marking a tool part. The wire
// protocol types tool parts as "tool-<name>"; the prefix is stripped here
// and nowhere else.
const toolPartPrefix = "tool-"

// ParsePartType maps a wire part type to a PartKind and, for tool parts,
// the bare tool name. A bare "tool-" with no name is not a valid tool part.
func ParsePartType(wireType string) (PartKind, string) {
	if wireType == "text" {
		return PartText, ""
	}
	if name, ok := strings.CutPrefix(wireType, toolPartPrefix); ok && name != "" {
		return PartTool, name
	}
	return PartUnknown, ""
}

// WirePartType is the inverse of ParsePartType for tool parts, used when
// serializing a transcript back to the wire shape.
func WirePartType(p Part) string {
	switch p.Kind {
	case PartText:
		return "text"
	case PartTool:
		if p.Tool != nil {
			return toolPartPrefix + p.Tool.Name
		}
	}
	return string(PartUnknown)
}

// =============================================================================
// TOOL STATE
// =============================================================================

// ToolState tracks a tool invocation through its lifecycle.
type ToolState string

const (
	// ToolInputStreaming means the agent is still emitting the call arguments.
	ToolInputStreaming ToolState = "input-streaming"
	// ToolInputAvailable means the arguments are complete and the call is
	// waiting to run. Calls that require confirmation park here until the
	// user answers.
	ToolInputAvailable ToolState = "input-available"
	// ToolOutputAvailable means the call ran and produced output.
	ToolOutputAvailable ToolState = "output-available"
	// ToolOutputError means the call failed.
	ToolOutputError ToolState = "output-error"
)

// String returns the string representation of the state.
func (s ToolState) String() string {
	return string(s)
}

// Terminal reports whether the state is a final one.
func (s ToolState) Terminal() bool {
	return s == ToolOutputAvailable || s == ToolOutputError
}

// DisplayName returns a short human-readable label for the state.
func (s ToolState) DisplayName() string {
	switch s {
	case ToolInputStreaming:
		return "Preparing"
	case ToolInputAvailable:
		return "Pending"
	case ToolOutputAvailable:
		return "Done"
	case ToolOutputError:
		return "Failed"
	default:
		return string(s)
	}
}

// =============================================================================
// TOOL CALL
// =============================================================================

// ToolCall is the tool invocation payload of a tool part.
type ToolCall struct {
	// Name is the bare tool name with the wire prefix already stripped.
	Name string `json:"name"`
	// CallID identifies this invocation across streaming events and
	// result submission.
	CallID string `json:"call_id"`
	// State is the invocation's lifecycle state.
	State ToolState `json:"state"`

	// Input holds the call arguments as received. May be partial while
	// State is input-streaming.
	Input json.RawMessage `json:"input,omitempty"`
	// Output holds the call result once State is output-available.
	Output json.RawMessage `json:"output,omitempty"`
	// ErrorText holds the failure message once State is output-error.
	ErrorText string `json:"error_text,omitempty"`
}

// =============================================================================
// PART TYPE
// =============================================================================

// Part is one content block of a message. Exactly one payload field is
// populated according to Kind; renderers switch on Kind and never guess.
type Part struct {
	Kind PartKind `json:"kind"`

	// Text is set when Kind is PartText.
	Text string `json:"text,omitempty"`
	// Tool is set when Kind is PartTool.
	Tool *ToolCall `json:"tool,omitempty"`
	// WireType preserves the original type string for unknown parts.
	WireType string `json:"wire_type,omitempty"`
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// NewToolPart creates a tool part in the given state.
func NewToolPart(name, callID string, state ToolState) Part {
	return Part{
		Kind: PartTool,
		Tool: &ToolCall{Name: name, CallID: callID, State: state},
	}
}

// NewUnknownPart creates a placeholder for an unrecognized wire part type.
func NewUnknownPart(wireType string) Part {
	return Part{Kind: PartUnknown, WireType: wireType}
}

// IsText reports whether the part is a text part.
func (p Part) IsText() bool {
	return p.Kind == PartText
}

// IsTool reports whether the part is a tool part with a populated payload.
func (p Part) IsTool() bool {
	return p.Kind == PartTool && p.Tool != nil
}

// IsEmpty reports whether the part carries nothing worth rendering.
func (p Part) IsEmpty() bool {
	switch p.Kind {
	case PartText:
		return p.Text == ""
	case PartTool:
		return p.Tool == nil
	default:
		return true
	}
}
