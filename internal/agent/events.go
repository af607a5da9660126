// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/json"

	"github.com/jeranaias/agentdeck/internal/model"
)

// =============================================================================
// STREAM EVENTS (WIRE FORMAT)
// =============================================================================

// Stream event types emitted by the agent service. One JSON object per
// line; unrecognized types are skipped.
const (
	EventMessageStart   = "message-start"
	EventTextDelta      = "text-delta"
	EventPartStart      = "part-start"
	EventToolInputDelta = "tool-input-delta"
	EventToolInput      = "tool-input-available"
	EventToolOutput     = "tool-output-available"
	EventToolError      = "tool-output-error"
	EventFinish         = "finish"
	EventError          = "error"
)

// StreamEvent is one ndjson line of a generation stream.
type StreamEvent struct {
	Type string `json:"type"`

	// MessageID identifies the assistant message the event applies to.
	MessageID string `json:"message_id,omitempty"`

	// Delta carries streamed text for text-delta events and streamed
	// argument fragments for tool-input-delta events.
	Delta string `json:"delta,omitempty"`

	// PartType is the wire part type for part-start events, e.g. "text"
	// or "tool-getWeatherInformation".
	PartType string `json:"part_type,omitempty"`

	// ToolCallID identifies the tool invocation for tool-* events.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Input holds the completed call arguments for tool-input-available.
	Input json.RawMessage `json:"input,omitempty"`
	// Output holds the call result for tool-output-available.
	Output json.RawMessage `json:"output,omitempty"`

	// Error carries the message for error and tool-output-error events.
	Error string `json:"error,omitempty"`
}

// =============================================================================
// WIRE TRANSCRIPT
// =============================================================================

// wireMessage is a message in the request body sent to the chat endpoint.
type wireMessage struct {
	ID    string     `json:"id"`
	Role  string     `json:"role"`
	Parts []wirePart `json:"parts"`
}

// wirePart is the wire shape of a message part. Tool parts are typed
// "tool-<name>" per the wire contract.
type wirePart struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	State      string          `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// toWireMessages converts a transcript snapshot to the request shape.
// Unknown parts round-trip with their original wire type preserved.
func toWireMessages(messages []*model.Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		wm := wireMessage{
			ID:    msg.ID,
			Role:  msg.Role.String(),
			Parts: make([]wirePart, 0, len(msg.Parts)),
		}
		for _, p := range msg.Parts {
			switch {
			case p.Kind == model.PartText:
				wm.Parts = append(wm.Parts, wirePart{Type: "text", Text: p.Text})
			case p.IsTool():
				wm.Parts = append(wm.Parts, wirePart{
					Type:       model.WirePartType(p),
					ToolCallID: p.Tool.CallID,
					State:      p.Tool.State.String(),
					Input:      p.Tool.Input,
					Output:     p.Tool.Output,
					Error:      p.Tool.ErrorText,
				})
			case p.Kind == model.PartUnknown && p.WireType != "":
				wm.Parts = append(wm.Parts, wirePart{Type: p.WireType})
			}
		}
		out = append(out, wm)
	}
	return out
}

// =============================================================================
// TOOL RESULT COMMAND
// =============================================================================

// ToolResult is the typed command submitting a tool call's result. It is
// the only way a result reaches the agent; both confirmation answers and
// client-executed tool output go through it.
type ToolResult struct {
	// Tool is the bare tool name.
	Tool string `json:"tool"`
	// ToolCallID identifies the invocation being answered.
	ToolCallID string `json:"tool_call_id"`
	// Output is the result payload. For confirmation-gated tools this is
	// the user's answer string.
	Output any `json:"output"`
}

// Confirmation answer payloads for gated tool calls.
const (
	ConfirmOutput = "Yes, confirmed."
	RejectOutput  = "No, denied."
)

// ConfirmResult builds the result submitted when the user approves a
// gated tool call.
func ConfirmResult(tool, callID string) ToolResult {
	return ToolResult{Tool: tool, ToolCallID: callID, Output: ConfirmOutput}
}

// RejectResult builds the result submitted when the user rejects a gated
// tool call.
func RejectResult(tool, callID string) ToolResult {
	return ToolResult{Tool: tool, ToolCallID: callID, Output: RejectOutput}
}
