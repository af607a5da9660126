// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is the session's generation state.
type Status string

const (
	// StatusIdle means no generation is in flight.
	StatusIdle Status = "idle"
	// StatusSubmitted means a request was dispatched but no event has
	// arrived yet.
	StatusSubmitted Status = "submitted"
	// StatusStreaming means events are arriving.
	StatusStreaming Status = "streaming"
	// StatusError means the last generation failed. The next successful
	// dispatch clears it.
	StatusError Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Busy reports whether a generation is in flight. While busy the submit
// affordance becomes a stop affordance.
func (s Status) Busy() bool {
	return s == StatusSubmitted || s == StatusStreaming
}
