// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package confirm decides which tool invocations must be confirmed by the
// user before they run.
package confirm

import (
	"sort"

	"github.com/jeranaias/agentdeck/internal/model"
)

// DefaultTools is the built-in set of tool names that require explicit
// user confirmation. Config can extend or replace it.
var DefaultTools = []string{
	"getWeatherInformation",
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the set of tool names that require confirmation. A Registry
// is immutable after construction, so it is safe to share across
// goroutines without locking.
type Registry struct {
	tools map[string]struct{}
}

// NewRegistry builds a registry from the given tool names. Empty names are
// ignored.
func NewRegistry(tools []string) *Registry {
	set := make(map[string]struct{}, len(tools))
	for _, name := range tools {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return &Registry{tools: set}
}

// Default returns a registry holding DefaultTools.
func Default() *Registry {
	return NewRegistry(DefaultTools)
}

// Requires reports whether the named tool needs confirmation. Names are
// compared after the wire prefix has been stripped, i.e. against the bare
// tool name.
func (r *Registry) Requires(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Tools returns the registered names in sorted order.
func (r *Registry) Tools() []string {
	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// PENDING-CONFIRMATION EVALUATION
// =============================================================================

// NeedsConfirmation reports whether a single part is a tool invocation that
// is parked waiting for the user: a tool part in the input-available state
// whose tool is registered. Every other part kind and state is false.
func (r *Registry) NeedsConfirmation(p model.Part) bool {
	return p.IsTool() &&
		p.Tool.State == model.ToolInputAvailable &&
		r.Requires(p.Tool.Name)
}

// Pending reports whether any part of any message needs confirmation.
// This is recomputed from the live message list on each call; it is never
// cached, so it can never go stale against the transcript. The scan
// short-circuits on the first match and implies no ordering.
func (r *Registry) Pending(messages []*model.Message) bool {
	for _, msg := range messages {
		for _, p := range msg.Parts {
			if r.NeedsConfirmation(p) {
				return true
			}
		}
	}
	return false
}
