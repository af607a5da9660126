// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

// =============================================================================
// RENDER GATE
// =============================================================================

// defaultMaxFPS caps transcript rebuilds during streaming. Token deltas
// can arrive hundreds of times per second; re-rendering each one burns
// CPU and flickers, while 30fps is indistinguishable to the eye.
const defaultMaxFPS = 30

// RenderGate coalesces session-change notifications into rate-limited
// renders. Changes mark the gate dirty; the Bubble Tea loop asks
// TryRender before rebuilding the transcript and schedules a tick for
// whatever the limiter refused.
//
// Thread-safe: marks arrive from the streaming goroutine while renders
// happen on the UI loop.
type RenderGate struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	dirty   bool
}

// NewRenderGate creates a gate capped at the given frame rate.
func NewRenderGate(maxFPS int) *RenderGate {
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = defaultMaxFPS
	}
	return &RenderGate{
		// Burst of 1: a quiet period does not bank render credits.
		limiter: rate.NewLimiter(rate.Limit(maxFPS), 1),
	}
}

// Mark records that the transcript changed and needs a rebuild.
func (g *RenderGate) Mark() {
	g.mu.Lock()
	g.dirty = true
	g.mu.Unlock()
}

// TryRender reports whether a rebuild should happen now. It returns
// true at most maxFPS times per second; a refused call leaves the gate
// dirty so a later tick picks the change up.
func (g *RenderGate) TryRender() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.dirty {
		return false
	}
	if !g.limiter.Allow() {
		return false
	}
	g.dirty = false
	return true
}

// ForceRender clears the gate unconditionally, for stream completion
// where the final state must show immediately.
func (g *RenderGate) ForceRender() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	wasDirty := g.dirty
	g.dirty = false
	return wasDirty
}

// Dirty reports whether a change is waiting on the limiter.
func (g *RenderGate) Dirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

// renderTickCmd schedules a deferred rebuild one frame from now.
func renderTickCmd() tea.Cmd {
	return tea.Tick(time.Second/defaultMaxFPS, func(t time.Time) tea.Msg {
		return RenderTickMsg{Time: t}
	})
}
