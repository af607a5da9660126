// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/agentdeck/internal/theme"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders markdown text parts with Glamour.
//
// Rendering is cached per (messageID, partIndex). During streaming the
// same part re-renders on every delta, so the cache compares the source
// text and only invokes Glamour when the part actually changed. A width
// or mode change drops the whole cache.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	mode     theme.Mode
	width    int
	cache    map[string]renderedPart
}

type renderedPart struct {
	source string
	output string
}

// NewMarkdownRenderer creates a renderer for the given mode and wrap width.
func NewMarkdownRenderer(mode theme.Mode, width int) *MarkdownRenderer {
	r := &MarkdownRenderer{
		mode:  mode,
		width: width,
		cache: make(map[string]renderedPart),
	}
	r.rebuild()
	return r
}

// rebuild constructs the Glamour renderer. Called with mu held (or from
// the constructor before the renderer is shared).
func (r *MarkdownRenderer) rebuild() {
	style := "dark"
	if r.mode == theme.Light {
		style = "light"
	}
	width := r.width
	if width < 20 {
		width = 20
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		// Glamour only fails on invalid options; fall back to raw text.
		tr = nil
	}
	r.renderer = tr
	r.cache = make(map[string]renderedPart)
}

// SetWidth changes the wrap width, dropping the cache.
func (r *MarkdownRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width {
		return
	}
	r.width = width
	r.rebuild()
}

// SetMode changes the color mode, dropping the cache.
func (r *MarkdownRenderer) SetMode(mode theme.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mode == r.mode {
		return
	}
	r.mode = mode
	r.rebuild()
}

// Render renders one text part, reusing the cached output when the part
// has not changed since the last render.
func (r *MarkdownRenderer) Render(messageID string, partIndex int, markdown string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := messageID + ":" + strconv.Itoa(partIndex)
	if cached, ok := r.cache[key]; ok && cached.source == markdown {
		return cached.output
	}

	out := r.renderLocked(markdown)
	r.cache[key] = renderedPart{source: markdown, output: out}
	return out
}

// RenderOnce renders markdown without caching, for one-shot output.
func (r *MarkdownRenderer) RenderOnce(markdown string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(markdown)
}

func (r *MarkdownRenderer) renderLocked(markdown string) string {
	if r.renderer == nil {
		return markdown
	}
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	// Glamour pads with leading/trailing blank lines; the transcript
	// handles its own spacing.
	return strings.Trim(out, "\n")
}

// Forget drops the cache entries for a message, e.g. after it is removed
// from the transcript.
func (r *MarkdownRenderer) Forget(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := messageID + ":"
	for key := range r.cache {
		if strings.HasPrefix(key, prefix) {
			delete(r.cache, key)
		}
	}
}
