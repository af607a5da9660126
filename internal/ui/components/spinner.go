// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/agentdeck/internal/ui/styles"
)

// =============================================================================
// THINKING SPINNER
// =============================================================================

// ThinkingSpinner shows an animated indicator while a response is in
// flight, with elapsed time once it runs long.
type ThinkingSpinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
	theme     *styles.Theme
}

// NewThinkingSpinner creates the spinner in the idle state.
func NewThinkingSpinner(th *styles.Theme) *ThinkingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	s.Style = th.Spinner

	return &ThinkingSpinner{
		spinner: s,
		message: "Thinking",
		theme:   th,
	}
}

// Start activates the spinner and returns the tick command.
func (s *ThinkingSpinner) Start() tea.Cmd {
	s.active = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *ThinkingSpinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *ThinkingSpinner) Active() bool {
	return s.active
}

// SetMessage changes the label next to the animation.
func (s *ThinkingSpinner) SetMessage(msg string) {
	s.message = msg
}

// Update advances the animation.
func (s *ThinkingSpinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or nothing while idle.
func (s *ThinkingSpinner) View() string {
	if !s.active {
		return ""
	}

	line := s.spinner.View() + " " + s.theme.ThinkingText.Render(s.message+"...")
	if elapsed := time.Since(s.startTime); elapsed > 3*time.Second {
		line += " " + s.theme.ShortcutDesc.Render("("+elapsed.Truncate(time.Second).String()+")")
	}
	return line
}
