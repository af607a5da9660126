// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for the given tick count.
func (s SpinnerConfig) Frame(tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return s.Frames[tick%len(s.Frames)]
}

// LineSpinner - simple line rotation, shown while a response streams.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - classic three-dot animation for the thinking indicator.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}
