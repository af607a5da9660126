// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/agentdeck/internal/config"
	"github.com/jeranaias/agentdeck/internal/theme"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionChangedMsg signals that the session transcript or status
// changed. Deliveries are coalesced; one message may cover many events.
type SessionChangedMsg struct{}

// RenderTickMsg drives a deferred transcript rebuild when changes
// arrived faster than the render gate allows.
type RenderTickMsg struct {
	Time time.Time
}

// =============================================================================
// SERVICE MESSAGES
// =============================================================================

// HealthCheckMsg reports the result of the startup health probe.
type HealthCheckMsg struct {
	Err error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// ThemeChangedMsg signals that the theme store changed mode.
type ThemeChangedMsg struct {
	Mode theme.Mode
}

// ConfigReloadedMsg delivers a config reloaded from disk by the watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}
