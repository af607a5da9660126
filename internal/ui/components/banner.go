// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdeck/internal/ui/styles"
)

// =============================================================================
// SERVICE BANNER COMPONENT
// =============================================================================

// ServiceBanner is the persistent banner shown when the agent service
// failed its startup health check. It has no dismiss affordance and no
// retry; it stays up for the life of the session.
type ServiceBanner struct {
	Visible bool
	Detail  string
	Width   int
	theme   *styles.Theme
}

// NewServiceBanner creates a hidden banner.
func NewServiceBanner(th *styles.Theme) *ServiceBanner {
	return &ServiceBanner{
		Width: 80,
		theme: th,
	}
}

// Show makes the banner visible with an optional detail line.
func (b *ServiceBanner) Show(detail string) {
	b.Visible = true
	b.Detail = detail
}

// SetWidth sets the banner width.
func (b *ServiceBanner) SetWidth(width int) {
	b.Width = width
}

// View renders the banner, or nothing while hidden.
func (b *ServiceBanner) View() string {
	if !b.Visible {
		return ""
	}

	text := styles.StatusIndicators.Error + " Agent service is unreachable. Responses will fail until it is back."
	if b.Detail != "" {
		text += " (" + b.Detail + ")"
	}
	return b.theme.BannerError.Width(b.Width).Align(lipgloss.Center).Render(text)
}
