// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/agentdeck/internal/theme"
)

// Theme holds all the styled components for the application.
//
// The theme follows the mode held by the theme store rather than the
// terminal's detected background: toggling dark/light rebuilds every
// style from the adaptive palette, so exactly one side of each
// AdaptiveColor is in effect at a time.
type Theme struct {
	// Active mode and terminal capabilities
	Mode         theme.Mode
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	Avatar          lipgloss.Style
	RoleLabel       lipgloss.Style

	// ==========================================================================
	// TOOL CARD STYLES
	// ==========================================================================

	ToolCard         lipgloss.Style
	ToolCardPending  lipgloss.Style
	ToolName         lipgloss.Style
	ToolStateRunning lipgloss.Style
	ToolStateSuccess lipgloss.Style
	ToolStateError   lipgloss.Style
	ToolStatePending lipgloss.Style
	ConfirmButton    lipgloss.Style
	RejectButton     lipgloss.Style
	DebugJSON        lipgloss.Style

	// ==========================================================================
	// SERVICE BANNER STYLES
	// ==========================================================================

	BannerError lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
}

// NewTheme creates a theme for the given mode.
func NewTheme(mode theme.Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.ApplyMode(mode)
	return t
}

// ApplyMode switches the theme to the given mode and rebuilds all styles.
// Lip Gloss resolves AdaptiveColor against the process-wide background
// flag, so the flag must be set before any style is constructed.
func (t *Theme) ApplyMode(mode theme.Mode) {
	t.Mode = mode
	lipgloss.SetHasDarkBackground(mode == theme.Dark)
	t.initStyles()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2)

	t.Avatar = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		MarginRight(1)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Tool cards
	t.ToolCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		BorderLeft(true).
		PaddingLeft(2)

	t.ToolCardPending = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Amber).
		BorderLeft(true).
		PaddingLeft(2)

	t.ToolName = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ToolStateRunning = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ToolStateSuccess = lipgloss.NewStyle().
		Foreground(ToolSuccessFg)

	t.ToolStateError = lipgloss.NewStyle().
		Foreground(ToolErrorFg)

	t.ToolStatePending = lipgloss.NewStyle().
		Foreground(ToolPendingFg).
		Bold(true)

	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	t.RejectButton = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 2)

	t.DebugJSON = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	// Service banner
	t.BannerError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 2).
		Width(0)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
