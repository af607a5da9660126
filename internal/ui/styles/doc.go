// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the agentdeck TUI.

The package defines the color palette and the Theme struct holding every
Lip Gloss style the UI renders with. All colors are AdaptiveColor pairs;
the active theme mode decides which side of each pair applies.

# Color System (colors.go)

Accent colors (Purple, Cyan, Emerald, Amber, Rose) cover assistant
accents, info, success, pending-confirmation, and error states. Message
bubbles and tool cards use semantic tokens (UserBubbleBg, ToolErrorFg,
...) layered over the surface colors.

# Theme System (theme.go)

The Theme struct is rebuilt whenever the mode changes:

	t := styles.NewTheme(theme.Dark)
	t.ApplyMode(theme.Light) // flips every style to the light palette

Exactly one mode is in effect at a time; there is no blended state.

# Spinners (animations.go)

Frame sets for the streaming indicator. All frames are ASCII for
maximum terminal compatibility.
*/
package styles
