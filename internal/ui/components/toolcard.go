// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/agentdeck/internal/model"
	"github.com/jeranaias/agentdeck/internal/ui/styles"
)

// =============================================================================
// TOOL CARD COMPONENT
// =============================================================================

// ToolCard renders one tool invocation with its lifecycle state. A card
// whose tool is awaiting confirmation shows Confirm/Reject buttons; the
// selected button is tracked by the chat model, not the card.
type ToolCard struct {
	Tool *model.ToolCall
	// NeedsConfirmation marks this call as gated on a user decision.
	NeedsConfirmation bool
	// FocusedButton selects the highlighted button: 0 confirm, 1 reject.
	FocusedButton int
	// ShowDebug includes the raw input/output JSON below the card.
	ShowDebug bool
	Width     int

	theme *styles.Theme
}

// NewToolCard creates a tool card.
func NewToolCard(tool *model.ToolCall, th *styles.Theme) *ToolCard {
	return &ToolCard{
		Tool:  tool,
		Width: 80,
		theme: th,
	}
}

// View renders the card.
func (c *ToolCard) View() string {
	if c.Tool == nil {
		return ""
	}

	var lines []string
	lines = append(lines, c.renderHeader())

	if summary := c.renderResult(); summary != "" {
		lines = append(lines, summary)
	}
	if c.NeedsConfirmation && c.Tool.State == model.ToolInputAvailable {
		lines = append(lines, "", c.renderButtons())
	}
	if c.ShowDebug {
		if raw := c.renderDebug(); raw != "" {
			lines = append(lines, raw)
		}
	}

	body := strings.Join(lines, "\n")

	card := c.theme.ToolCard
	if c.NeedsConfirmation && c.Tool.State == model.ToolInputAvailable {
		card = c.theme.ToolCardPending
	}
	return card.MaxWidth(c.Width).Render(body)
}

// renderHeader renders "Get Weather Information  [state]".
func (c *ToolCard) renderHeader() string {
	name := c.theme.ToolName.Render(HumanizeToolName(c.Tool.Name))
	return name + "  " + c.renderStateBadge()
}

// renderStateBadge renders the state label with its accessible indicator.
func (c *ToolCard) renderStateBadge() string {
	switch c.Tool.State {
	case model.ToolInputStreaming:
		return c.theme.ToolStateRunning.Render(styles.StatusIndicators.Pending + " preparing")
	case model.ToolInputAvailable:
		if c.NeedsConfirmation {
			return c.theme.ToolStatePending.Render(styles.StatusIndicators.Warning + " awaiting confirmation")
		}
		return c.theme.ToolStateRunning.Render(styles.StatusIndicators.Active + " running")
	case model.ToolOutputAvailable:
		return c.theme.ToolStateSuccess.Render(styles.StatusIndicators.Success + " done")
	case model.ToolOutputError:
		return c.theme.ToolStateError.Render(styles.StatusIndicators.Error + " failed")
	default:
		return c.theme.ToolStateRunning.Render(string(c.Tool.State))
	}
}

// renderResult shows the output (or error) once the call finished.
func (c *ToolCard) renderResult() string {
	switch c.Tool.State {
	case model.ToolOutputAvailable:
		out := compactJSON(c.Tool.Output)
		if out == "" {
			return ""
		}
		return c.theme.ToolStateSuccess.Render(truncateLines(out, 10))
	case model.ToolOutputError:
		if c.Tool.ErrorText == "" {
			return ""
		}
		return c.theme.ToolStateError.Render(c.Tool.ErrorText)
	default:
		return ""
	}
}

// renderButtons renders the Confirm/Reject pair with the focused one
// highlighted.
func (c *ToolCard) renderButtons() string {
	confirm := c.theme.ConfirmButton
	reject := c.theme.RejectButton
	if c.FocusedButton == 0 {
		confirm = confirm.Underline(true)
	} else {
		reject = reject.Underline(true)
	}
	hint := c.theme.ShortcutDesc.Render("  y/n or tab+enter")
	return confirm.Render("Confirm") + " " + reject.Render("Reject") + hint
}

// renderDebug shows the raw call JSON, syntax highlighted.
func (c *ToolCard) renderDebug() string {
	raw := map[string]json.RawMessage{}
	if len(c.Tool.Input) > 0 {
		raw["input"] = c.Tool.Input
	}
	if len(c.Tool.Output) > 0 {
		raw["output"] = c.Tool.Output
	}
	if len(raw) == 0 {
		return ""
	}

	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return ""
	}
	return c.theme.DebugJSON.Render(highlightCode(string(pretty), "json"))
}

// =============================================================================
// HELPERS
// =============================================================================

var titleCaser = cases.Title(language.English)

// HumanizeToolName expands a camelCase tool name into spaced title case:
// "getWeatherInformation" becomes "Get Weather Information". Names that
// are not camelCase pass through title-cased.
func HumanizeToolName(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	var current strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	for i, w := range words {
		words[i] = titleCaser.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// compactJSON renders a raw JSON value on one line; scalars lose their
// quotes for readability.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// truncateLines caps multi-line output for transcript display.
func truncateLines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n") + "\n... (output truncated)"
}
