// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/agentdeck/internal/confirm"
	"github.com/jeranaias/agentdeck/internal/model"
	"github.com/jeranaias/agentdeck/internal/ui/styles"
	"github.com/jeranaias/agentdeck/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message as a sequence of part renderings.
// User messages sit on the right; assistant and system messages sit on
// the left behind an avatar. Parts of unknown kind render nothing.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	Streaming     bool
	ShowDebug     bool
	FocusedButton int

	theme    *styles.Theme
	markdown *MarkdownRenderer
	registry *confirm.Registry
}

// NewMessageBubble creates a message bubble.
func NewMessageBubble(msg *model.Message, th *styles.Theme, md *MarkdownRenderer, reg *confirm.Registry) *MessageBubble {
	return &MessageBubble{
		Message:  msg,
		Width:    80,
		theme:    th,
		markdown: md,
		registry: reg,
	}
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleSystem:
		return b.renderSystem()
	default:
		return b.renderAssistant()
	}
}

// ==========================================================================
// USER - blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUser() string {
	content := b.Message.TextContent()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())

	// Push the bubble to the right edge.
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		margin.Render(label),
		margin.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT - purple tones, left-aligned with avatar, part-by-part
// ==========================================================================

func (b *MessageBubble) renderAssistant() string {
	avatar := b.theme.Avatar.Render("(ai)")
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	header := avatar + label

	var blocks []string
	for i, part := range b.Message.Parts {
		switch part.Kind {
		case model.PartText:
			if part.Text == "" {
				continue
			}
			blocks = append(blocks, b.renderTextPart(i, part.Text))
		case model.PartTool:
			blocks = append(blocks, b.renderToolPart(part.Tool))
		default:
			// Unknown part kinds render nothing.
		}
	}

	if len(blocks) == 0 {
		if b.Streaming {
			blocks = append(blocks, b.theme.ThinkingText.Render("..."))
		} else {
			blocks = append(blocks, "...")
		}
	}

	body := strings.Join(blocks, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (b *MessageBubble) renderTextPart(index int, text string) string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var rendered string
	if b.markdown != nil {
		rendered = b.markdown.Render(b.Message.ID, index, text)
	} else {
		rendered = wordWrap(text, maxContentWidth)
	}

	contentWidth := minInt(maxLineWidth(rendered)+4, b.Width-8)
	if contentWidth < 8 {
		contentWidth = 8
	}
	return b.theme.AssistantBubble.Width(contentWidth).Render(rendered)
}

func (b *MessageBubble) renderToolPart(tool *model.ToolCall) string {
	card := NewToolCard(tool, b.theme)
	card.Width = b.Width - 8
	card.ShowDebug = b.ShowDebug
	card.FocusedButton = b.FocusedButton
	if b.registry != nil {
		card.NeedsConfirmation = b.registry.Requires(tool.Name)
	}
	return card.View()
}

// ==========================================================================
// SYSTEM - amber tones, centered
// ==========================================================================

func (b *MessageBubble) renderSystem() string {
	content := b.Message.TextContent()
	if content == "" {
		return ""
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-16)

	bubble := b.theme.SystemBubble.Width(contentWidth).Render(wrapped)
	center := lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Center)
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())

	return lipgloss.JoinVertical(lipgloss.Center,
		center.Render(label),
		center.Render(bubble),
	)
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders the whole transcript.
type MessageList struct {
	Messages      []*model.Message
	Width         int
	Streaming     bool
	ShowDebug     bool
	FocusedButton int

	theme    *styles.Theme
	markdown *MarkdownRenderer
	registry *confirm.Registry
}

// NewMessageList creates a message list.
func NewMessageList(th *styles.Theme, md *MarkdownRenderer, reg *confirm.Registry) *MessageList {
	return &MessageList{
		Width:    80,
		theme:    th,
		markdown: md,
		registry: reg,
	}
}

// SetMessages sets the transcript to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the render width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
	if ml.markdown != nil {
		md := width - 16
		if md < 20 {
			md = 20
		}
		ml.markdown.SetWidth(md)
	}
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return empty.Render("No messages yet. Say hello!")
	}

	var bubbles []string
	for i, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme, ml.markdown, ml.registry)
		bubble.Width = ml.Width
		bubble.ShowDebug = ml.ShowDebug
		bubble.FocusedButton = ml.FocusedButton
		bubble.Streaming = ml.Streaming && i == len(ml.Messages)-1
		if view := bubble.View(); view != "" {
			bubbles = append(bubbles, view)
		}
	}
	return strings.Join(bubbles, "\n\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// wordWrap wraps text to fit within the specified display width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if util.StringWidth(currentLine)+1+util.StringWidth(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}
	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(stripANSI(line)); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// stripANSI removes escape sequences so width math sees only visible
// characters.
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
