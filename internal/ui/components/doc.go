// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual UI components for the agentdeck TUI.

Each component renders one piece of the chat surface:

  - MessageList / MessageBubble - the conversation transcript. User
    messages render right-aligned; assistant and system messages render
    left-aligned with an avatar.
  - ToolCard - a tool invocation with its lifecycle state. Cards for
    tools awaiting confirmation show Confirm/Reject buttons.
  - MarkdownRenderer - Glamour-based markdown rendering with a
    per-part cache so streaming updates only re-render the part that
    changed.
  - InputArea - the message composer, disabled while a tool awaits
    confirmation.
  - ServiceBanner - the persistent banner shown when the agent service
    is unreachable.
  - StatusBar - bottom bar with connection state and key hints.

Components take the active *styles.Theme and rebuild their output on
each View call, so a theme toggle is picked up without extra wiring.
*/
package components
