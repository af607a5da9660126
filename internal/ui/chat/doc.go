// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view for the agentdeck TUI.

The Model is a Bubble Tea model wrapping an agent.Session. Session
changes arrive over a coalescing channel (the session mutates on its
streaming goroutine, the UI renders on the Bubble Tea loop) and a rate
gate caps transcript rebuilds at ~30fps so fast token streams do not
burn CPU re-rendering every delta.

Input flow:

  - Enter submits the draft. Whitespace-only drafts are rejected
    silently; the draft clears optimistically before the request runs.
  - Esc stops an in-flight response. The session guarantees the
    underlying cancellation fires at most once.
  - While a tool call awaits confirmation the composer is disabled and
    y/n (or tab+enter) resolve the call.
  - Ctrl+T toggles the theme, Ctrl+L clears the conversation.
*/
package chat
