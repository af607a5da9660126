// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the client and session layer for the hosted
// conversational agent service.
//
// Client speaks newline-delimited JSON over HTTP: one POST per generation
// that streams events until the turn finishes, plus a GET health probe
// answered with {"success": bool}.
//
// Session owns the conversation state on top of a Client. It exposes the
// adapter surface the UI consumes:
//
//   - Messages: ordered snapshot of the transcript
//   - Status: idle | submitted | streaming | error
//   - SendMessage, Stop, ClearHistory, AddToolResult
//
// All mutations funnel through a single typed command dispatch. The UI
// never mutates messages directly; it reads snapshots and issues commands.
//
// This layer owns no retry or backoff logic. A failed send or stream
// surfaces once through the session's status and error, and that is the
// end of it.
package agent
