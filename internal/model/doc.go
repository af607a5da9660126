// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and message parts.
//
// This package defines the core domain types used throughout the application
// for representing a chat transcript as delivered by the agent service.
//
// # Key Types
//
//   - Conversation: Ordered container for a chat session's messages
//   - Message: Single message with role, ordered parts, and timestamp
//   - Part: Tagged union of the content kinds a message can carry
//   - ToolCall: Tool invocation state machine attached to a tool part
//   - Role: Message role enumeration (user, assistant, system)
//
// # Part parsing
//
// Wire payloads type their parts as "text" or "tool-<name>". The prefix
// contract lives in exactly one place, ParsePartType; everything downstream
// works with the parsed Part and never inspects wire type strings:
//
//	kind, name := model.ParsePartType("tool-getWeatherInformation")
//	// kind == model.PartTool, name == "getWeatherInformation"
//
// Unrecognized wire types parse to PartUnknown. Unknown parts are kept in
// the message so a transcript round-trips, but renderers skip them.
package model
