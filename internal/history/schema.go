// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

// SchemaVersion is incremented whenever the schema changes in a way that
// requires rebuilding the database.
const SchemaVersion = 1

// schema defines the SQLite schema for conversation history.
const schema = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER PRIMARY KEY
);

-- Saved conversations. Messages are stored as a JSON document; history is
-- written whole-conversation at a time, so per-message rows would only add
-- bookkeeping without enabling any query we run.
CREATE TABLE IF NOT EXISTS conversations (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    messages   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_updated
    ON conversations(updated_at DESC);
`
