// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists finished conversations to a local SQLite
// database so past sessions survive restarts.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/agentdeck/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound indicates the requested conversation does not exist.
	ErrNotFound = errors.New("conversation not found")
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// Entry is a history listing row. Messages are not loaded until the
// conversation itself is.
type Entry struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed conversation store. Safe for concurrent use;
// database/sql serializes access to the underlying connection pool.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the schema and records the schema version.
func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO schema_info (version) VALUES (?)`, SchemaVersion,
	); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Save inserts or replaces the conversation.
func (s *Store) Save(conv *model.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}

	data, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to serialize messages: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO conversations (id, title, created_at, updated_at, messages)
		 VALUES (?, ?, ?, ?, ?)`,
		conv.ID, conv.DisplayTitle(), conv.CreatedAt.Unix(), conv.UpdatedAt.Unix(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Load retrieves a conversation by ID, including its messages.
func (s *Store) Load(id string) (*model.Conversation, error) {
	var (
		title    string
		created  int64
		updated  int64
		messages string
	)
	err := s.db.QueryRow(
		`SELECT title, created_at, updated_at, messages FROM conversations WHERE id = ?`, id,
	).Scan(&title, &created, &updated, &messages)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	conv := &model.Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: time.Unix(created, 0),
		UpdatedAt: time.Unix(updated, 0),
	}
	if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
		return nil, fmt.Errorf("failed to deserialize messages: %w", err)
	}
	return conv, nil
}

// List returns all saved conversations, most recently updated first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
			updated int64
		)
		if err := rows.Scan(&e.ID, &e.Title, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		e.UpdatedAt = time.Unix(updated, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a conversation by ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes all saved conversations.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
