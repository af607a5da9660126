// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme holds the user's dark/light preference.
//
// The store is deliberately dumb: it knows nothing about terminals,
// styles, or rendering. Presentation-side effects (flipping the dark
// background flag, rebuilding the style sheet) live in subscribers, which
// keeps the store unit-testable without a rendering surface.
package theme

import (
	"sync"
)

// =============================================================================
// MODE
// =============================================================================

// Mode is the binary theme preference.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// ParseMode maps a persisted string to a Mode. Absent or unrecognized
// values default to Dark.
func ParseMode(s string) Mode {
	switch s {
	case string(Light):
		return Light
	case string(Dark):
		return Dark
	default:
		return Dark
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// =============================================================================
// STORE
// =============================================================================

// PersistFunc durably records a mode change, e.g. by writing the config
// file. Called synchronously on every change.
type PersistFunc func(Mode) error

// Store holds the current mode and notifies subscribers on change.
// Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	mode    Mode
	persist PersistFunc
	subs    map[int]func(Mode)
	nextID  int
}

// NewStore creates a store initialized from a persisted string value.
// persist may be nil for a non-durable store (tests, one-shot CLI).
func NewStore(persisted string, persist PersistFunc) *Store {
	return &Store{
		mode:    ParseMode(persisted),
		persist: persist,
		subs:    make(map[int]func(Mode)),
	}
}

// Get returns the current mode.
func (s *Store) Get() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set changes the mode, persists it, and notifies subscribers. A set to
// the current mode is a no-op. The persist error is returned but the
// in-memory change and notification happen regardless; a failed disk
// write should not leave the UI disagreeing with itself.
func (s *Store) Set(mode Mode) error {
	s.mu.Lock()
	if mode != Dark && mode != Light {
		mode = Dark
	}
	if mode == s.mode {
		s.mu.Unlock()
		return nil
	}
	s.mode = mode
	persist := s.persist
	subs := make([]func(Mode), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	var err error
	if persist != nil {
		err = persist(mode)
	}
	for _, fn := range subs {
		fn(mode)
	}
	return err
}

// Toggle flips dark and light, persisting and notifying like Set.
func (s *Store) Toggle() (Mode, error) {
	next := s.Get().Opposite()
	return next, s.Set(next)
}

// Subscribe registers a change listener and returns an unsubscribe
// function. The listener is not called with the current value.
func (s *Store) Subscribe(fn func(Mode)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
