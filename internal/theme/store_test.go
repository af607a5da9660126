// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name      string
		persisted string
		want      Mode
	}{
		{"dark", "dark", Dark},
		{"light", "light", Light},
		{"absent", "", Dark},
		{"garbage", "solarized", Dark},
		{"case sensitive", "Dark", Dark},
		{"case sensitive light", "LIGHT", Dark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMode(tt.persisted); got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.persisted, got, tt.want)
			}
		})
	}
}

func TestDoubleToggleReturnsToStart(t *testing.T) {
	var persisted []Mode
	s := NewStore("dark", func(m Mode) error {
		persisted = append(persisted, m)
		return nil
	})

	first, err := s.Toggle()
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if first != Light {
		t.Errorf("first toggle = %q, want light", first)
	}

	second, err := s.Toggle()
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if second != Dark {
		t.Errorf("second toggle = %q, want dark", second)
	}

	// Each toggle persists the new value.
	if len(persisted) != 2 || persisted[0] != Light || persisted[1] != Dark {
		t.Errorf("persisted sequence = %v, want [light dark]", persisted)
	}
}

func TestSetSameValueIsNoOp(t *testing.T) {
	calls := 0
	s := NewStore("dark", func(Mode) error {
		calls++
		return nil
	})

	if err := s.Set(Dark); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("persist called %d times for a no-op set", calls)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore("dark", nil)

	var got []Mode
	unsub := s.Subscribe(func(m Mode) { got = append(got, m) })

	s.Set(Light)
	unsub()
	s.Set(Dark)

	if len(got) != 1 || got[0] != Light {
		t.Errorf("subscriber saw %v, want [light]", got)
	}
}

func TestPersistFailureStillApplies(t *testing.T) {
	s := NewStore("dark", func(Mode) error {
		return errors.New("disk full")
	})

	notified := false
	s.Subscribe(func(Mode) { notified = true })

	err := s.Set(Light)
	if err == nil {
		t.Fatal("expected persist error to surface")
	}
	if s.Get() != Light {
		t.Error("in-memory mode should change even when persist fails")
	}
	if !notified {
		t.Error("subscribers should be notified even when persist fails")
	}
}

func TestSetInvalidModeCoercesToDark(t *testing.T) {
	s := NewStore("light", nil)
	if err := s.Set(Mode("sepia")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if s.Get() != Dark {
		t.Errorf("mode = %q, want dark", s.Get())
	}
}
