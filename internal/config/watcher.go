// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of filesystem events an editor's
// save produces into a single reload.
const debounceWindow = 200 * time.Millisecond

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reloads the config file when it changes on disk, so edits made
// outside the running UI (another terminal, an editor) take effect
// without a restart.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(*Config)
	done    chan struct{}
}

// NewWatcher watches the given config file. onLoad is invoked with each
// successfully reloaded config; load failures are skipped silently since
// a half-written file will produce another event when the write finishes.
func NewWatcher(path string, onLoad func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files via
	// rename, which drops a watch on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		path:    path,
		onLoad:  onLoad,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// loop consumes filesystem events and triggers debounced reloads.
func (w *Watcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				continue
			}
			w.onLoad(cfg)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
