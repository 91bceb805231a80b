// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// FileWatcher reloads configuration when the file changes on disk.
type FileWatcher interface {
	Watch() error
	Close() error
}

// Watcher reloads the configuration when its file changes on disk.
// Editors often replace the file atomically (write temp + rename), so the
// parent directory is watched rather than the file itself.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	pending time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the configuration file at path. onReload
// is called with the freshly loaded configuration after each change.
func NewWatcher(path string, debounce time.Duration, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		watcher:  fw,
		debounce: debounce,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for configuration changes.
func (w *Watcher) Watch() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("CONFIG_WATCHER_PANIC | recovered=%v", r)
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("CONFIG_WATCHER_ERROR | err=%v", err)
		}
	}
}

// processPending coalesces bursts of file events into one reload.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		log.Printf("CONFIG_RELOAD_FAILED | path=%s err=%v", w.path, err)
		return
	}
	log.Printf("CONFIG_RELOADED | path=%s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements FileWatcher by checking the file's modification
// time periodically. It is the fallback on filesystems where inotify/kqueue
// watches cannot be established (some network mounts, containers).
type PollingWatcher struct {
	path     string
	interval time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	modTime time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPollingWatcher creates a polling-based watcher for the configuration
// file at path.
func NewPollingWatcher(path string, interval time.Duration, onReload func(*Config)) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollingWatcher{
		path:     path,
		interval: interval,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch starts polling for configuration changes.
func (pw *PollingWatcher) Watch() error {
	if info, err := os.Stat(pw.path); err == nil {
		pw.mu.Lock()
		pw.modTime = info.ModTime()
		pw.mu.Unlock()
	}

	go pw.poll()

	return nil
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

func (pw *PollingWatcher) poll() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("CONFIG_WATCHER_PANIC | recovered=%v", r)
		}
	}()

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			pw.checkChanges()
		}
	}
}

func (pw *PollingWatcher) checkChanges() {
	info, err := os.Stat(pw.path)
	if err != nil {
		return
	}

	pw.mu.Lock()
	changed := info.ModTime().After(pw.modTime)
	if changed {
		pw.modTime = info.ModTime()
	}
	pw.mu.Unlock()

	if !changed {
		return
	}

	cfg, err := LoadFromPath(pw.path)
	if err != nil {
		log.Printf("CONFIG_RELOAD_FAILED | path=%s err=%v", pw.path, err)
		return
	}
	log.Printf("CONFIG_RELOADED | path=%s", pw.path)
	if pw.onReload != nil {
		pw.onReload(cfg)
	}
}
