// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prefs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/gogpu/cornermask"
)

// DefaultWatchInterval is the polling period used when Watch is given a
// non-positive interval.
const DefaultWatchInterval = time.Second

// Watch polls the backing file's modification time and, after reloading
// the store, calls fn whenever it changed. Removing the file counts as a
// change back to the defaults. Watch blocks until ctx is done and then
// returns nil. Memory stores block without polling.
//
// fn runs on the watcher goroutine; callers that drive a host should post
// the work to the host's event loop.
func (s *Store) Watch(ctx context.Context, interval time.Duration, fn func()) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !s.changed() {
				continue
			}
			if err := s.Load(); err != nil {
				cornermask.Logger().Warn("prefs: reload failed", "path", s.path, "err", err)
				continue
			}
			cornermask.Logger().Info("prefs: reloaded", "path", s.path, "style", s.Style())
			fn()
		}
	}
}

// changed compares the file's mtime with the one seen by the last Load or
// Save.
func (s *Store) changed() bool {
	s.mu.RLock()
	prev := s.modTime
	s.mu.RUnlock()

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return !prev.IsZero()
	}
	if err != nil {
		return false
	}
	return !info.ModTime().Equal(prev)
}
