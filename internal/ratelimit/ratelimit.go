// Package ratelimit applies fixed-window request limits keyed by
// caller, with buckets persisted to disk so a restart does not reset
// the login window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"homedash/dashd/internal/fsatomic"
)

type bucket struct {
	Hits        int    `json:"hits"`
	WindowStart string `json:"windowStart"`
}

type state struct {
	Version int               `json:"version"`
	Buckets map[string]bucket `json:"buckets"`
}

type Limiter struct {
	path        string
	mu          sync.Mutex
	st          state
	lastPersist time.Time
	ops         int
	now         func() time.Time
}

func New(path string) *Limiter {
	l := &Limiter{path: path, st: state{Version: 1, Buckets: map[string]bucket{}}, now: time.Now}
	var st state
	if ok, err := fsatomic.LoadJSON(path, &st); err == nil && ok && st.Buckets != nil {
		l.st = st
	}
	return l
}

// Allow records a hit against key and reports whether it stays within
// limit hits per window. The first hit of a new window resets the count.
func (l *Limiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now().UTC()
	b := l.st.Buckets[key]
	start, _ := time.Parse(time.RFC3339Nano, b.WindowStart)
	if start.IsZero() || now.Sub(start) >= window {
		b = bucket{WindowStart: now.Format(time.RFC3339Nano)}
	}
	if b.Hits >= limit {
		l.maybePersistLocked()
		return false
	}
	b.Hits++
	l.st.Buckets[key] = b
	l.maybePersistLocked()
	return true
}

// maybePersistLocked writes through every 10 hits or 2 seconds to keep
// disk traffic off the hot path.
func (l *Limiter) maybePersistLocked() {
	l.ops++
	if l.ops >= 10 || time.Since(l.lastPersist) >= 2*time.Second {
		_ = l.persistLocked()
	}
}

func (l *Limiter) persistLocked() error {
	err := fsatomic.WithLock(l.path, func() error {
		return fsatomic.SaveJSON(context.Background(), l.path, l.st, 0o600)
	})
	if err == nil {
		l.lastPersist = time.Now()
		l.ops = 0
	}
	return err
}

// Flush forces the current buckets to disk.
func (l *Limiter) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistLocked()
}
