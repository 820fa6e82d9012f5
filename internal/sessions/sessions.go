// Package sessions holds server-side proof of login. The store is a
// capability handed to the server so the in-memory implementation can
// be swapped for an external one in a multi-instance deployment.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID            string
	Authenticated bool
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Store is the session lifecycle: create on login, look up per request,
// touch to roll the inactivity window, destroy on logout. Destroy is
// idempotent and Get never returns an expired session.
type Store interface {
	Create(ttl time.Duration) Session
	Get(id string) (Session, bool)
	Touch(id string)
	Destroy(id string)
}

// MemoryStore keeps sessions for the lifetime of the process; a restart
// logs everyone out, which is accepted behavior for this deployment.
type MemoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	mem map[string]Session
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, mem: map[string]Session{}, now: time.Now}
}

func (s *MemoryStore) Create(ttl time.Duration) Session {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now().UTC()
	sess := Session{
		ID:            uuid.NewString(),
		Authenticated: true,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	s.mu.Lock()
	s.mem[sess.ID] = sess
	s.reapLocked(now)
	s.mu.Unlock()
	return sess
}

func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.mem[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if s.now().UTC().After(sess.ExpiresAt) {
		s.Destroy(id)
		return Session{}, false
	}
	return sess, true
}

// Touch extends the session's expiry by the store TTL from now.
func (s *MemoryStore) Touch(id string) {
	now := s.now().UTC()
	s.mu.Lock()
	if sess, ok := s.mem[id]; ok && now.Before(sess.ExpiresAt) {
		sess.ExpiresAt = now.Add(s.ttl)
		s.mem[id] = sess
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Destroy(id string) {
	s.mu.Lock()
	delete(s.mem, id)
	s.mu.Unlock()
}

// reapLocked drops expired records so the map does not grow unbounded
// across many logins.
func (s *MemoryStore) reapLocked(now time.Time) {
	for id, sess := range s.mem {
		if now.After(sess.ExpiresAt) {
			delete(s.mem, id)
		}
	}
}
