// Package session keeps one dashboard per browser session in memory.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// MemorySearchStore holds the last search term of one session.
type MemorySearchStore struct {
	mu   sync.Mutex
	term string
}

func (m *MemorySearchStore) LastSearchTerm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.term
}

func (m *MemorySearchStore) SetLastSearchTerm(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term = term
}

func (m *MemorySearchStore) ClearLastSearchTerm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term = ""
}

// Session is one user's dashboard and search state.
type Session struct {
	ID        string
	Dashboard *app.Dashboard
	Search    *MemorySearchStore

	lastSeen time.Time // guarded by Store.mu
}

// Store is a thread-safe in-memory session store with TTL expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	svc      app.ApplicationService
	ttl      time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

// NewStore returns an empty store. A non-positive ttl selects DefaultTTL.
func NewStore(svc app.ApplicationService, ttl time.Duration, log *logrus.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		svc:      svc,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// SetClock replaces the time source; tests use it to expire sessions.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create starts a new session with a fresh dashboard. Records are not loaded yet.
func (s *Store) Create() *Session {
	search := &MemorySearchStore{}
	sess := &Session{
		ID:     uuid.NewString(),
		Search: search,
	}
	sess.Dashboard = s.svc.OpenDashboard(search).WithLogFields(logrus.Fields{"session": sess.ID})

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.lastSeen = s.now()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session and refreshes its idle timer. Expired sessions are
// removed and reported as missing.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// GetOrCreate returns the session for id, creating a new one when id is unknown
// or expired. The second result reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

// Delete ends a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Purge evicts expired sessions and returns how many were removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// StartPurge starts a background goroutine that evicts expired sessions every interval.
func (s *Store) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Purge(); n > 0 {
					s.log.WithField("evicted", n).Debug("expired sessions purged")
				}
			}
		}
	}()
}
