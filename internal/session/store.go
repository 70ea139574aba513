// Package session keeps each dashboard visitor's filter selection in memory.
package session

import (
	"context"
	"sync"
	"time"

	"linedash/domain/core"
	"linedash/domain/selection"
	"linedash/internal"
	"linedash/internal/errors"
)

// Session is a snapshot of one visitor's state. Selection is a private copy.
type Session struct {
	ID        core.SessionID      `json:"id"`
	Selection selection.Selection `json:"selection"`
	CreatedAt time.Time           `json:"created_at"`
	LastSeen  time.Time           `json:"last_seen"`
}

type entry struct {
	selection selection.Selection
	createdAt time.Time
	lastSeen  time.Time
}

// Store holds sessions until they go unused for longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*entry
	ttl      time.Duration
	now      func() time.Time
	logger   *internal.Logger
}

// NewStore creates an empty store. A non-positive ttl keeps sessions forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[core.SessionID]*entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   internal.NewComponentLogger("Session"),
	}
}

// Create starts a session holding a copy of sel.
func (s *Store) Create(sel selection.Selection) Session {
	id := core.NewSessionID()
	now := s.now()
	e := &entry{selection: sel.Clone(), createdAt: now, lastSeen: now}

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()

	s.logger.Debug("Created session %s", id)
	return e.snapshot(id)
}

// Get returns the session and refreshes its last-seen time. Expired sessions
// are dropped and reported as missing.
func (s *Store) Get(id core.SessionID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		return Session{}, false
	}
	e.lastSeen = now
	return e.snapshot(id), true
}

// Resolve looks up the session named by a client-supplied ID, starting a new
// one from defaults() when the ID is malformed, unknown or expired.
func (s *Store) Resolve(raw string, defaults func() selection.Selection) (Session, bool) {
	if id, err := core.ParseSessionID(raw); err == nil {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(defaults()), true
}

// Update replaces the selection of an existing session.
func (s *Store) Update(id core.SessionID, sel selection.Selection) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e, s.now()) {
		return Session{}, errors.NotFound("session " + id.String())
	}
	e.selection = sel.Clone()
	e.lastSeen = s.now()
	return e.snapshot(id), nil
}

// Delete forgets a session.
func (s *Store) Delete(id core.SessionID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live and not yet swept sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps every interval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.logger.Info("Swept %d expired sessions (%d remaining)", n, s.Len())
				}
			}
		}
	}()
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (e *entry) snapshot(id core.SessionID) Session {
	return Session{
		ID:        id,
		Selection: e.selection.Clone(),
		CreatedAt: e.createdAt,
		LastSeen:  e.lastSeen,
	}
}
