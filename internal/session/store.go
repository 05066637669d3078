// Package session provides the per-client conversation session store.
//
// Each client gets its own generation conversation, keyed by session id.
// Sessions are bounded two ways: idle sessions expire after a TTL, and the
// store holds at most MaxSessions, evicting the least recently used.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/observability"
)

// Session is one client's conversation state.
type Session struct {
	ID   string
	Conv generation.Conversation

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes turns within one session: concurrent requests on the same
// session id would otherwise interleave turns in one conversation.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Opener starts a new backend conversation for a fresh session. It may
// return nil (offline mode); the session is still tracked.
type Opener func(ctx context.Context) generation.Conversation

// Config holds session store settings.
type Config struct {
	TTL           time.Duration
	MaxSessions   int
	SweepInterval time.Duration
}

// Store tracks live sessions. Safe for concurrent use.
type Store struct {
	logger *observability.Logger
	open   Opener
	cfg    Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a session store.
func NewStore(logger *observability.Logger, open Opener, cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1024
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Store{
		logger:   logger.WithComponent("session"),
		open:     open,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for id, creating it when unknown or expired.
// An empty id mints a fresh one. The returned session's id is always set;
// callers echo it back to the client.
func (s *Store) Acquire(ctx context.Context, id string) *Session {
	now := time.Now()

	s.mu.Lock()
	if id != "" {
		if sess, ok := s.sessions[id]; ok && now.Sub(sess.lastSeen) <= s.cfg.TTL {
			sess.lastSeen = now
			s.mu.Unlock()
			return sess
		}
		delete(s.sessions, id)
	} else {
		id = uuid.NewString()
	}

	if len(s.sessions) >= s.cfg.MaxSessions {
		s.evictOldestLocked()
	}

	sess := &Session{ID: id, lastSeen: now}
	// Hold the session mutex across the open so a concurrent Acquire on the
	// same id blocks on Lock until Conv is assigned, instead of reading a
	// half-built session. The store lock is released first; the open may
	// consult the backend.
	sess.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.Conv = s.open(ctx)
	sess.mu.Unlock()

	s.logger.Debug().Str("session_id", id).Msg("session created")
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps expired sessions until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.sweep(time.Now()); n > 0 {
				s.logger.Debug().Int("expired", n).Msg("sessions swept")
			}
		case <-ctx.Done():
			return
		}
	}
}

// sweep removes sessions idle past the TTL and returns how many went.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.cfg.TTL {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// evictOldestLocked drops the least recently used session.
func (s *Store) evictOldestLocked() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.ID)
		s.logger.Debug().Str("session_id", oldest.ID).Msg("session evicted")
	}
}
