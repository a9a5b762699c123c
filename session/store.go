// Package session holds credentialed user sessions keyed by opaque handle.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jyothri/mailclean/mailbox"
)

const (
	Timeout       = 2 * time.Hour
	SweepInterval = 10 * time.Minute
)

// Session maps an opaque handle to a user's identity and Gmail credential.
// The store owns every record; callers only ever hold the handle.
type Session struct {
	Id          string
	Email       string
	Name        string
	Picture     string
	TokenSource oauth2.TokenSource
	Client      mailbox.Client
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Store is safe for concurrent use by request handlers and the sweeper.
// A single mutex keeps lookup-and-extend atomic with respect to Sweep, so a
// record being refreshed can never be concurrently evicted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// Clock is overridable in tests.
	Clock func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		Clock:    time.Now,
	}
}

// Create assigns a fresh handle and timestamps, stores the record and
// returns the handle.
func (s *Store) Create(sess *Session) string {
	now := s.Clock()
	sess.Id = uuid.NewString()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(Timeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Id] = sess
	return sess.Id
}

// Get returns the session for id and extends its expiry (sliding
// expiration). A missing or expired session returns nil; expired records
// are evicted on the way out.
func (s *Store) Get(id string) *Session {
	now := s.Clock()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if !sess.ExpiresAt.After(now) {
		delete(s.sessions, id)
		return nil
	}
	sess.ExpiresAt = now.Add(Timeout)
	return sess
}

// Remove drops the session if present. Idempotent.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep evicts every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.Clock()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live records, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSweeper runs Sweep every SweepInterval until ctx is canceled.
func (s *Store) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					slog.Info("Removed expired sessions", "count", removed)
				}
			}
		}
	}()
}
