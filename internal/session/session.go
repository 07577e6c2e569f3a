// Package session keeps per-client analysis state so follow-up calls
// (review search, drill-downs) can reuse the data already fetched.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/8shagrid/app-scout/internal/models"
)

type Session struct {
	ID           string             `json:"id"`
	LastKeywords []string           `json:"last_keywords,omitempty"`
	CurrentAppID string             `json:"current_app_id,omitempty"`
	MarketTable  models.MarketTable `json:"market_table,omitempty"`
	Reviews      []models.Review    `json:"reviews,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Store holds live sessions. Lookups hand out snapshot copies, so reads
// never race with Update; all mutation goes through Update, which must
// replace slice fields wholesale rather than append in place.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxAge   time.Duration
}

func NewStore(maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Store{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
	}
}

// Create registers a fresh session and returns a snapshot of it.
func (s *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	snapshot := *sess
	return &snapshot
}

// Get returns a snapshot of the session, or nil if unknown or aged out.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(sess.UpdatedAt) > s.maxAge {
		delete(s.sessions, id)
		return nil
	}

	snapshot := *sess
	return &snapshot
}

// GetOrCreate resolves the id when present, otherwise starts a session.
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if sess := s.Get(id); sess != nil {
			return sess
		}
	}
	return s.Create()
}

// Update applies fn under the store lock and bumps the timestamp.
func (s *Store) Update(id string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	fn(sess)
	sess.UpdatedAt = time.Now()
}
