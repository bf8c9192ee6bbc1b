// internal/shop/session.go
package shop

import (
	"sync"
	"time"

	"github.com/arclabs/buttonshop/internal/models"
)

// SessionTTL bounds how long a setup session stays open before the player's
// pending creation is forgotten.
const SessionTTL = 2 * time.Minute

// Session is an in-flight shop creation: the player has tapped a button and
// chosen a kind, and the engine is waiting for the bridge to report the item,
// price and funding choices from the setup form.
type Session struct {
	ActorID   string          `json:"actor_id"`
	Kind      models.ShopKind `json:"kind"`
	Position  models.Position `json:"position"`
	StartedAt time.Time       `json:"started_at"`
}

func (s *Session) expired(now time.Time) bool {
	return now.Sub(s.StartedAt) > SessionTTL
}

// SessionManager tracks one pending creation per actor. Starting a new
// session replaces any previous one.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Begin opens a session for the actor at the given position.
func (m *SessionManager) Begin(actorID string, kind models.ShopKind, pos models.Position) *Session {
	s := &Session{ActorID: actorID, Kind: kind, Position: pos, StartedAt: time.Now()}
	m.mu.Lock()
	m.sessions[actorID] = s
	m.mu.Unlock()
	return s
}

// Get returns the actor's live session, expiring it lazily.
func (m *SessionManager) Get(actorID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[actorID]
	if !ok {
		return nil, false
	}
	if s.expired(time.Now()) {
		delete(m.sessions, actorID)
		return nil, false
	}
	return s, true
}

// End closes the actor's session, returning it if one was live.
func (m *SessionManager) End(actorID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[actorID]
	if !ok {
		return nil, false
	}
	delete(m.sessions, actorID)
	if s.expired(time.Now()) {
		return nil, false
	}
	return s, true
}
