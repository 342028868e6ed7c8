package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/core"
)

const (
	sessionCookieName = "lp_session"
	sessionIdleLimit  = 12 * time.Hour
)

// sessionStore keeps per-browser navigation state in memory, keyed by an
// opaque cookie value. Losing a session is harmless; the visitor just
// lands back on the monthly view.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	state    core.NavigationState
	lastSeen time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b)
}

// state returns the navigation state for the request's session, creating a
// fresh session (and setting the cookie) when none exists.
func (ss *sessionStore) state(w http.ResponseWriter, r *http.Request) (string, core.NavigationState) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		ss.mu.Lock()
		if s, ok := ss.sessions[c.Value]; ok {
			s.lastSeen = time.Now()
			st := s.state
			ss.mu.Unlock()
			return c.Value, st
		}
		ss.mu.Unlock()
	}

	id := newSessionID()
	st := core.NewNavigation()
	ss.mu.Lock()
	ss.sessions[id] = &session{state: st, lastSeen: time.Now()}
	ss.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, st
}

func (ss *sessionStore) save(id string, st core.NavigationState) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[id] = &session{state: st, lastSeen: time.Now()}
}

func (ss *sessionStore) cleanIdle() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	cutoff := time.Now().Add(-sessionIdleLimit)
	for id, s := range ss.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(ss.sessions, id)
		}
	}
}

func (ss *sessionStore) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
