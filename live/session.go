package live

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session provides access to the visitor's session data.
// Session data persists across page views for the same browser.
type Session struct {
	ctx     context.Context
	manager *scs.SessionManager
}

func (s *Session) usable() bool {
	return s.manager != nil && s.ctx != nil
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) any {
	if !s.usable() {
		return nil
	}
	return s.manager.Get(s.ctx, key)
}

// GetString retrieves a string value from the session.
func (s *Session) GetString(key string) string {
	if !s.usable() {
		return ""
	}
	return s.manager.GetString(s.ctx, key)
}

// Set stores a value in the session.
func (s *Session) Set(key string, val any) {
	if !s.usable() {
		return
	}
	s.manager.Put(s.ctx, key, val)
}

// Delete removes a value from the session.
func (s *Session) Delete(key string) {
	if !s.usable() {
		return
	}
	s.manager.Remove(s.ctx, key)
}

// Exists returns true if the key exists in the session.
func (s *Session) Exists(key string) bool {
	if !s.usable() {
		return false
	}
	return s.manager.Exists(s.ctx, key)
}

// PopString retrieves a string value and deletes it from the session (flash message pattern).
func (s *Session) PopString(key string) string {
	if !s.usable() {
		return ""
	}
	return s.manager.PopString(s.ctx, key)
}

// ID returns the session token (cookie value).
func (s *Session) ID() string {
	if !s.usable() {
		return ""
	}
	return s.manager.Token(s.ctx)
}

const sessionsTableDDL = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

// NewSQLiteSessionManager creates the sessions table when missing and returns a session
// manager backed by db. Expired sessions are swept every cleanupInterval; zero disables
// the sweeper.
func NewSQLiteSessionManager(db *sql.DB, lifetime, cleanupInterval time.Duration) (*scs.SessionManager, error) {
	if _, err := db.Exec(sessionsTableDDL); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	sm := scs.New()
	if lifetime > 0 {
		sm.Lifetime = lifetime
	}
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Store = sqlite3store.NewWithCleanupInterval(db, cleanupInterval)
	return sm, nil
}
