package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// SessionKeyVisitorID is the session key holding the visitor id.
const SessionKeyVisitorID = "visitor_id"

// Config controls session cookies.
type Config struct {
	Lifetime      time.Duration
	SecureCookies bool
}

// Manager wraps scs.SessionManager with visitor helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager storing sessions in sqlDB.
func NewManager(sqlDB *sql.DB, cfg Config) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}

	sm.Cookie.Name = "atlas_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so that following a link from another site keeps the visitor's favorites
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true

	return &Manager{SessionManager: sm}, nil
}

// EnsureVisitor returns the visitor id of the session in ctx, assigning a new
// one when the session has none. created is true for a new visitor.
func (m *Manager) EnsureVisitor(ctx context.Context) (id string, created bool) {
	if id = m.GetString(ctx, SessionKeyVisitorID); id != "" {
		return id, false
	}
	id = uuid.NewString()
	m.Put(ctx, SessionKeyVisitorID, id)
	return id, true
}

// Visitor returns the visitor id stored in the session, or "".
func (m *Manager) Visitor(ctx context.Context) string {
	return m.GetString(ctx, SessionKeyVisitorID)
}
