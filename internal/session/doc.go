// Package session identifies browser visitors.
//
// Each browser gets an opaque visitor id on its first request. The id lives
// in an scs session backed by the main SQLite database and names the key/value
// scope that holds the visitor's favorites, so the collection survives
// restarts and stays private to that browser.
//
// # Configuration
//
//	SESSION_LIFETIME=720h   # How long an idle browser keeps its favorites
//	SECURE_COOKIES=true     # HTTPS-only cookies
//	CSRF_SECRET=<32 bytes>  # Enables CSRF protection for form posts
//
// # Usage
//
//	sm, _ := session.NewManager(sqlDB, session.Config{Lifetime: cfg.SessionLifetime})
//	router.Use(sm.LoadSave(), sm.VisitorMiddleware())
//
// Extract the visitor in handlers:
//
//	visitorID := session.VisitorID(c)
package session
