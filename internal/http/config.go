package http

import (
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/flags"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/scheduler"
	"github.com/mrlokans/atlas/internal/session"
	"github.com/mrlokans/atlas/internal/settingsstore"
	"github.com/mrlokans/atlas/internal/tasks"
)

// StoreProvider returns the key/value scope owned by a visitor.
type StoreProvider func(visitorID string) kvstore.Store

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Directory *directory.Directory
	Favorites *favorites.Manager
	Stores    StoreProvider
	Database  *database.Database

	// Visitor sessions. When nil every request shares DefaultVisitorID.
	SessionManager *session.Manager
	CSRFSecret     []byte
	SecureCookies  bool

	// Templates directory; empty selects the embedded templates
	TemplatesPath string

	// Application info
	Version string

	// Flag image caching (optional)
	FlagCache *flags.Cache

	// Catalog refresh scheduler and its persisted settings (optional)
	Scheduler *scheduler.CatalogRefreshScheduler
	Settings  *settingsstore.SettingsStore

	// Task queue client (optional)
	TaskClient *tasks.Client
}

// DefaultVisitorID is used when no session manager is configured.
const DefaultVisitorID = "default"
