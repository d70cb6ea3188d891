package interfaces

// Compile-time interface implementation checks. Concrete types must satisfy
// the interfaces their consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/flags"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/restcountries"
	"github.com/mrlokans/atlas/internal/scheduler"
	"github.com/mrlokans/atlas/internal/settingsstore"
	"github.com/mrlokans/atlas/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

// Store implementations
var _ kvstore.Store = (*kvstore.MemStore)(nil)
var _ kvstore.Store = (*database.ScopedStore)(nil)

// =============================================================================
// External Services
// =============================================================================

// Source implementations
var _ directory.Source = (*restcountries.Client)(nil)

// FlagFetcher implementations
var _ tasks.FlagFetcher = (*flags.Cache)(nil)

// =============================================================================
// Background Work
// =============================================================================

// CatalogSource implementations
var _ tasks.CatalogSource = (*directory.Directory)(nil)

// Refresher implementations
var _ scheduler.Refresher = (*directory.Directory)(nil)

// ScheduleSource implementations
var _ scheduler.ScheduleSource = (*settingsstore.SettingsStore)(nil)
var _ scheduler.ScheduleSource = scheduler.StaticSchedule{}
