package settingsstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/config"
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)
	store := New(db)

	assert.NotNil(t, store)
	assert.Equal(t, db, store.db)
}

func TestCatalogRefreshEnabled(t *testing.T) {
	t.Setenv("CATALOG_REFRESH_ENABLED", "")
	db := setupTestDB(t)
	store := New(db)

	// Default should be false
	assert.False(t, store.GetCatalogRefreshEnabled())
	assert.Equal(t, SourceDefault, store.GetCatalogRefreshConfigInfo().EnabledSource)

	require.NoError(t, store.SetCatalogRefreshEnabled(true))
	assert.True(t, store.GetCatalogRefreshEnabled())
	assert.Equal(t, SourceDatabase, store.GetCatalogRefreshConfigInfo().EnabledSource)

	// Clear and verify fallback
	require.NoError(t, store.ClearCatalogRefreshSettings())
	assert.False(t, store.GetCatalogRefreshEnabled())
}

func TestCatalogRefreshEnabledWithEnv(t *testing.T) {
	t.Setenv("CATALOG_REFRESH_ENABLED", "true")
	store := New(setupTestDB(t))

	assert.True(t, store.GetCatalogRefreshEnabled())
	assert.Equal(t, SourceEnvironment, store.GetCatalogRefreshConfigInfo().EnabledSource)

	// Database should override env
	require.NoError(t, store.SetCatalogRefreshEnabled(false))
	assert.False(t, store.GetCatalogRefreshEnabled())
	assert.Equal(t, SourceDatabase, store.GetCatalogRefreshConfigInfo().EnabledSource)
}

func TestCatalogRefreshSchedule(t *testing.T) {
	t.Setenv("CATALOG_REFRESH_SCHEDULE", "")
	store := New(setupTestDB(t))

	assert.Equal(t, config.DefaultCatalogRefreshSchedule, store.GetCatalogRefreshSchedule())

	require.NoError(t, store.SetCatalogRefreshSchedule("*/30 * * * *"))
	assert.Equal(t, "*/30 * * * *", store.GetCatalogRefreshSchedule())

	assert.Error(t, store.SetCatalogRefreshSchedule("whenever"))
	assert.Equal(t, "*/30 * * * *", store.GetCatalogRefreshSchedule())

	info := store.GetCatalogRefreshConfigInfo()
	assert.Equal(t, "*/30 * * * *", info.Schedule)
	assert.Equal(t, SourceDatabase, info.ScheduleSource)
}

func TestRefreshSchedule(t *testing.T) {
	t.Setenv("CATALOG_REFRESH_ENABLED", "")
	t.Setenv("CATALOG_REFRESH_SCHEDULE", "0 3 * * *")
	store := New(setupTestDB(t))

	enabled, schedule := store.RefreshSchedule()
	assert.False(t, enabled)
	assert.Equal(t, "0 3 * * *", schedule)
}

func TestCatalogRefreshStatus(t *testing.T) {
	store := New(setupTestDB(t))

	assert.Equal(t, CatalogRefreshStatus{}, store.GetCatalogRefreshStatus())

	runAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetCatalogRefreshStatus(runAt, nil, 250))

	status := store.GetCatalogRefreshStatus()
	require.NotNil(t, status.LastRunAt)
	assert.True(t, runAt.Equal(*status.LastRunAt))
	assert.Equal(t, "success", status.Status)
	assert.Empty(t, status.Message)
	assert.Equal(t, 250, status.Countries)

	require.NoError(t, store.SetCatalogRefreshStatus(runAt.Add(time.Hour), errors.New("provider down"), 250))
	status = store.GetCatalogRefreshStatus()
	assert.Equal(t, "failed", status.Status)
	assert.Equal(t, "provider down", status.Message)
}

func TestSettingsLiveInSystemScope(t *testing.T) {
	db := setupTestDB(t)
	store := New(db)

	require.NoError(t, store.SetCatalogRefreshEnabled(true))

	value, err := db.GetValue(entities.ScopeSystem, entities.SettingKeyCatalogRefreshEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	scopes, err := db.CountScopes()
	require.NoError(t, err)
	assert.Equal(t, int64(1), scopes)
}
