package http

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/config"
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/scheduler"
	"github.com/mrlokans/atlas/internal/settingsstore"
)

func setupSettingsRouter(t *testing.T) (*gin.Engine, *scheduler.CatalogRefreshScheduler) {
	t.Helper()
	t.Setenv("CATALOG_REFRESH_ENABLED", "")
	t.Setenv("CATALOG_REFRESH_SCHEDULE", "")

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := newTestEnv(t, true)
	store := settingsstore.New(db)
	sched := scheduler.NewCatalogRefreshScheduler(env.directory, store, time.Second)
	t.Cleanup(sched.Stop)

	router, err := NewRouter(RouterConfig{
		Directory: env.directory,
		Stores:    env.storeFor,
		Scheduler: sched,
		Settings:  store,
	})
	require.NoError(t, err)
	return router, sched
}

func TestSettingsController_GetCatalogRefresh(t *testing.T) {
	router, _ := setupSettingsRouter(t)

	w := doRequest(router, "GET", "/api/settings/catalog-refresh", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogRefreshSettingsResponse
	decodeJSON(t, w, &resp)
	assert.False(t, resp.Config.Enabled)
	assert.Equal(t, settingsstore.SourceDefault, resp.Config.EnabledSource)
	assert.Equal(t, config.DefaultCatalogRefreshSchedule, resp.Config.Schedule)
	assert.False(t, resp.IsRunning)
	assert.Nil(t, resp.NextRun)
	assert.NotEmpty(t, resp.Presets)
}

func TestSettingsController_UpdateCatalogRefresh(t *testing.T) {
	t.Run("enables the scheduler immediately", func(t *testing.T) {
		router, sched := setupSettingsRouter(t)

		w := doRequest(router, "PUT", "/api/settings/catalog-refresh", "enabled=true&schedule=0+*+*+*+*")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp CatalogRefreshSettingsResponse
		decodeJSON(t, w, &resp)
		assert.True(t, resp.Config.Enabled)
		assert.Equal(t, settingsstore.SourceDatabase, resp.Config.EnabledSource)
		assert.Equal(t, "0 * * * *", resp.Config.Schedule)
		assert.True(t, resp.IsRunning)
		assert.NotNil(t, resp.NextRun)
		assert.True(t, sched.IsRunning())
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		router, sched := setupSettingsRouter(t)

		w := doRequest(router, "PUT", "/api/settings/catalog-refresh", "enabled=true&schedule=sometimes")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, sched.IsRunning())
	})

	t.Run("reset reverts to defaults", func(t *testing.T) {
		router, sched := setupSettingsRouter(t)

		require.Equal(t, http.StatusOK, doRequest(router, "PUT", "/api/settings/catalog-refresh", "enabled=true").Code)
		require.True(t, sched.IsRunning())

		w := doRequest(router, "DELETE", "/api/settings/catalog-refresh", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp CatalogRefreshSettingsResponse
		decodeJSON(t, w, &resp)
		assert.False(t, resp.Config.Enabled)
		assert.Equal(t, settingsstore.SourceDefault, resp.Config.ScheduleSource)
		assert.False(t, sched.IsRunning())
	})
}
