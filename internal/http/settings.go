package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/scheduler"
	"github.com/mrlokans/atlas/internal/settingsstore"
)

// SchedulePreset is a suggested cron schedule.
type SchedulePreset struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var schedulePresets = []SchedulePreset{
	{Label: "Every hour", Value: "0 * * * *"},
	{Label: "Every 6 hours", Value: "0 */6 * * *"},
	{Label: "Daily at midnight", Value: "0 0 * * *"},
	{Label: "Weekly on Sunday", Value: "0 0 * * 0"},
}

// CatalogRefreshSettingsResponse is the response for GET /api/settings/catalog-refresh
type CatalogRefreshSettingsResponse struct {
	Config    settingsstore.CatalogRefreshConfigInfo `json:"config"`
	Status    settingsstore.CatalogRefreshStatus     `json:"status"`
	NextRun   *time.Time                             `json:"next_run,omitempty"`
	IsRunning bool                                   `json:"is_running"`
	Presets   []SchedulePreset                       `json:"presets"`
}

// UpdateCatalogRefreshRequest is the request body for PUT /api/settings/catalog-refresh
type UpdateCatalogRefreshRequest struct {
	Enabled  *bool  `form:"enabled" json:"enabled"`
	Schedule string `form:"schedule" json:"schedule"`
}

// SettingsController manages catalog refresh settings.
type SettingsController struct {
	settingsStore *settingsstore.SettingsStore
	scheduler     *scheduler.CatalogRefreshScheduler
}

func NewSettingsController(store *settingsstore.SettingsStore, sched *scheduler.CatalogRefreshScheduler) *SettingsController {
	return &SettingsController{settingsStore: store, scheduler: sched}
}

func (sc *SettingsController) response() CatalogRefreshSettingsResponse {
	resp := CatalogRefreshSettingsResponse{
		Config:  sc.settingsStore.GetCatalogRefreshConfigInfo(),
		Status:  sc.settingsStore.GetCatalogRefreshStatus(),
		Presets: schedulePresets,
	}
	if sc.scheduler != nil {
		resp.NextRun = sc.scheduler.NextRunTime()
		resp.IsRunning = sc.scheduler.IsRunning()
	}
	return resp
}

// GetCatalogRefresh handles GET /api/settings/catalog-refresh
func (sc *SettingsController) GetCatalogRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, sc.response())
}

// UpdateCatalogRefresh handles PUT /api/settings/catalog-refresh.
// Saved settings override the environment and take effect immediately.
func (sc *SettingsController) UpdateCatalogRefresh(c *gin.Context) {
	var req UpdateCatalogRefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	if req.Schedule != "" {
		if err := scheduler.ValidateSchedule(req.Schedule); err != nil {
			respondBadRequest(c, "invalid cron schedule: "+err.Error())
			return
		}
		if err := sc.settingsStore.SetCatalogRefreshSchedule(req.Schedule); err != nil {
			respondInternalError(c, err, "save schedule")
			return
		}
	}

	if req.Enabled != nil {
		if err := sc.settingsStore.SetCatalogRefreshEnabled(*req.Enabled); err != nil {
			respondInternalError(c, err, "save enabled state")
			return
		}
	}

	if !sc.reschedule(c) {
		return
	}
	c.JSON(http.StatusOK, sc.response())
}

// ResetCatalogRefresh handles DELETE /api/settings/catalog-refresh
func (sc *SettingsController) ResetCatalogRefresh(c *gin.Context) {
	if err := sc.settingsStore.ClearCatalogRefreshSettings(); err != nil {
		respondInternalError(c, err, "reset settings")
		return
	}
	if !sc.reschedule(c) {
		return
	}
	c.JSON(http.StatusOK, sc.response())
}

func (sc *SettingsController) reschedule(c *gin.Context) bool {
	if sc.scheduler == nil {
		return true
	}
	if err := sc.scheduler.Reschedule(); err != nil {
		respondInternalError(c, err, "settings saved but failed to reschedule")
		return false
	}
	return true
}
