package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/scheduler"
)

// CatalogStatusResponse combines the snapshot and scheduler state.
type CatalogStatusResponse struct {
	Catalog   directory.Status  `json:"catalog"`
	Scheduler *scheduler.Status `json:"scheduler,omitempty"`
}

// CatalogController exposes catalog status and manual refreshes.
type CatalogController struct {
	directory *directory.Directory
	scheduler *scheduler.CatalogRefreshScheduler
	timeout   time.Duration
}

func NewCatalogController(dir *directory.Directory, sched *scheduler.CatalogRefreshScheduler) *CatalogController {
	return &CatalogController{
		directory: dir,
		scheduler: sched,
		timeout:   time.Minute,
	}
}

// Status handles GET /api/catalog/status
func (cc *CatalogController) Status(c *gin.Context) {
	resp := CatalogStatusResponse{Catalog: cc.directory.Status()}
	if cc.scheduler != nil {
		s := cc.scheduler.Status()
		resp.Scheduler = &s
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/catalog/refresh.
// It reloads synchronously; a failed reload keeps the previous snapshot.
func (cc *CatalogController) Refresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), cc.timeout)
	defer cancel()

	if err := cc.directory.Refresh(ctx); err != nil {
		respondLookupError(c, err, "refresh catalog")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "catalog refreshed", Data: cc.directory.Status()})
}
