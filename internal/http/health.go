package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/directory"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db        *database.Database
	directory *directory.Directory
	version   string
}

func NewHealthController(db *database.Database, dir *directory.Directory, version string) *HealthController {
	return &HealthController{
		db:        db,
		directory: dir,
		version:   version,
	}
}

// Status reports database connectivity, the number of stored scopes and
// catalog readiness. A catalog that is still loading reports "degraded" with 200.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
			if scopes, err := h.db.CountScopes(); err == nil {
				checks["scopes"] = strconv.FormatInt(scopes, 10)
			}
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.directory != nil {
		if h.directory.Ready() {
			checks["catalog"] = "ok"
		} else {
			checks["catalog"] = "loading"
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
