package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client    *tasks.Client
	directory *directory.Directory
}

// NewTasksController creates a new TasksController.
func NewTasksController(client *tasks.Client, dir *directory.Directory) *TasksController {
	return &TasksController{client: client, directory: dir}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.QueuePrefetchFlag,
			Description: "Cache the flag image of one country",
			Queue:       tasks.QueuePrefetchFlag,
		},
		{
			Type:        tasks.QueuePrefetchAllFlags,
			Description: "Cache flag images for the whole catalog",
			Queue:       tasks.QueuePrefetchAllFlags,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// Code is required for prefetch_flag
	Code string `json:"code,omitempty" form:"code"`
}

// RunTask handles POST /api/tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.ContentType() == "application/x-www-form-urlencoded" || c.ContentType() == "multipart/form-data" {
		_ = c.ShouldBind(&req)
	} else if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}

	var (
		id  string
		err error
	)
	switch taskType {
	case tasks.QueuePrefetchFlag:
		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if !isCountryCode(code) {
			respondBadRequest(c, "code is required for prefetch_flag task")
			return
		}
		country, lookupErr := tc.directory.Lookup(c.Request.Context(), code)
		if lookupErr != nil {
			respondLookupError(c, lookupErr, "prefetch flag")
			return
		}
		id, err = tc.client.PrefetchFlag(*country)

	case tasks.QueuePrefetchAllFlags:
		if !tc.directory.Ready() {
			respondCatalogLoading(c)
			return
		}
		id, err = tc.client.PrefetchAllFlags()

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": id,
		"type":    taskType,
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
