package http

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/tasks"
)

func setupTasksRouter(t *testing.T, loaded bool) *gin.Engine {
	t.Helper()

	env := newTestEnv(t, loaded)

	cfg := tasks.DefaultConfig()
	cfg.Workers = 1
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "atlas.db"), cfg, env.directory, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	controller := NewTasksController(client, env.directory)
	router := gin.New()
	router.GET("/api/tasks/types", controller.ListTaskTypes)
	router.GET("/api/tasks/:id", controller.GetTaskStatus)
	router.POST("/api/tasks/:type/run", controller.RunTask)
	return router
}

func TestTasksController_ListTaskTypes(t *testing.T) {
	router := setupTasksRouter(t, true)
	w := doRequest(router, "GET", "/api/tasks/types", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tasks.QueuePrefetchFlag)
	assert.Contains(t, w.Body.String(), tasks.QueuePrefetchAllFlags)
}

func TestTasksController_RunTask(t *testing.T) {
	t.Run("enqueues a flag prefetch", func(t *testing.T) {
		router := setupTasksRouter(t, true)
		w := doRequest(router, "POST", "/api/tasks/prefetch_flag/run", "code=fra")

		require.Equal(t, http.StatusAccepted, w.Code)
		var resp struct {
			Message string `json:"message"`
			Data    struct {
				TaskID string `json:"task_id"`
			} `json:"data"`
		}
		decodeJSON(t, w, &resp)
		assert.Equal(t, "task enqueued", resp.Message)
		require.NotEmpty(t, resp.Data.TaskID)

		w = doRequest(router, "GET", "/api/tasks/"+resp.Data.TaskID, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("requires a code", func(t *testing.T) {
		router := setupTasksRouter(t, true)
		assert.Equal(t, http.StatusBadRequest, doRequest(router, "POST", "/api/tasks/prefetch_flag/run", "").Code)
	})

	t.Run("bulk prefetch waits for the catalog", func(t *testing.T) {
		router := setupTasksRouter(t, false)
		assert.Equal(t, http.StatusServiceUnavailable, doRequest(router, "POST", "/api/tasks/prefetch_all_flags/run", "").Code)
	})

	t.Run("unknown task type", func(t *testing.T) {
		router := setupTasksRouter(t, true)
		assert.Equal(t, http.StatusBadRequest, doRequest(router, "POST", "/api/tasks/nope/run", "").Code)
	})
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "success", taskStatusToString(backlite.TaskStatusSuccess))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
