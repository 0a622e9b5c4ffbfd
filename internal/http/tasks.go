package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/tasks"
)

// TasksController enqueues background work on the task queue.
type TasksController struct {
	client   *tasks.Client
	settings *settingsstore.SettingsStore
}

func NewTasksController(client *tasks.Client, settings *settingsstore.SettingsStore) *TasksController {
	return &TasksController{client: client, settings: settings}
}

// RunTaskRequest is the request body for enqueueing a task.
type RunTaskRequest struct {
	// Strategy selects the download strategy for sync_orders tasks.
	Strategy string `json:"strategy,omitempty"`
}

// RunTask handles POST /api/tasks/:type/run and enqueues one task of the
// given type. The queue workers pick it up with the retry and timeout
// policy of that queue.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}

	var task backlite.Task
	switch taskType {
	case "sync_orders":
		task = tasks.SyncOrdersTask{Strategy: req.Strategy}

	case "cleanup_order_cache":
		task = tasks.CleanupOrderCacheTask{
			Key:        payloadstore.DefaultKey,
			MaxAgeDays: tc.settings.GetOrderCacheTTLDays(),
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("unknown task type: %s", taskType),
		})
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"taskId":  ids[0],
		"type":    taskType,
		"message": "task enqueued",
	})
}
