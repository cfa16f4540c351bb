package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/PotatoCodder/library-management-backend/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue TaskQueue
}

// NewTasksController creates a new TasksController. queue may be nil when
// background tasks are disabled.
func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// RunTaskRequest is the optional body for running a task.
type RunTaskRequest struct {
	// RetentionDays overrides the audit retention for cleanup_audit_events
	RetentionDays int `json:"retention_days,omitempty" form:"retention_days"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "cleanup_audit_events",
			Description: "Delete audit events older than the retention period",
			Queue:       tasks.CleanupAuditEventsTask{}.Config().Name,
		},
		{
			Type:        "reconcile_loans",
			Description: "Report books and borrowed lists that disagree",
			Queue:       tasks.ReconcileLoansTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
		"enabled":    tc.queue != nil,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if !tc.requireQueue(c) {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "Error reading task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "Task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	if !tc.requireQueue(c) {
		return
	}

	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}
	}

	var task backlite.Task
	switch taskType {
	case "cleanup_audit_events":
		if req.RetentionDays < 0 {
			respondBadRequest(c, "retention_days must not be negative")
			return
		}
		task = tasks.CleanupAuditEventsTask{RetentionDays: req.RetentionDays}

	case "reconcile_loans":
		task = tasks.ReconcileLoansTask{}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	id, err := tc.queue.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "Error enqueueing task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": id,
		"type":    taskType,
		"message": "task enqueued",
	})
}

func (tc *TasksController) requireQueue(c *gin.Context) bool {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "background tasks are disabled")
		return false
	}
	return true
}
