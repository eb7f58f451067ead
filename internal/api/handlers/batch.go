package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hito-kotaro/torch/internal/database/models"
	"github.com/hito-kotaro/torch/internal/scheduler"
)

// BatchHandler handles manual batch triggers
type BatchHandler struct {
	scheduler *scheduler.Scheduler
}

// NewBatchHandler creates a new BatchHandler instance
func NewBatchHandler(sched *scheduler.Scheduler) *BatchHandler {
	return &BatchHandler{scheduler: sched}
}

// TriggerRun starts a batch immediately. Returns 409 when a batch is already
// in flight; the scheduled loop owns the lock in that case.
// POST /api/trigger
func (h *BatchHandler) TriggerRun(c *gin.Context) {
	run, started, err := h.scheduler.TryRunNow(c.Request.Context(), models.TriggerAPI)
	if !started {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_RUNNING",
				"message": "A batch is already running",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_FAILED",
				"message": err.Error(),
			},
			"data": gin.H{"run": run},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"run": run},
	})
}
