package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hito-kotaro/torch/internal/services"
)

// RunHandler handles batch run queries
type RunHandler struct {
	runService *services.RunService
}

// NewRunHandler creates a new RunHandler instance
func NewRunHandler(runService *services.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// ListRuns returns batch runs with pagination
// GET /api/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, total, err := h.runService.ListRuns(services.RunListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve runs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total": total,
			"runs":  runs,
		},
	})
}

// GetRun returns one batch run with its per-message results
// GET /api/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	runID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid run ID",
			},
		})
		return
	}

	run, results, err := h.runService.GetRun(uint(runID))
	if err != nil {
		if err == services.ErrRunNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Run not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve run",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"run":     run,
			"results": results,
		},
	})
}
