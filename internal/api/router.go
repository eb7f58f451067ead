package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hito-kotaro/torch/internal/api/handlers"
	"github.com/hito-kotaro/torch/internal/api/middleware"
	"github.com/hito-kotaro/torch/internal/config"
	"github.com/hito-kotaro/torch/internal/scheduler"
	"github.com/hito-kotaro/torch/internal/services"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config, sched *scheduler.Scheduler) (*gin.Engine, *middleware.APIKeyManager, error) {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORSOrigins),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize API key manager
	apiKeyManager, err := middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	// Initialize services
	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	runService := services.NewRunService(db)

	// Initialize handlers
	runHandler := handlers.NewRunHandler(runService)
	logHandler := handlers.NewLogHandler(logService)
	batchHandler := handlers.NewBatchHandler(sched)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Apply API key middleware to all API routes
		api.Use(middleware.APIKeyMiddleware(apiKeyManager))

		api.GET("/runs", runHandler.ListRuns)
		api.GET("/runs/:id", runHandler.GetRun)
		api.GET("/logs", logHandler.ListLogs)
		api.POST("/trigger", batchHandler.TriggerRun)
	}

	return router, apiKeyManager, nil
}

// splitOrigins parses the comma-separated CORS origin list
func splitOrigins(origins string) []string {
	if origins == "" || origins == "*" {
		return []string{"*"}
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
