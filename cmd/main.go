package main

import (
	"context"
	"log"
	"os"

	"github.com/hito-kotaro/torch/internal/api"
	"github.com/hito-kotaro/torch/internal/cli"
	"github.com/hito-kotaro/torch/internal/config"
	"github.com/hito-kotaro/torch/internal/database"
	"github.com/hito-kotaro/torch/internal/pipeline"
	"github.com/hito-kotaro/torch/internal/scheduler"
	"github.com/hito-kotaro/torch/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Check if running CLI command
	if len(os.Args) > 1 {
		cli.Execute(db, cfg)
		return
	}

	ctx := context.Background()

	// Build the batch runner and start the scheduled loop
	runner, err := pipeline.BuildRunner(ctx, db, cfg)
	if err != nil {
		log.Fatalf("Failed to build batch runner: %v", err)
	}

	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	sched := scheduler.New(runner, logService, cfg.RunIntervalMinutes)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Start API server
	router, apiKeyManager, err := api.SetupRouter(db, cfg, sched)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	log.Printf("Starting Torch batch server on port %s", cfg.APIPort)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Database path: %s", cfg.DatabasePath)
	log.Printf("Batch interval: %d minutes", cfg.RunIntervalMinutes)
	log.Printf("API Key: %s", apiKeyManager.GetCurrentKey())
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
