package services

import (
	"errors"
	"os"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hito-kotaro/torch/internal/database/models"
)

func setupRunTestDB(t *testing.T) (*gorm.DB, func()) {
	tmpFile, err := os.CreateTemp("", "run_test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()

	db, err := gorm.Open(sqlite.Open(tmpFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&models.BatchRun{}, &models.MessageResult{}); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func TestRunService_ListRuns(t *testing.T) {
	db, cleanup := setupRunTestDB(t)
	defer cleanup()

	service := NewRunService(db)

	for i := 0; i < 3; i++ {
		db.Create(&models.BatchRun{
			StartedAt: time.Now().Add(time.Duration(-i) * time.Hour),
			Trigger:   string(models.TriggerSchedule),
			Fetched:   i,
		})
	}

	runs, total, err := service.ListRuns(RunListOptions{})
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if total != 3 || len(runs) != 3 {
		t.Fatalf("total = %d, len = %d, want 3", total, len(runs))
	}
	// Newest first
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not sorted newest first: %v, %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestRunService_GetRun(t *testing.T) {
	db, cleanup := setupRunTestDB(t)
	defer cleanup()

	service := NewRunService(db)

	run := &models.BatchRun{StartedAt: time.Now(), Trigger: string(models.TriggerManual)}
	db.Create(run)
	db.Create(&models.MessageResult{
		BatchRunID:  run.ID,
		MessageID:   "msg-1",
		Outcome:     models.OutcomeSuccess,
		ProcessedAt: time.Now(),
	})

	got, results, err := service.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun returned error: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("run ID = %d, want %d", got.ID, run.ID)
	}
	if len(results) != 1 || results[0].MessageID != "msg-1" {
		t.Errorf("results = %+v", results)
	}
}

func TestRunService_GetRun_NotFound(t *testing.T) {
	db, cleanup := setupRunTestDB(t)
	defer cleanup()

	service := NewRunService(db)
	_, _, err := service.GetRun(42)
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestRunService_LatestRun(t *testing.T) {
	db, cleanup := setupRunTestDB(t)
	defer cleanup()

	service := NewRunService(db)

	if _, err := service.LatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound on empty table", err)
	}

	db.Create(&models.BatchRun{StartedAt: time.Now().Add(-time.Hour), Fetched: 1})
	db.Create(&models.BatchRun{StartedAt: time.Now(), Fetched: 2})

	latest, err := service.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun returned error: %v", err)
	}
	if latest.Fetched != 2 {
		t.Errorf("latest run fetched = %d, want 2", latest.Fetched)
	}
}
