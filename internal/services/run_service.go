package services

import (
	"errors"

	"github.com/hito-kotaro/torch/internal/database/models"
	"gorm.io/gorm"
)

var (
	// ErrRunNotFound indicates the batch run was not found
	ErrRunNotFound = errors.New("batch run not found")
)

// RunService handles batch run queries
type RunService struct {
	db *gorm.DB
}

// NewRunService creates a new RunService instance
func NewRunService(db *gorm.DB) *RunService {
	return &RunService{db: db}
}

// RunListOptions controls run queries
type RunListOptions struct {
	Limit  int
	Offset int
}

// ListRuns returns batch runs, newest first
func (s *RunService) ListRuns(opts RunListOptions) ([]models.BatchRun, int64, error) {
	var total int64
	if err := s.db.Model(&models.BatchRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var runs []models.BatchRun
	err := s.db.Order("started_at DESC").Limit(limit).Offset(opts.Offset).Find(&runs).Error
	return runs, total, err
}

// GetRun returns one batch run with its per-message results
func (s *RunService) GetRun(id uint) (*models.BatchRun, []models.MessageResult, error) {
	var run models.BatchRun
	if err := s.db.First(&run, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRunNotFound
		}
		return nil, nil, err
	}

	var results []models.MessageResult
	if err := s.db.Where("batch_run_id = ?", id).Order("processed_at ASC").Find(&results).Error; err != nil {
		return nil, nil, err
	}

	return &run, results, nil
}

// LatestRun returns the most recent batch run, or ErrRunNotFound when no
// batch has run yet
func (s *RunService) LatestRun() (*models.BatchRun, error) {
	var run models.BatchRun
	if err := s.db.Order("started_at DESC").First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}
