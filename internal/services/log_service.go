package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hito-kotaro/torch/internal/database/models"
	"gorm.io/gorm"
)

// LogService handles logging operations
type LogService struct {
	db       *gorm.DB
	logLevel models.LogLevel
}

// NewLogService creates a new LogService instance
func NewLogService(db *gorm.DB) *LogService {
	return &LogService{
		db:       db,
		logLevel: models.LogLevelInfo,
	}
}

// NewLogServiceWithLevel creates a new LogService instance with specified log level
func NewLogServiceWithLevel(db *gorm.DB, level string) *LogService {
	return &LogService{
		db:       db,
		logLevel: parseLogLevel(level),
	}
}

// parseLogLevel converts a string to LogLevel
func parseLogLevel(level string) models.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return models.LogLevelDebug
	case "INFO":
		return models.LogLevelInfo
	case "WARN", "WARNING":
		return models.LogLevelWarn
	case "ERROR":
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

// shouldLog checks if a log entry should be recorded based on log level
func (s *LogService) shouldLog(level models.LogLevel) bool {
	levelPriority := map[models.LogLevel]int{
		models.LogLevelDebug: 0,
		models.LogLevelInfo:  1,
		models.LogLevelWarn:  2,
		models.LogLevelError: 3,
	}

	return levelPriority[level] >= levelPriority[s.logLevel]
}

// log creates a log entry with the given level
func (s *LogService) log(level models.LogLevel, module models.LogModule, action, message string, details interface{}) {
	if !s.shouldLog(level) {
		return
	}

	detailsJSON := ""
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			detailsJSON = string(data)
		}
	}

	entry := &models.Log{
		Level:     string(level),
		Module:    string(module),
		Action:    action,
		Message:   message,
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	}

	// A failed log write must never break the batch
	_ = s.db.Create(entry).Error
}

// LogDebug records a DEBUG level log entry
func (s *LogService) LogDebug(module models.LogModule, action, message string, details interface{}) {
	s.log(models.LogLevelDebug, module, action, message, details)
}

// LogInfo records an INFO level log entry
func (s *LogService) LogInfo(module models.LogModule, action, message string, details interface{}) {
	s.log(models.LogLevelInfo, module, action, message, details)
}

// LogWarn records a WARN level log entry
func (s *LogService) LogWarn(module models.LogModule, action, message string, details interface{}) {
	s.log(models.LogLevelWarn, module, action, message, details)
}

// LogError records an ERROR level log entry
func (s *LogService) LogError(module models.LogModule, action, message string, details interface{}) {
	s.log(models.LogLevelError, module, action, message, details)
}

// LogListOptions controls log queries
type LogListOptions struct {
	Level  string
	Module string
	Limit  int
	Offset int
}

// ListLogs returns log entries, newest first
func (s *LogService) ListLogs(opts LogListOptions) ([]models.Log, int64, error) {
	query := s.db.Model(&models.Log{})
	if opts.Level != "" {
		query = query.Where("level = ?", strings.ToUpper(opts.Level))
	}
	if opts.Module != "" {
		query = query.Where("module = ?", opts.Module)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.Log
	err := query.Order("created_at DESC").Limit(limit).Offset(opts.Offset).Find(&logs).Error
	return logs, total, err
}

// CleanupOldLogs deletes log entries older than the given number of days
func (s *LogService) CleanupOldLogs(days int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", threshold).Delete(&models.Log{})
	return result.RowsAffected, result.Error
}
