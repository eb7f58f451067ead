package pipeline

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hito-kotaro/torch/internal/classify"
	"github.com/hito-kotaro/torch/internal/config"
	"github.com/hito-kotaro/torch/internal/dedup"
	"github.com/hito-kotaro/torch/internal/extract"
	"github.com/hito-kotaro/torch/internal/mailbox"
	"github.com/hito-kotaro/torch/internal/services"
	"github.com/hito-kotaro/torch/internal/torchapi"
)

// BuildRunner assembles a Runner from configuration. The dedup store is
// Redis when redis_url is set and in-memory otherwise; the classifier
// strategy is selected by classifier_strategy.
func BuildRunner(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Runner, error) {
	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)

	var store dedup.Store
	if cfg.RedisURL != "" {
		redisStore, err := dedup.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("dedup store: %w", err)
		}
		store = redisStore
	} else {
		store = dedup.NewMemoryStore(time.Minute)
	}
	gate := dedup.NewGate(store, cfg.ProcessedTTL())

	extractor := extract.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	var classifier classify.Classifier
	switch cfg.ClassifierStrategy {
	case "model":
		classifier = classify.NewModelClassifier(extractor)
	default:
		classifier = classify.NewKeywordClassifier(classify.DefaultKeywordConfig())
	}

	source := mailbox.NewIMAPSource(mailbox.Options{
		Host:     cfg.IMAPHost,
		Port:     cfg.IMAPPort,
		Username: cfg.IMAPUsername,
		Password: cfg.IMAPPassword,
		UseSSL:   cfg.IMAPUseSSL,
	}, logService)

	importer := torchapi.NewClient(cfg.TorchAPIURL, cfg.TorchAPIKey)

	return NewRunner(
		db,
		logService,
		source,
		gate,
		classifier,
		extractor,
		importer,
		NewFixedThrottle(cfg.ExtractDelay()),
		Options{
			TargetAddress: cfg.TargetAddress,
			LookbackDays:  cfg.LookbackDays,
			MaxPerRun:     cfg.MaxPerRun,
		},
	), nil
}
