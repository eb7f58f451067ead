package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	DatabasePath string `json:"database_path"`
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	CORSOrigins  string `json:"cors_origins"` // カンマ区切り、* は全部許可

	// Mailbox (IMAP)
	IMAPHost      string `json:"imap_host"`
	IMAPPort      int    `json:"imap_port"`
	IMAPUsername  string `json:"imap_username"`
	IMAPPassword  string `json:"imap_password"`
	IMAPUseSSL    bool   `json:"imap_use_ssl"`
	TargetAddress string `json:"target_address"` // 営業窓口アドレス（To で絞り込む）
	LookbackDays  int    `json:"lookback_days"`
	MaxPerRun     int    `json:"max_per_run"`

	// Gemini extraction API
	GeminiAPIKey  string `json:"gemini_api_key"`
	GeminiModel   string `json:"gemini_model"`
	GeminiBaseURL string `json:"gemini_base_url"`

	// Torch import API
	TorchAPIURL string `json:"torch_api_url"`
	TorchAPIKey string `json:"torch_api_key"`

	// Dedup store: empty RedisURL selects the in-memory store
	RedisURL          string `json:"redis_url"`
	ProcessedTTLHours int    `json:"processed_ttl_hours"`

	// Pipeline pacing and scheduling
	ExtractDelayMillis int    `json:"extract_delay_millis"`
	RunIntervalMinutes int    `json:"run_interval_minutes"`
	ClassifierStrategy string `json:"classifier_strategy"` // keyword, model
}

// Default configuration values
const (
	DefaultDatabasePath       = "data/torch.db"
	DefaultAPIPort            = "8080"
	DefaultLogLevel           = "INFO"
	DefaultDataDir            = "data"
	DefaultCORSOrigins        = "*"
	DefaultIMAPPort           = 993
	DefaultLookbackDays       = 1
	DefaultMaxPerRun          = 200
	DefaultGeminiModel        = "gemini-2.0-flash-lite"
	DefaultGeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultProcessedTTLHours  = 168 // the idempotency window must cover the mail retention period, not one run
	DefaultExtractDelayMillis = 1000
	DefaultRunIntervalMinutes = 5
	DefaultClassifierStrategy = "keyword"
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:       DefaultDatabasePath,
		APIPort:            DefaultAPIPort,
		LogLevel:           DefaultLogLevel,
		DataDir:            DefaultDataDir,
		CORSOrigins:        DefaultCORSOrigins,
		IMAPPort:           DefaultIMAPPort,
		IMAPUseSSL:         true,
		LookbackDays:       DefaultLookbackDays,
		MaxPerRun:          DefaultMaxPerRun,
		GeminiModel:        DefaultGeminiModel,
		GeminiBaseURL:      DefaultGeminiBaseURL,
		ProcessedTTLHours:  DefaultProcessedTTLHours,
		ExtractDelayMillis: DefaultExtractDelayMillis,
		RunIntervalMinutes: DefaultRunIntervalMinutes,
		ClassifierStrategy: DefaultClassifierStrategy,
	}

	// Config file is optional
	_ = cfg.loadFromFile()

	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	setString := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}
	setInt := func(key string, dst *int) {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil {
				*dst = n
			}
		}
	}

	setString("TORCH_DATABASE_PATH", &c.DatabasePath)
	setString("TORCH_API_PORT", &c.APIPort)
	setString("TORCH_LOG_LEVEL", &c.LogLevel)
	setString("TORCH_DATA_DIR", &c.DataDir)
	setString("TORCH_CORS_ORIGINS", &c.CORSOrigins)
	setString("TORCH_IMAP_HOST", &c.IMAPHost)
	setInt("TORCH_IMAP_PORT", &c.IMAPPort)
	setString("TORCH_IMAP_USERNAME", &c.IMAPUsername)
	setString("TORCH_IMAP_PASSWORD", &c.IMAPPassword)
	if val := os.Getenv("TORCH_IMAP_USE_SSL"); val != "" {
		c.IMAPUseSSL = val != "false" && val != "0"
	}
	setString("TORCH_TARGET_ADDRESS", &c.TargetAddress)
	setInt("TORCH_LOOKBACK_DAYS", &c.LookbackDays)
	setInt("TORCH_MAX_PER_RUN", &c.MaxPerRun)
	setString("TORCH_GEMINI_API_KEY", &c.GeminiAPIKey)
	setString("TORCH_GEMINI_MODEL", &c.GeminiModel)
	setString("TORCH_GEMINI_BASE_URL", &c.GeminiBaseURL)
	setString("TORCH_API_URL", &c.TorchAPIURL)
	setString("TORCH_API_KEY", &c.TorchAPIKey)
	setString("TORCH_REDIS_URL", &c.RedisURL)
	setInt("TORCH_PROCESSED_TTL_HOURS", &c.ProcessedTTLHours)
	setInt("TORCH_EXTRACT_DELAY_MILLIS", &c.ExtractDelayMillis)
	setInt("TORCH_RUN_INTERVAL_MINUTES", &c.RunIntervalMinutes)
	setString("TORCH_CLASSIFIER_STRATEGY", &c.ClassifierStrategy)
}

// ProcessedTTL returns the idempotency mark lifetime
func (c *Config) ProcessedTTL() time.Duration {
	return time.Duration(c.ProcessedTTLHours) * time.Hour
}

// ExtractDelay returns the pause between consecutive extraction calls
func (c *Config) ExtractDelay() time.Duration {
	return time.Duration(c.ExtractDelayMillis) * time.Millisecond
}

// RunInterval returns the interval between scheduled batch runs
func (c *Config) RunInterval() time.Duration {
	return time.Duration(c.RunIntervalMinutes) * time.Minute
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
