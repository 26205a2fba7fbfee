// File path: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable the pipeline components need. It is built
// once at process start and handed to each constructor; no component reads
// the environment on its own.
type Config struct {
	// Upstream registry API.
	APIBaseURL     string
	WarmUpURL      string
	UserAgent      string
	PageSize       int
	MaxRecords     int
	RequestTimeout time.Duration
	// Pause before each page request. The registry penalizes bursty
	// clients, so pagination is paced rather than parallel.
	RequestPause time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration

	// Local state.
	DatabasePath string
	RawDataDir   string

	// Extraction date used downstream for censoring; recorded in run
	// metadata, not consumed by the ETL itself.
	ExtractionDate string
}

// DefaultConfig returns the baseline configuration used when no overrides
// are supplied.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:     "https://clinicaltrials.gov/api/v2",
		WarmUpURL:      "https://clinicaltrials.gov/",
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		PageSize:       100,
		MaxRecords:     100000,
		RequestTimeout: 10 * time.Second,
		RequestPause:   2 * time.Second,
		MaxAttempts:    4,
		RetryBackoff:   2 * time.Second,
		DatabasePath:   filepath.Join("data", "database", "clinical_trials.db"),
		RawDataDir:     filepath.Join("data", "raw"),
	}
}

// Load builds a Config from defaults and TRIALSTREAM_* environment
// variables.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_API_BASE_URL")); value != "" {
		cfg.APIBaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_WARMUP_URL")); value != "" {
		cfg.WarmUpURL = value
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_USER_AGENT")); value != "" {
		cfg.UserAgent = value
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_PAGE_SIZE")); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_PAGE_SIZE: %w", err)
		}
		cfg.PageSize = size
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_MAX_RECORDS")); value != "" {
		max, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_MAX_RECORDS: %w", err)
		}
		cfg.MaxRecords = max
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_REQUEST_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = dur
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_REQUEST_PAUSE")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_REQUEST_PAUSE: %w", err)
		}
		cfg.RequestPause = dur
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_MAX_ATTEMPTS")); value != "" {
		attempts, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_MAX_ATTEMPTS: %w", err)
		}
		cfg.MaxAttempts = attempts
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_RETRY_BACKOFF")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse TRIALSTREAM_RETRY_BACKOFF: %w", err)
		}
		cfg.RetryBackoff = dur
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_DB_PATH")); value != "" {
		cfg.DatabasePath = value
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_RAW_DIR")); value != "" {
		cfg.RawDataDir = value
	}
	if value := strings.TrimSpace(os.Getenv("TRIALSTREAM_EXTRACTION_DATE")); value != "" {
		cfg.ExtractionDate = value
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database path required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.MaxRecords <= 0 {
		return fmt.Errorf("max records must be positive, got %d", c.MaxRecords)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.ExtractionDate != "" {
		if _, err := time.Parse("2006-01-02", c.ExtractionDate); err != nil {
			return fmt.Errorf("parse extraction date %q: %w", c.ExtractionDate, err)
		}
	}
	return nil
}
