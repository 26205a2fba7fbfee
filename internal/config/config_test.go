// File path: internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != 100 {
		t.Errorf("page size = %d, want 100", cfg.PageSize)
	}
	if cfg.MaxRecords != 100000 {
		t.Errorf("max records = %d, want 100000", cfg.MaxRecords)
	}
	if cfg.RequestPause != 2*time.Second {
		t.Errorf("request pause = %v", cfg.RequestPause)
	}
	if cfg.APIBaseURL == "" || cfg.DatabasePath == "" {
		t.Errorf("defaults missing required fields: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRIALSTREAM_PAGE_SIZE", "25")
	t.Setenv("TRIALSTREAM_MAX_RECORDS", "500")
	t.Setenv("TRIALSTREAM_REQUEST_PAUSE", "50ms")
	t.Setenv("TRIALSTREAM_DB_PATH", "/tmp/override.db")
	t.Setenv("TRIALSTREAM_EXTRACTION_DATE", "2024-06-30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != 25 {
		t.Errorf("page size = %d, want 25", cfg.PageSize)
	}
	if cfg.MaxRecords != 500 {
		t.Errorf("max records = %d, want 500", cfg.MaxRecords)
	}
	if cfg.RequestPause != 50*time.Millisecond {
		t.Errorf("request pause = %v", cfg.RequestPause)
	}
	if cfg.DatabasePath != "/tmp/override.db" {
		t.Errorf("db path = %q", cfg.DatabasePath)
	}
	if cfg.ExtractionDate != "2024-06-30" {
		t.Errorf("extraction date = %q", cfg.ExtractionDate)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TRIALSTREAM_PAGE_SIZE", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for bad page size")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := DefaultConfig()
	bad.PageSize = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero page size")
	}

	bad = DefaultConfig()
	bad.APIBaseURL = " "
	if err := bad.Validate(); err == nil {
		t.Error("expected error for blank base url")
	}

	bad = DefaultConfig()
	bad.ExtractionDate = "June 2024"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unparseable extraction date")
	}

	good := DefaultConfig()
	good.ExtractionDate = "2024-06-30"
	if err := good.Validate(); err != nil {
		t.Errorf("valid extraction date rejected: %v", err)
	}
}
