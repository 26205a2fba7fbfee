// File path: internal/common/log_test.go
package common

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoggerSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("Logger must return the same instance")
	}
}

func TestSinkCapturesEntries(t *testing.T) {
	Logger().Info("capture test entry", "key", "value")
	entries := LogEntries()
	if len(entries) == 0 {
		t.Fatal("expected captured entries")
	}
	found := false
	for _, entry := range entries {
		if entry.Message == "capture test entry" {
			found = true
			if entry.Level != "info" {
				t.Errorf("level = %q, want info", entry.Level)
			}
			if entry.Attributes["key"] != "value" {
				t.Errorf("attributes = %v", entry.Attributes)
			}
		}
	}
	if !found {
		t.Fatal("entry not captured")
	}
}

func TestSinkBounded(t *testing.T) {
	sink := newLogSink(3)
	for i := 0; i < 5; i++ {
		record := slog.NewRecord(time.Now(), slog.LevelInfo, "entry", 0)
		sink.capture(record)
	}
	if got := len(sink.entries()); got != 3 {
		t.Fatalf("history = %d entries, want 3", got)
	}
}
