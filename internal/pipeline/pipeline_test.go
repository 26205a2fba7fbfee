// File path: internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkarlsen/trialstream/internal/config"
	"github.com/mkarlsen/trialstream/internal/sqlite"
)

// fakeUpstream serves the given records as a single page, with a warm-up
// root handler.
func fakeUpstream(records []string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>ok</html>")
	})
	mux.HandleFunc("/studies", func(w http.ResponseWriter, r *http.Request) {
		studies := make([]json.RawMessage, 0, len(records))
		for _, record := range records {
			studies = append(studies, json.RawMessage(record))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"studies": studies, "nextPageToken": ""})
	})
	return httptest.NewServer(mux)
}

func testPipeline(t *testing.T, serverURL string) (*Pipeline, *sqlite.Store, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = serverURL
	cfg.WarmUpURL = serverURL + "/"
	cfg.PageSize = 10
	cfg.MaxRecords = 10
	cfg.RequestPause = 0
	cfg.RetryBackoff = time.Millisecond
	cfg.DatabasePath = filepath.Join(dir, "trials.db")
	cfg.RawDataDir = filepath.Join(dir, "raw")

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(cfg, store), store, cfg
}

func record(nctID string) string {
	return fmt.Sprintf(`{
		"protocolSection": {
			"identificationModule": {"nctId": %q, "briefTitle": "Trial %s"},
			"statusModule": {"overallStatus": "COMPLETED", "startDateStruct": {"date": "2015-06"}},
			"designModule": {"phases": ["PHASE1", "PHASE2"]},
			"sponsorCollaboratorsModule": {"leadSponsor": {"name": "Hospital", "class": "OTHER"}}
		}
	}`, nctID, nctID)
}

func TestRunEndToEnd(t *testing.T) {
	server := fakeUpstream([]string{record("NCT001"), record("NCT002"), record("NCT003")})
	defer server.Close()

	pipe, store, _ := testPipeline(t, server.URL)
	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.State != StateSucceeded {
		t.Fatalf("state = %q, want %q", report.State, StateSucceeded)
	}
	if report.Extracted != 3 || report.Transformed != 3 || report.Loaded != 3 {
		t.Fatalf("counts: %+v", report)
	}
	if report.LoadStats.Inserted != 3 {
		t.Errorf("inserted = %d, want 3", report.LoadStats.Inserted)
	}
	if report.Validation == nil || report.Validation.OrphanTotal() != 0 {
		t.Errorf("validation: %+v", report.Validation)
	}

	study, err := store.StudyByNCTID(context.Background(), "NCT002")
	if err != nil {
		t.Fatalf("study lookup: %v", err)
	}
	if study.PhaseGroup.String != "Phase 1/2" {
		t.Errorf("phase_group = %q", study.PhaseGroup.String)
	}
	if study.StartDate.String != "2015-06-01" {
		t.Errorf("start_date = %q", study.StartDate.String)
	}
}

func TestRunWritesArchive(t *testing.T) {
	server := fakeUpstream([]string{record("NCT010")})
	defer server.Close()

	pipe, _, cfg := testPipeline(t, server.URL)
	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.ArchivePath == "" {
		t.Fatal("archive path missing from report")
	}
	if _, err := os.Stat(report.ArchivePath); err != nil {
		t.Fatalf("archive file: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(cfg.RawDataDir, "metadata_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("metadata sidecar: %v %v", matches, err)
	}
}

func TestRunRejectionIsolation(t *testing.T) {
	// One record with no natural key between two valid ones; the invalid
	// record is rejected and the rest still load.
	server := fakeUpstream([]string{
		record("NCT020"),
		`{"protocolSection": {"identificationModule": {"briefTitle": "No key"}}}`,
		record("NCT021"),
	})
	defer server.Close()

	pipe, store, _ := testPipeline(t, server.URL)
	report, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.State != StateSucceeded {
		t.Fatalf("rejections must not fail the run, state = %q", report.State)
	}
	if len(report.Rejections) != 1 {
		t.Fatalf("rejections = %d, want 1: %+v", len(report.Rejections), report.Rejections)
	}
	if report.Loaded != 2 {
		t.Fatalf("loaded = %d, want 2", report.Loaded)
	}
	for _, id := range []string{"NCT020", "NCT021"} {
		if _, err := store.StudyByNCTID(context.Background(), id); err != nil {
			t.Errorf("study %s not loaded: %v", id, err)
		}
	}
}

func TestRunIdempotentAcrossRuns(t *testing.T) {
	server := fakeUpstream([]string{record("NCT030"), record("NCT031")})
	defer server.Close()

	pipe, store, cfg := testPipeline(t, server.URL)
	if _, err := pipe.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := New(cfg, store)
	report, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.LoadStats.Updated != 2 || report.LoadStats.Inserted != 0 {
		t.Fatalf("second run stats: %+v", report.LoadStats)
	}
	counts, err := store.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["studies"] != 2 {
		t.Fatalf("studies = %d, want 2", counts["studies"])
	}
}

func TestRunFailsOnFatalFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/studies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	pipe, _, _ := testPipeline(t, server.URL)
	report, err := pipe.Run(context.Background())
	if err == nil {
		t.Fatal("expected fatal fetch to fail the run")
	}
	if report.State != StateFailed {
		t.Fatalf("state = %q, want %q", report.State, StateFailed)
	}
	if report.Error == "" {
		t.Error("failed report should carry the error")
	}
}

func TestReportSnapshotBeforeRun(t *testing.T) {
	server := fakeUpstream(nil)
	defer server.Close()

	pipe, _, _ := testPipeline(t, server.URL)
	report := pipe.Report()
	if report.State != StateIdle {
		t.Fatalf("state = %q, want %q", report.State, StateIdle)
	}
	if report.RunID == "" {
		t.Fatal("run id missing")
	}
}
