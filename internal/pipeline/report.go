// File path: internal/pipeline/report.go
package pipeline

import (
	"sync"
	"time"

	"github.com/mkarlsen/trialstream/internal/sqlite"
	"github.com/mkarlsen/trialstream/internal/transform"
)

// State names the stage a pipeline run is currently in. A run moves
// forward through the stages in order and ends in Succeeded or Failed.
type State string

const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting"
	StateTransforming State = "transforming"
	StateLoading      State = "loading"
	StateValidating   State = "validating"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// LoadFailure records a study that was transformed successfully but could
// not be persisted.
type LoadFailure struct {
	NCTID string `json:"nct_id"`
	Error string `json:"error"`
}

// Report is the full accounting of one pipeline run.
type Report struct {
	RunID          string    `json:"run_id"`
	State          State     `json:"state"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at,omitempty"`
	ExtractionDate string    `json:"extraction_date,omitempty"`
	ArchivePath    string    `json:"archive_path,omitempty"`

	Extracted   int `json:"extracted"`
	Transformed int `json:"transformed"`
	Loaded      int `json:"loaded"`

	LoadStats    sqlite.LoadStats         `json:"load_stats"`
	Rejections   []transform.Rejection    `json:"rejections,omitempty"`
	LoadFailures []LoadFailure            `json:"load_failures,omitempty"`
	Validation   *sqlite.ValidationReport `json:"validation,omitempty"`

	Error string `json:"error,omitempty"`
}

// progress guards the report so the API can read it while a run is live.
type progress struct {
	mu     sync.RWMutex
	report Report
}

func (p *progress) setState(state State) {
	p.mu.Lock()
	p.report.State = state
	p.mu.Unlock()
}

func (p *progress) update(fn func(*Report)) {
	p.mu.Lock()
	fn(&p.report)
	p.mu.Unlock()
}

// Snapshot returns a copy of the current report. Slices are copied so the
// caller cannot observe later mutation.
func (p *progress) Snapshot() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	report := p.report
	report.Rejections = append([]transform.Rejection(nil), p.report.Rejections...)
	report.LoadFailures = append([]LoadFailure(nil), p.report.LoadFailures...)
	return report
}
