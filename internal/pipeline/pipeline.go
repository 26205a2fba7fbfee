// File path: internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/trialstream/internal/archive"
	"github.com/mkarlsen/trialstream/internal/common"
	"github.com/mkarlsen/trialstream/internal/config"
	"github.com/mkarlsen/trialstream/internal/registry"
	"github.com/mkarlsen/trialstream/internal/sqlite"
	"github.com/mkarlsen/trialstream/internal/transform"
)

// Pipeline orchestrates one end-to-end run: extract raw records into the
// archive, then re-read the archive through transform and load, then
// validate the resulting store. The archive file is the boundary between
// the two halves, so a run can be replayed from disk without touching the
// upstream registry.
type Pipeline struct {
	cfg      config.Config
	store    *sqlite.Store
	progress progress
}

// New builds a pipeline over an open store.
func New(cfg config.Config, store *sqlite.Store) *Pipeline {
	p := &Pipeline{cfg: cfg, store: store}
	p.progress.report = Report{
		RunID:          uuid.NewString(),
		State:          StateIdle,
		ExtractionDate: cfg.ExtractionDate,
	}
	return p
}

// Report returns a snapshot of the run's current accounting. Safe to call
// concurrently with Run.
func (p *Pipeline) Report() Report {
	return p.progress.Snapshot()
}

// Run executes the full pipeline. The returned report is final; a non-nil
// error means the run ended in StateFailed and describes the fatal cause.
// Per-record problems never fail the run: unparseable records become
// Rejections and per-study load errors become LoadFailures.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	logger := common.Logger()
	p.progress.update(func(r *Report) {
		r.StartedAt = time.Now().UTC()
		r.State = StateExtracting
	})
	logger.Info("pipeline: run started", "run_id", p.progress.Snapshot().RunID)

	archivePath, err := p.extract(ctx)
	if err != nil {
		return p.fail(fmt.Errorf("extract: %w", err))
	}
	p.progress.update(func(r *Report) { r.ArchivePath = archivePath })

	p.progress.setState(StateTransforming)
	sets, err := p.transformArchive(ctx, archivePath)
	if err != nil {
		return p.fail(fmt.Errorf("transform: %w", err))
	}

	p.progress.setState(StateLoading)
	if err := p.load(ctx, sets); err != nil {
		return p.fail(fmt.Errorf("load: %w", err))
	}

	p.progress.setState(StateValidating)
	validation, err := p.store.Validate(ctx)
	if err != nil {
		return p.fail(fmt.Errorf("validate: %w", err))
	}
	p.progress.update(func(r *Report) {
		r.Validation = validation
		r.State = StateSucceeded
		r.FinishedAt = time.Now().UTC()
	})
	report := p.progress.Snapshot()
	logger.Info("pipeline: run succeeded",
		"run_id", report.RunID,
		"extracted", report.Extracted,
		"loaded", report.Loaded,
		"rejected", len(report.Rejections))
	return report, nil
}

// extract pulls records from the registry into a fresh archive file and
// returns its path.
func (p *Pipeline) extract(ctx context.Context) (string, error) {
	client, err := registry.NewClient(&p.cfg)
	if err != nil {
		return "", err
	}
	defer client.Close()

	writer, err := archive.NewWriter(p.cfg.RawDataDir)
	if err != nil {
		return "", err
	}
	extractor := registry.NewExtractor(&p.cfg, client)
	total, err := extractor.Run(ctx, p.cfg.MaxRecords, func(raw json.RawMessage) error {
		if err := writer.Append(ctx, raw); err != nil {
			return err
		}
		p.progress.update(func(r *Report) { r.Extracted++ })
		return nil
	})
	meta := archive.Metadata{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		TotalStudies:   total,
		PageSize:       p.cfg.PageSize,
		MaxRecords:     p.cfg.MaxRecords,
		APIBaseURL:     p.cfg.APIBaseURL,
		ExtractionDate: p.cfg.ExtractionDate,
	}
	if closeErr := writer.Close(meta); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	return writer.Path(), nil
}

// transformArchive re-reads the archive and converts each record into a
// RowSet. Records that cannot be parsed are recorded as rejections and
// skipped.
func (p *Pipeline) transformArchive(ctx context.Context, path string) ([]*transform.RowSet, error) {
	logger := common.Logger()
	var sets []*transform.RowSet
	err := archive.Read(ctx, path, func(raw json.RawMessage) error {
		set, rejection := transform.Record(raw)
		if rejection != nil {
			logger.Warn("pipeline: record rejected", "nct_id", rejection.NCTID, "reason", rejection.Reason)
			p.progress.update(func(r *Report) { r.Rejections = append(r.Rejections, *rejection) })
			return nil
		}
		sets = append(sets, set)
		p.progress.update(func(r *Report) { r.Transformed++ })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// load persists each row set in its own transaction. A store-unavailable
// error aborts the run; any other per-study error is recorded and the run
// moves on to the next study.
func (p *Pipeline) load(ctx context.Context, sets []*transform.RowSet) error {
	logger := common.Logger()
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := p.store.LoadStudy(ctx, set)
		if err != nil {
			if errors.Is(err, sqlite.ErrStoreUnavailable) {
				return err
			}
			logger.Warn("pipeline: study load failed", "nct_id", set.Study.NCTID, "error", err)
			p.progress.update(func(r *Report) {
				r.LoadFailures = append(r.LoadFailures, LoadFailure{NCTID: set.Study.NCTID, Error: err.Error()})
			})
			continue
		}
		p.progress.update(func(r *Report) {
			r.Loaded++
			r.LoadStats.Add(outcome)
		})
	}
	return nil
}

func (p *Pipeline) fail(err error) (Report, error) {
	p.progress.update(func(r *Report) {
		r.State = StateFailed
		r.Error = err.Error()
		r.FinishedAt = time.Now().UTC()
	})
	common.Logger().Error("pipeline: run failed", "run_id", p.progress.Snapshot().RunID, "error", err)
	return p.progress.Snapshot(), err
}
