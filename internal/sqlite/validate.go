// File path: internal/sqlite/validate.go
package sqlite

import (
	"context"
	"fmt"

	"github.com/mkarlsen/trialstream/internal/common"
)

// ValidationReport summarizes the post-load consistency checks. Findings
// are advisory data-quality signals; none of them fails a run on its own,
// and nothing is auto-corrected (the upstream registry itself contains
// inconsistencies worth surfacing).
type ValidationReport struct {
	Counts map[string]int `json:"counts"`

	OrphanConditions  int     `json:"orphan_conditions"`
	OrphanSponsors    int     `json:"orphan_sponsors"`
	OrphanLocations   int     `json:"orphan_locations"`
	OrphanDesigns     int     `json:"orphan_designs"`
	DuplicateNCTIDs   int     `json:"duplicate_nct_ids"`
	DateViolations    int     `json:"date_order_violations"`
	ChildlessStudies  int     `json:"childless_studies"`
	LeadAnomalies     int     `json:"lead_sponsor_anomalies"`
	StartDateCoverage float64 `json:"start_date_coverage_pct"`
}

// OrphanTotal sums orphan foreign keys across all child tables.
func (r *ValidationReport) OrphanTotal() int {
	return r.OrphanConditions + r.OrphanSponsors + r.OrphanLocations + r.OrphanDesigns
}

// Validate runs the read-only consistency checks against the loaded store.
func (s *Store) Validate(ctx context.Context) (*ValidationReport, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}
	logger := common.Logger()
	report := &ValidationReport{Counts: make(map[string]int)}

	for _, table := range []string{"studies", "conditions", "sponsors", "locations", "study_design"} {
		var count int
		if err := s.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		report.Counts[table] = count
	}

	orphans := []struct {
		table string
		out   *int
	}{
		{"conditions", &report.OrphanConditions},
		{"sponsors", &report.OrphanSponsors},
		{"locations", &report.OrphanLocations},
		{"study_design", &report.OrphanDesigns},
	}
	for _, check := range orphans {
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s c
                LEFT JOIN studies s ON c.study_id = s.study_id
                WHERE s.study_id IS NULL`, check.table)
		if err := s.db.GetContext(ctx, check.out, query); err != nil {
			return nil, fmt.Errorf("orphan check %s: %w", check.table, err)
		}
	}

	if err := s.db.GetContext(ctx, &report.DuplicateNCTIDs,
		`SELECT COUNT(*) - COUNT(DISTINCT nct_id) FROM studies`); err != nil {
		return nil, fmt.Errorf("duplicate natural key check: %w", err)
	}

	if err := s.db.GetContext(ctx, &report.DateViolations,
		`SELECT COUNT(*) FROM studies
                WHERE start_date IS NOT NULL
                  AND completion_date IS NOT NULL
                  AND completion_date < start_date`); err != nil {
		return nil, fmt.Errorf("date order check: %w", err)
	}

	if err := s.db.GetContext(ctx, &report.ChildlessStudies,
		`SELECT COUNT(*) FROM studies s
                WHERE NOT EXISTS (SELECT 1 FROM conditions c WHERE c.study_id = s.study_id)
                  AND NOT EXISTS (SELECT 1 FROM sponsors sp WHERE sp.study_id = s.study_id)
                  AND NOT EXISTS (SELECT 1 FROM locations l WHERE l.study_id = s.study_id)`); err != nil {
		return nil, fmt.Errorf("childless study check: %w", err)
	}

	// The source data does not guarantee exactly one lead sponsor per
	// study; zero or several leads is surfaced, never resolved.
	if err := s.db.GetContext(ctx, &report.LeadAnomalies,
		`SELECT COUNT(*) FROM (
                        SELECT s.study_id,
                               SUM(CASE WHEN sp.lead_or_collaborator = 'Lead' THEN 1 ELSE 0 END) AS leads
                        FROM studies s
                        LEFT JOIN sponsors sp ON sp.study_id = s.study_id
                        GROUP BY s.study_id
                        HAVING leads != 1
                )`); err != nil {
		return nil, fmt.Errorf("lead sponsor check: %w", err)
	}

	if total := report.Counts["studies"]; total > 0 {
		var withStart int
		if err := s.db.GetContext(ctx, &withStart,
			`SELECT COUNT(*) FROM studies WHERE start_date IS NOT NULL`); err != nil {
			return nil, fmt.Errorf("start date coverage: %w", err)
		}
		report.StartDateCoverage = float64(withStart) / float64(total) * 100
	}

	logger.Info("validate: checks complete",
		"studies", report.Counts["studies"],
		"orphans", report.OrphanTotal(),
		"duplicate_nct_ids", report.DuplicateNCTIDs,
		"date_violations", report.DateViolations,
		"lead_anomalies", report.LeadAnomalies)
	return report, nil
}
