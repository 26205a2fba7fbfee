// File path: internal/sqlite/queries.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Summary aggregates row counts and distributions across the loaded
// registry tables.
type Summary struct {
	Studies       int            `json:"studies"`
	Conditions    int            `json:"conditions"`
	Sponsors      int            `json:"sponsors"`
	Locations     int            `json:"locations"`
	StudyDesigns  int            `json:"study_designs"`
	ByStatus      map[string]int `json:"by_status"`
	ByPhaseGroup  map[string]int `json:"by_phase_group"`
	TopConditions []NameCount    `json:"top_conditions"`
}

// NameCount pairs a label with the number of rows carrying it.
type NameCount struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// TableCounts returns the current row count for each registry table.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	counts := map[string]int{}
	for _, table := range []string{"studies", "conditions", "sponsors", "locations", "study_design"} {
		var n int
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Summarize builds a Summary of the loaded data for reports and the API.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	counts, err := s.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Studies:      counts["studies"],
		Conditions:   counts["conditions"],
		Sponsors:     counts["sponsors"],
		Locations:    counts["locations"],
		StudyDesigns: counts["study_design"],
	}
	summary.ByStatus, err = s.distribution(ctx, `SELECT COALESCE(NULLIF(status, ''), 'UNKNOWN') AS name, COUNT(*) AS count FROM studies GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}
	summary.ByPhaseGroup, err = s.distribution(ctx, `SELECT COALESCE(NULLIF(phase_group, ''), 'Unspecified') AS name, COUNT(*) AS count FROM studies GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("phase group distribution: %w", err)
	}
	topConditions := []NameCount{}
	if err := s.db.SelectContext(ctx, &topConditions, `SELECT condition_name AS name, COUNT(*) AS count FROM conditions GROUP BY condition_name ORDER BY count DESC, name LIMIT 10`); err != nil {
		return nil, fmt.Errorf("top conditions: %w", err)
	}
	summary.TopConditions = topConditions
	return summary, nil
}

// StudyByNCTID retrieves a single study row by its registry identifier.
func (s *Store) StudyByNCTID(ctx context.Context, nctID string) (*StudyRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	var study StudyRecord
	if err := s.db.GetContext(ctx, &study, `SELECT * FROM studies WHERE nct_id = ?`, nctID); err != nil {
		return nil, err
	}
	return &study, nil
}

// ConditionsForStudy returns the persisted condition rows for a study.
func (s *Store) ConditionsForStudy(ctx context.Context, studyID int64) ([]ConditionRecord, error) {
	conditions := []ConditionRecord{}
	if err := s.db.SelectContext(ctx, &conditions, `SELECT * FROM conditions WHERE study_id = ? ORDER BY condition_name`, studyID); err != nil {
		return nil, fmt.Errorf("select conditions: %w", err)
	}
	return conditions, nil
}

// SponsorsForStudy returns the persisted sponsor rows for a study, lead
// first.
func (s *Store) SponsorsForStudy(ctx context.Context, studyID int64) ([]SponsorRecord, error) {
	sponsors := []SponsorRecord{}
	if err := s.db.SelectContext(ctx, &sponsors, `SELECT * FROM sponsors WHERE study_id = ? ORDER BY lead_or_collaborator DESC, agency`, studyID); err != nil {
		return nil, fmt.Errorf("select sponsors: %w", err)
	}
	return sponsors, nil
}

// LocationsForStudy returns the persisted location rows for a study.
func (s *Store) LocationsForStudy(ctx context.Context, studyID int64) ([]LocationRecord, error) {
	locations := []LocationRecord{}
	if err := s.db.SelectContext(ctx, &locations, `SELECT * FROM locations WHERE study_id = ? ORDER BY country, city, facility`, studyID); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	return locations, nil
}

// DesignForStudy returns the study_design row, or nil when none exists.
func (s *Store) DesignForStudy(ctx context.Context, studyID int64) (*StudyDesignRecord, error) {
	var design StudyDesignRecord
	err := s.db.GetContext(ctx, &design, `SELECT * FROM study_design WHERE study_id = ?`, studyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select study design: %w", err)
	}
	return &design, nil
}

func (s *Store) distribution(ctx context.Context, query string) (map[string]int, error) {
	rows := []NameCount{}
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	dist := make(map[string]int, len(rows))
	for _, row := range rows {
		dist[row.Name] = row.Count
	}
	return dist, nil
}
