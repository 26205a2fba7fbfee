// File path: internal/sqlite/loader.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mkarlsen/trialstream/internal/transform"
)

// LoadOutcome reports what a single-study load did to the store.
type LoadOutcome struct {
	StudyID  int64
	Inserted bool
	Updated  bool
}

// LoadStats aggregates outcomes across a run.
type LoadStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Add folds one outcome into the aggregate.
func (s *LoadStats) Add(out LoadOutcome) {
	switch {
	case out.Inserted:
		s.Inserted++
	case out.Updated:
		s.Updated++
	default:
		s.Skipped++
	}
}

// LoadStudy persists one transformed row-set inside a single transaction:
// the parent study row first (upsert keyed on nct_id), then every child
// row referencing the persisted study_id. Re-loading an existing study
// updates its mutable fields and replaces all child rows, so repeated runs
// with possibly-changed upstream data stay idempotent. A failure rolls the
// whole study back and leaves previously committed studies untouched.
func (s *Store) LoadStudy(ctx context.Context, set *transform.RowSet) (LoadOutcome, error) {
	if s == nil || s.db == nil {
		return LoadOutcome{}, ErrStoreUnavailable
	}
	if set == nil {
		return LoadOutcome{}, errors.New("nil row set")
	}
	var outcome LoadOutcome
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		existing, err := studyIDByNCT(ctx, tx, set.Study.NCTID)
		if err != nil {
			return err
		}
		studyID, err := upsertStudy(ctx, tx, set.Study)
		if err != nil {
			return err
		}
		outcome.StudyID = studyID
		outcome.Inserted = existing == 0
		outcome.Updated = existing != 0
		if err := replaceChildren(ctx, tx, studyID, set); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return LoadOutcome{}, err
	}
	return outcome, nil
}

func studyIDByNCT(ctx context.Context, tx *sqlx.Tx, nctID string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT study_id FROM studies WHERE nct_id = ?`, nctID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup study %s: %w", nctID, err)
	}
	return id, nil
}

func upsertStudy(ctx context.Context, tx *sqlx.Tx, row transform.StudyRow) (int64, error) {
	query := `INSERT INTO studies(
                nct_id, acronym, title, brief_summary, status, phase, phase_group,
                study_type, start_date, completion_date, primary_completion_date,
                enrollment, enrollment_type, sex, minimum_age, maximum_age, healthy_volunteers)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(nct_id) DO UPDATE SET
                acronym = excluded.acronym,
                title = excluded.title,
                brief_summary = excluded.brief_summary,
                status = excluded.status,
                phase = excluded.phase,
                phase_group = excluded.phase_group,
                study_type = excluded.study_type,
                start_date = excluded.start_date,
                completion_date = excluded.completion_date,
                primary_completion_date = excluded.primary_completion_date,
                enrollment = excluded.enrollment,
                enrollment_type = excluded.enrollment_type,
                sex = excluded.sex,
                minimum_age = excluded.minimum_age,
                maximum_age = excluded.maximum_age,
                healthy_volunteers = excluded.healthy_volunteers,
                updated_at = CURRENT_TIMESTAMP`
	var enrollment any
	if row.Enrollment != nil {
		enrollment = *row.Enrollment
	}
	var healthy any
	if row.HealthyVolunteers != nil {
		healthy = *row.HealthyVolunteers
	}
	if _, err := tx.ExecContext(ctx, query,
		row.NCTID,
		nullIfEmpty(row.Acronym),
		nullIfEmpty(row.Title),
		nullIfEmpty(row.BriefSummary),
		nullIfEmpty(row.Status),
		nullIfEmpty(row.Phase),
		nullIfEmpty(row.PhaseGroup),
		nullIfEmpty(row.StudyType),
		nullIfEmpty(row.StartDate),
		nullIfEmpty(row.CompletionDate),
		nullIfEmpty(row.PrimaryCompletionDate),
		enrollment,
		nullIfEmpty(row.EnrollmentType),
		nullIfEmpty(row.Sex),
		nullIfEmpty(row.MinimumAge),
		nullIfEmpty(row.MaximumAge),
		healthy,
	); err != nil {
		return 0, fmt.Errorf("upsert study %s: %w", row.NCTID, err)
	}
	var studyID int64
	if err := tx.GetContext(ctx, &studyID, `SELECT study_id FROM studies WHERE nct_id = ?`, row.NCTID); err != nil {
		return 0, fmt.Errorf("load study id %s: %w", row.NCTID, err)
	}
	return studyID, nil
}

// replaceChildren deletes and reinserts every child row for the study.
// Delete-then-reinsert keeps re-runs free of stale or duplicated children.
func replaceChildren(ctx context.Context, tx *sqlx.Tx, studyID int64, set *transform.RowSet) error {
	for _, table := range []string{"conditions", "sponsors", "locations", "study_design"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE study_id = ?`, table), studyID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, condition := range set.Conditions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conditions(study_id, condition_name, mesh_term) VALUES(?, ?, ?)`,
			studyID, condition.Name, nullIfEmpty(condition.MeshTerm)); err != nil {
			return fmt.Errorf("insert condition: %w", err)
		}
	}
	for _, sponsor := range set.Sponsors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sponsors(study_id, agency, agency_class, lead_or_collaborator) VALUES(?, ?, ?, ?)`,
			studyID, sponsor.Agency, nullIfEmpty(sponsor.AgencyClass), sponsor.Role); err != nil {
			return fmt.Errorf("insert sponsor: %w", err)
		}
	}
	for _, location := range set.Locations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations(study_id, facility, city, state, zip_code, country, continent, status)
                        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			studyID,
			nullIfEmpty(location.Facility),
			nullIfEmpty(location.City),
			nullIfEmpty(location.State),
			nullIfEmpty(location.ZipCode),
			nullIfEmpty(location.Country),
			nullIfEmpty(location.Continent),
			nullIfEmpty(location.Status)); err != nil {
			return fmt.Errorf("insert location: %w", err)
		}
	}
	if design := set.Design; design != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO study_design(study_id, allocation, intervention_model, masking, primary_purpose, observational_model, time_perspective)
                        VALUES(?, ?, ?, ?, ?, ?, ?)`,
			studyID,
			nullIfEmpty(design.Allocation),
			nullIfEmpty(design.InterventionModel),
			nullIfEmpty(design.Masking),
			nullIfEmpty(design.PrimaryPurpose),
			nullIfEmpty(design.ObservationalModel),
			nullIfEmpty(design.TimePerspective)); err != nil {
			return fmt.Errorf("insert study design: %w", err)
		}
	}
	return nil
}
