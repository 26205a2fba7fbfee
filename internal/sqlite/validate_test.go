// File path: internal/sqlite/validate_test.go
package sqlite

import (
	"context"
	"testing"

	"github.com/mkarlsen/trialstream/internal/transform"
)

func TestValidateCleanStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadStudy(ctx, rowSetFixture("NCT200")); err != nil {
		t.Fatalf("load: %v", err)
	}
	report, err := store.Validate(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.OrphanTotal() != 0 {
		t.Errorf("orphans = %d, want 0", report.OrphanTotal())
	}
	if report.DuplicateNCTIDs != 0 {
		t.Errorf("duplicates = %d, want 0", report.DuplicateNCTIDs)
	}
	if report.DateViolations != 0 {
		t.Errorf("date violations = %d, want 0", report.DateViolations)
	}
	if report.LeadAnomalies != 0 {
		t.Errorf("lead anomalies = %d, want 0", report.LeadAnomalies)
	}
	if report.StartDateCoverage != 100 {
		t.Errorf("start date coverage = %v, want 100", report.StartDateCoverage)
	}
}

func TestValidateFlagsDateViolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	set := rowSetFixture("NCT201")
	set.Study.StartDate = "2020-05-01"
	set.Study.CompletionDate = "2019-01-01"
	if _, err := store.LoadStudy(ctx, set); err != nil {
		t.Fatalf("load: %v", err)
	}
	report, err := store.Validate(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.DateViolations != 1 {
		t.Errorf("date violations = %d, want 1", report.DateViolations)
	}
}

func TestValidateFlagsLeadAnomalies(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// No lead sponsor at all.
	zeroLead := rowSetFixture("NCT202")
	zeroLead.Sponsors = []transform.SponsorRow{
		{Agency: "Pharma Co", AgencyClass: "INDUSTRY", Role: transform.RoleCollaborator},
	}
	if _, err := store.LoadStudy(ctx, zeroLead); err != nil {
		t.Fatalf("load zero-lead: %v", err)
	}
	// Two lead sponsors.
	twoLeads := rowSetFixture("NCT203")
	twoLeads.Sponsors = []transform.SponsorRow{
		{Agency: "Hospital A", Role: transform.RoleLead},
		{Agency: "Hospital B", Role: transform.RoleLead},
	}
	if _, err := store.LoadStudy(ctx, twoLeads); err != nil {
		t.Fatalf("load two-lead: %v", err)
	}
	// Exactly one lead, must not be flagged.
	if _, err := store.LoadStudy(ctx, rowSetFixture("NCT204")); err != nil {
		t.Fatalf("load clean: %v", err)
	}

	report, err := store.Validate(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.LeadAnomalies != 2 {
		t.Errorf("lead anomalies = %d, want 2", report.LeadAnomalies)
	}
}

func TestValidateFlagsChildlessStudy(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bare := rowSetFixture("NCT205")
	bare.Conditions = nil
	bare.Sponsors = nil
	bare.Locations = nil
	bare.Design = nil
	if _, err := store.LoadStudy(ctx, bare); err != nil {
		t.Fatalf("load: %v", err)
	}
	report, err := store.Validate(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.ChildlessStudies != 1 {
		t.Errorf("childless studies = %d, want 1", report.ChildlessStudies)
	}
}

func TestValidateFlagsOrphanRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadStudy(ctx, rowSetFixture("NCT206")); err != nil {
		t.Fatalf("load: %v", err)
	}
	// Plant an orphan on a dedicated connection with enforcement off; the
	// validator has to catch what the constraint would normally prevent.
	conn, err := store.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn.Close()
	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		t.Fatalf("disable fk: %v", err)
	}
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO conditions(study_id, condition_name) VALUES(999999, 'Orphaned')`); err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	report, err := store.Validate(ctx)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.OrphanConditions != 1 {
		t.Errorf("orphan conditions = %d, want 1", report.OrphanConditions)
	}
	if report.OrphanTotal() != 1 {
		t.Errorf("orphan total = %d, want 1", report.OrphanTotal())
	}
}
