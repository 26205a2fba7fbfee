// File path: internal/transform/transform_test.go
package transform

import (
	"encoding/json"
	"testing"

	"github.com/mkarlsen/trialstream/internal/registry"
)

func intPtr(v int) *int { return &v }

// studyFixture returns a decoded record with every module populated, keyed
// by the given identifier. Tests mutate the copy they get back.
func studyFixture(nctID string) registry.Study {
	return registry.Study{
		ProtocolSection: registry.ProtocolSection{
			Identification: registry.IdentificationModule{
				NCTID:      nctID,
				BriefTitle: "Fixture Trial",
			},
			Status: registry.StatusMod{
				OverallStatus: "RECRUITING",
				StartDate:     &registry.DateStruct{Date: "2019-02"},
			},
			Design: registry.DesignModule{
				StudyType:  "INTERVENTIONAL",
				Phases:     []string{"PHASE2"},
				Enrollment: &registry.EnrollmentInfo{Count: intPtr(120), Type: "ESTIMATED"},
				Info: &registry.DesignInfo{
					Allocation:        "RANDOMIZED",
					InterventionModel: "PARALLEL",
					PrimaryPurpose:    "TREATMENT",
					Masking:           &registry.MaskingInfo{Masking: "DOUBLE"},
				},
			},
			Conditions: registry.ConditionsModule{Conditions: []string{"Asthma"}},
			Sponsors: registry.SponsorCollaboratorsModule{
				LeadSponsor:   &registry.Agency{Name: "University Hospital", Class: "ACADEMIC"},
				Collaborators: []registry.Agency{{Name: "Pharma Co", Class: "INDUSTRY"}},
			},
			ContactsLocations: registry.ContactsLocationsModule{
				Locations: []registry.Site{{
					Facility: "University Clinic Berlin",
					City:     "Berlin",
					Country:  "Germany",
					Status:   "RECRUITING",
				}},
			},
			Description: registry.DescriptionModule{BriefSummary: "A fixture."},
			Eligibility: registry.EligibilityModule{Sex: "ALL", MinimumAge: "18 Years"},
		},
	}
}

func TestRecordScenario(t *testing.T) {
	raw := json.RawMessage(`{
		"protocolSection": {
			"identificationModule": {"nctId": "NCT001", "briefTitle": "Example Trial"},
			"statusModule": {
				"overallStatus": "COMPLETED",
				"startDateStruct": {"date": "2015-06"},
				"completionDateStruct": {"date": "2016"}
			},
			"designModule": {"phases": ["PHASE1", "PHASE2"]}
		}
	}`)
	set, rejection := Record(raw)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	study := set.Study
	if study.NCTID != "NCT001" {
		t.Errorf("nct_id = %q", study.NCTID)
	}
	if study.PhaseGroup != Phase1_2 {
		t.Errorf("phase_group = %q, want %q", study.PhaseGroup, Phase1_2)
	}
	if study.StartDate != "2015-06-01" {
		t.Errorf("start_date = %q, want 2015-06-01", study.StartDate)
	}
	if study.CompletionDate != "2016-01-01" {
		t.Errorf("completion_date = %q, want 2016-01-01", study.CompletionDate)
	}
	if study.Status != "COMPLETED" {
		t.Errorf("status = %q, want COMPLETED", study.Status)
	}
}

func TestRecordRejectsBadJSON(t *testing.T) {
	set, rejection := Record(json.RawMessage(`{not json`))
	if set != nil || rejection == nil {
		t.Fatalf("expected rejection, got set=%v rejection=%v", set, rejection)
	}
	if rejection.NCTID != "" {
		t.Errorf("rejection should carry no nct_id, got %q", rejection.NCTID)
	}
}

func TestRecordRejectsMissingNCTID(t *testing.T) {
	set, rejection := Record(json.RawMessage(`{"protocolSection": {"identificationModule": {"briefTitle": "No key"}}}`))
	if set != nil || rejection == nil {
		t.Fatalf("expected rejection for missing nct_id")
	}
	if rejection.Reason != "missing nct_id" {
		t.Errorf("reason = %q", rejection.Reason)
	}
}

func TestRecordRejectsNegativeEnrollment(t *testing.T) {
	raw := json.RawMessage(`{
		"protocolSection": {
			"identificationModule": {"nctId": "NCT002"},
			"designModule": {"enrollmentInfo": {"count": -5, "type": "ACTUAL"}}
		}
	}`)
	set, rejection := Record(raw)
	if set != nil || rejection == nil {
		t.Fatalf("expected rejection for negative enrollment")
	}
	if rejection.NCTID != "NCT002" {
		t.Errorf("rejection nct_id = %q, want NCT002", rejection.NCTID)
	}
}

func TestStudyNormalizesEnums(t *testing.T) {
	study := studyFixture("NCT003")
	study.ProtocolSection.Status.OverallStatus = "something weird"
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if set.Study.Status != StatusOther {
		t.Errorf("status = %q, want %q", set.Study.Status, StatusOther)
	}
}

func TestStudyDeduplicatesChildren(t *testing.T) {
	study := studyFixture("NCT004")
	study.ProtocolSection.Conditions.Conditions = []string{"Diabetes", "diabetes", "  Diabetes ", "Hypertension"}
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if len(set.Conditions) != 2 {
		t.Fatalf("conditions = %d, want 2: %+v", len(set.Conditions), set.Conditions)
	}
	if set.Conditions[0].Name != "Diabetes" || set.Conditions[1].Name != "Hypertension" {
		t.Errorf("unexpected condition rows: %+v", set.Conditions)
	}
}

func TestStudySponsorRoles(t *testing.T) {
	study := studyFixture("NCT005")
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if len(set.Sponsors) != 2 {
		t.Fatalf("sponsors = %d, want 2: %+v", len(set.Sponsors), set.Sponsors)
	}
	if set.Sponsors[0].Role != RoleLead || set.Sponsors[0].Agency != "University Hospital" {
		t.Errorf("lead sponsor row: %+v", set.Sponsors[0])
	}
	if set.Sponsors[1].Role != RoleCollaborator {
		t.Errorf("collaborator row: %+v", set.Sponsors[1])
	}
	if set.Sponsors[0].AgencyClass != AgencyClassUnknown {
		t.Errorf("unrecognized class should map to UNKNOWN, got %q", set.Sponsors[0].AgencyClass)
	}
}

func TestStudyLocationContinent(t *testing.T) {
	study := studyFixture("NCT006")
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if len(set.Locations) != 1 {
		t.Fatalf("locations = %d, want 1", len(set.Locations))
	}
	if set.Locations[0].Continent != "Europe" {
		t.Errorf("continent = %q, want Europe", set.Locations[0].Continent)
	}
}

func TestStudySkipsEmptyLocations(t *testing.T) {
	study := studyFixture("NCT007")
	study.ProtocolSection.ContactsLocations.Locations = []registry.Site{{Status: "RECRUITING"}}
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if len(set.Locations) != 0 {
		t.Errorf("expected empty location skipped, got %+v", set.Locations)
	}
}

func TestStudyDesignRowAbsentWhenEmpty(t *testing.T) {
	study := studyFixture("NCT008")
	study.ProtocolSection.Design.Info = nil
	set, rejection := Study(study)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %+v", rejection)
	}
	if set.Design != nil {
		t.Errorf("expected nil design row, got %+v", set.Design)
	}
}
