// File path: internal/api/types.go
package api

import (
	"database/sql"

	"github.com/mkarlsen/trialstream/internal/sqlite"
)

// StudyView is the wire shape of a study row. Nullable columns come out as
// absent fields instead of sql.Null wrappers.
type StudyView struct {
	NCTID                 string  `json:"nct_id"`
	Acronym               *string `json:"acronym,omitempty"`
	Title                 *string `json:"title,omitempty"`
	BriefSummary          *string `json:"brief_summary,omitempty"`
	Status                *string `json:"status,omitempty"`
	Phase                 *string `json:"phase,omitempty"`
	PhaseGroup            *string `json:"phase_group,omitempty"`
	StudyType             *string `json:"study_type,omitempty"`
	StartDate             *string `json:"start_date,omitempty"`
	CompletionDate        *string `json:"completion_date,omitempty"`
	PrimaryCompletionDate *string `json:"primary_completion_date,omitempty"`
	Enrollment            *int64  `json:"enrollment,omitempty"`
	EnrollmentType        *string `json:"enrollment_type,omitempty"`
	Sex                   *string `json:"sex,omitempty"`
	MinimumAge            *string `json:"minimum_age,omitempty"`
	MaximumAge            *string `json:"maximum_age,omitempty"`
	HealthyVolunteers     *bool   `json:"healthy_volunteers,omitempty"`
	UpdatedAt             string  `json:"updated_at"`
}

// StudyDetail bundles a study with its child rows.
type StudyDetail struct {
	StudyView
	Conditions []ConditionView `json:"conditions,omitempty"`
	Sponsors   []SponsorView   `json:"sponsors,omitempty"`
	Locations  []LocationView  `json:"locations,omitempty"`
	Design     *DesignView     `json:"design,omitempty"`
}

type ConditionView struct {
	Name     string  `json:"name"`
	MeshTerm *string `json:"mesh_term,omitempty"`
}

type SponsorView struct {
	Agency      string  `json:"agency"`
	AgencyClass *string `json:"agency_class,omitempty"`
	Role        string  `json:"role"`
}

type LocationView struct {
	Facility  *string `json:"facility,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	Country   *string `json:"country,omitempty"`
	Continent *string `json:"continent,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type DesignView struct {
	Allocation         *string `json:"allocation,omitempty"`
	InterventionModel  *string `json:"intervention_model,omitempty"`
	Masking            *string `json:"masking,omitempty"`
	PrimaryPurpose     *string `json:"primary_purpose,omitempty"`
	ObservationalModel *string `json:"observational_model,omitempty"`
	TimePerspective    *string `json:"time_perspective,omitempty"`
}

func newConditionViews(records []sqlite.ConditionRecord) []ConditionView {
	views := make([]ConditionView, 0, len(records))
	for _, record := range records {
		views = append(views, ConditionView{Name: record.ConditionName, MeshTerm: nullStr(record.MeshTerm)})
	}
	return views
}

func newSponsorViews(records []sqlite.SponsorRecord) []SponsorView {
	views := make([]SponsorView, 0, len(records))
	for _, record := range records {
		views = append(views, SponsorView{
			Agency:      record.Agency,
			AgencyClass: nullStr(record.AgencyClass),
			Role:        record.LeadOrCollaborator,
		})
	}
	return views
}

func newLocationViews(records []sqlite.LocationRecord) []LocationView {
	views := make([]LocationView, 0, len(records))
	for _, record := range records {
		views = append(views, LocationView{
			Facility:  nullStr(record.Facility),
			City:      nullStr(record.City),
			State:     nullStr(record.State),
			ZipCode:   nullStr(record.ZipCode),
			Country:   nullStr(record.Country),
			Continent: nullStr(record.Continent),
			Status:    nullStr(record.Status),
		})
	}
	return views
}

func newDesignView(record *sqlite.StudyDesignRecord) *DesignView {
	if record == nil {
		return nil
	}
	return &DesignView{
		Allocation:         nullStr(record.Allocation),
		InterventionModel:  nullStr(record.InterventionModel),
		Masking:            nullStr(record.Masking),
		PrimaryPurpose:     nullStr(record.PrimaryPurpose),
		ObservationalModel: nullStr(record.ObservationalModel),
		TimePerspective:    nullStr(record.TimePerspective),
	}
}

func newStudyView(record *sqlite.StudyRecord) StudyView {
	return StudyView{
		NCTID:                 record.NCTID,
		Acronym:               nullStr(record.Acronym),
		Title:                 nullStr(record.Title),
		BriefSummary:          nullStr(record.BriefSummary),
		Status:                nullStr(record.Status),
		Phase:                 nullStr(record.Phase),
		PhaseGroup:            nullStr(record.PhaseGroup),
		StudyType:             nullStr(record.StudyType),
		StartDate:             nullStr(record.StartDate),
		CompletionDate:        nullStr(record.CompletionDate),
		PrimaryCompletionDate: nullStr(record.PrimaryCompletionDate),
		Enrollment:            nullInt(record.Enrollment),
		EnrollmentType:        nullStr(record.EnrollmentType),
		Sex:                   nullStr(record.Sex),
		MinimumAge:            nullStr(record.MinimumAge),
		MaximumAge:            nullStr(record.MaximumAge),
		HealthyVolunteers:     nullBool(record.HealthyVolunteers),
		UpdatedAt:             record.UpdatedAt,
	}
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
