// File path: internal/sqlite/types.go
package sqlite

import "database/sql"

// StudyRecord is a persisted studies row.
type StudyRecord struct {
	StudyID               int64          `db:"study_id"`
	NCTID                 string         `db:"nct_id"`
	Acronym               sql.NullString `db:"acronym"`
	Title                 sql.NullString `db:"title"`
	BriefSummary          sql.NullString `db:"brief_summary"`
	Status                sql.NullString `db:"status"`
	Phase                 sql.NullString `db:"phase"`
	PhaseGroup            sql.NullString `db:"phase_group"`
	StudyType             sql.NullString `db:"study_type"`
	StartDate             sql.NullString `db:"start_date"`
	CompletionDate        sql.NullString `db:"completion_date"`
	PrimaryCompletionDate sql.NullString `db:"primary_completion_date"`
	Enrollment            sql.NullInt64  `db:"enrollment"`
	EnrollmentType        sql.NullString `db:"enrollment_type"`
	Sex                   sql.NullString `db:"sex"`
	MinimumAge            sql.NullString `db:"minimum_age"`
	MaximumAge            sql.NullString `db:"maximum_age"`
	HealthyVolunteers     sql.NullBool   `db:"healthy_volunteers"`
	CreatedAt             string         `db:"created_at"`
	UpdatedAt             string         `db:"updated_at"`
}

// ConditionRecord is a persisted conditions row.
type ConditionRecord struct {
	ConditionID   int64          `db:"condition_id"`
	StudyID       int64          `db:"study_id"`
	ConditionName string         `db:"condition_name"`
	MeshTerm      sql.NullString `db:"mesh_term"`
}

// SponsorRecord is a persisted sponsors row.
type SponsorRecord struct {
	SponsorID          int64          `db:"sponsor_id"`
	StudyID            int64          `db:"study_id"`
	Agency             string         `db:"agency"`
	AgencyClass        sql.NullString `db:"agency_class"`
	LeadOrCollaborator string         `db:"lead_or_collaborator"`
}

// LocationRecord is a persisted locations row.
type LocationRecord struct {
	LocationID int64          `db:"location_id"`
	StudyID    int64          `db:"study_id"`
	Facility   sql.NullString `db:"facility"`
	City       sql.NullString `db:"city"`
	State      sql.NullString `db:"state"`
	ZipCode    sql.NullString `db:"zip_code"`
	Country    sql.NullString `db:"country"`
	Continent  sql.NullString `db:"continent"`
	Status     sql.NullString `db:"status"`
}

// StudyDesignRecord is a persisted study_design row.
type StudyDesignRecord struct {
	DesignID           int64          `db:"design_id"`
	StudyID            int64          `db:"study_id"`
	Allocation         sql.NullString `db:"allocation"`
	InterventionModel  sql.NullString `db:"intervention_model"`
	Masking            sql.NullString `db:"masking"`
	PrimaryPurpose     sql.NullString `db:"primary_purpose"`
	ObservationalModel sql.NullString `db:"observational_model"`
	TimePerspective    sql.NullString `db:"time_perspective"`
}
