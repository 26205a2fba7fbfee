// File path: internal/transform/rows.go
package transform

// StudyRow is the normalized parent row for one registry record. Nullable
// text columns use "" as the null marker; the loader converts them to SQL
// NULL.
type StudyRow struct {
	NCTID                 string
	Acronym               string
	Title                 string
	BriefSummary          string
	Status                string
	Phase                 string
	PhaseGroup            string
	StudyType             string
	StartDate             string
	CompletionDate        string
	PrimaryCompletionDate string
	Enrollment            *int
	EnrollmentType        string
	Sex                   string
	MinimumAge            string
	MaximumAge            string
	HealthyVolunteers     *bool
}

type ConditionRow struct {
	Name     string
	MeshTerm string
}

type SponsorRow struct {
	Agency      string
	AgencyClass string
	Role        string
}

// Sponsor roles form a closed enum.
const (
	RoleLead         = "Lead"
	RoleCollaborator = "Collaborator"
)

type LocationRow struct {
	Facility  string
	City      string
	State     string
	ZipCode   string
	Country   string
	Continent string
	Status    string
}

type StudyDesignRow struct {
	Allocation         string
	InterventionModel  string
	Masking            string
	PrimaryPurpose     string
	ObservationalModel string
	TimePerspective    string
}

// RowSet is everything one raw record contributes to the relational store:
// exactly one study row plus its child rows.
type RowSet struct {
	Study      StudyRow
	Conditions []ConditionRow
	Sponsors   []SponsorRow
	Locations  []LocationRow
	Design     *StudyDesignRow
}

// Rejection reports a record that could not be minimally parsed. NCTID may
// be empty when the natural key itself was missing.
type Rejection struct {
	NCTID  string `json:"nct_id,omitempty"`
	Reason string `json:"reason"`
}
