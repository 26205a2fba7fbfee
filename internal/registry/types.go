// File path: internal/registry/types.go
package registry

import "encoding/json"

// Page is one paginated response from the registry's /studies endpoint. The
// records are kept raw so they can be archived verbatim; the transformer
// decodes each into a Study.
type Page struct {
	Studies       []json.RawMessage `json:"studies"`
	NextPageToken string            `json:"nextPageToken"`
}

// Study is the typed shape of a single registry record, limited to the
// modules the pipeline consumes. Optional sub-objects are pointers so absent
// modules stay distinguishable from empty ones.
type Study struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
}

type ProtocolSection struct {
	Identification    IdentificationModule       `json:"identificationModule"`
	Status            StatusMod                  `json:"statusModule"`
	Design            DesignModule               `json:"designModule"`
	Conditions        ConditionsModule           `json:"conditionsModule"`
	Sponsors          SponsorCollaboratorsModule `json:"sponsorCollaboratorsModule"`
	ContactsLocations ContactsLocationsModule    `json:"contactsLocationsModule"`
	Description       DescriptionModule          `json:"descriptionModule"`
	Eligibility       EligibilityModule          `json:"eligibilityModule"`
}

type IdentificationModule struct {
	NCTID      string `json:"nctId"`
	Acronym    string `json:"acronym"`
	BriefTitle string `json:"briefTitle"`
}

// DateStruct wraps the registry's partial-precision date values. Date may be
// YYYY, YYYY-MM, or YYYY-MM-DD.
type DateStruct struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type StatusMod struct {
	OverallStatus         string      `json:"overallStatus"`
	StartDate             *DateStruct `json:"startDateStruct"`
	CompletionDate        *DateStruct `json:"completionDateStruct"`
	PrimaryCompletionDate *DateStruct `json:"primaryCompletionDateStruct"`
}

type EnrollmentInfo struct {
	Count *int   `json:"count"`
	Type  string `json:"type"`
}

type MaskingInfo struct {
	Masking string `json:"masking"`
}

type DesignInfo struct {
	Allocation         string       `json:"allocation"`
	InterventionModel  string       `json:"interventionModel"`
	PrimaryPurpose     string       `json:"primaryPurpose"`
	ObservationalModel string       `json:"observationalModel"`
	TimePerspective    string       `json:"timePerspective"`
	Masking            *MaskingInfo `json:"maskingInfo"`
}

type DesignModule struct {
	StudyType  string          `json:"studyType"`
	Phases     []string        `json:"phases"`
	Enrollment *EnrollmentInfo `json:"enrollmentInfo"`
	Info       *DesignInfo     `json:"designInfo"`
}

type ConditionsModule struct {
	Conditions []string `json:"conditions"`
}

type Agency struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type SponsorCollaboratorsModule struct {
	LeadSponsor   *Agency  `json:"leadSponsor"`
	Collaborators []Agency `json:"collaborators"`
}

type Site struct {
	Facility string `json:"facility"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Status   string `json:"status"`
}

type ContactsLocationsModule struct {
	Locations []Site `json:"locations"`
}

type DescriptionModule struct {
	BriefSummary string `json:"briefSummary"`
}

type EligibilityModule struct {
	Sex               string `json:"sex"`
	MinimumAge        string `json:"minimumAge"`
	MaximumAge        string `json:"maximumAge"`
	HealthyVolunteers *bool  `json:"healthyVolunteers"`
}
