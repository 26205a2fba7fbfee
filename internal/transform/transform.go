// File path: internal/transform/transform.go
package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mkarlsen/trialstream/internal/registry"
)

// Record decodes one raw registry record and maps it into a RowSet. The
// function is pure: it touches nothing outside its arguments and never
// panics on malformed input. A record that cannot be minimally parsed (bad
// JSON, missing natural key, negative enrollment) is returned as a
// Rejection instead of a RowSet; exactly one of the results is non-nil.
func Record(raw json.RawMessage) (*RowSet, *Rejection) {
	var study registry.Study
	if err := json.Unmarshal(raw, &study); err != nil {
		return nil, &Rejection{Reason: fmt.Sprintf("decode record: %v", err)}
	}
	return Study(study)
}

// Study maps an already-decoded registry record.
func Study(study registry.Study) (*RowSet, *Rejection) {
	proto := study.ProtocolSection
	nctID := strings.TrimSpace(proto.Identification.NCTID)
	if nctID == "" {
		return nil, &Rejection{Reason: "missing nct_id"}
	}

	row := StudyRow{
		NCTID:        nctID,
		Acronym:      strings.TrimSpace(proto.Identification.Acronym),
		Title:        strings.TrimSpace(proto.Identification.BriefTitle),
		BriefSummary: strings.TrimSpace(proto.Description.BriefSummary),
		Status:       NormalizeStatus(proto.Status.OverallStatus),
		StudyType:    strings.TrimSpace(proto.Design.StudyType),
		Sex:          strings.TrimSpace(proto.Eligibility.Sex),
		MinimumAge:   strings.TrimSpace(proto.Eligibility.MinimumAge),
		MaximumAge:   strings.TrimSpace(proto.Eligibility.MaximumAge),
	}
	row.HealthyVolunteers = proto.Eligibility.HealthyVolunteers

	row.Phase = JoinPhases(proto.Design.Phases)
	row.PhaseGroup = ClassifyPhase(row.Phase)

	if proto.Status.StartDate != nil {
		row.StartDate = NormalizeDate(proto.Status.StartDate.Date)
	}
	if proto.Status.CompletionDate != nil {
		row.CompletionDate = NormalizeDate(proto.Status.CompletionDate.Date)
	}
	if proto.Status.PrimaryCompletionDate != nil {
		row.PrimaryCompletionDate = NormalizeDate(proto.Status.PrimaryCompletionDate.Date)
	}

	if info := proto.Design.Enrollment; info != nil {
		if info.Count != nil && *info.Count < 0 {
			return nil, &Rejection{NCTID: nctID, Reason: fmt.Sprintf("negative enrollment %d", *info.Count)}
		}
		row.Enrollment = info.Count
		row.EnrollmentType = strings.TrimSpace(info.Type)
	}

	set := &RowSet{
		Study:      row,
		Conditions: conditionRows(proto.Conditions),
		Sponsors:   sponsorRows(proto.Sponsors),
		Locations:  locationRows(proto.ContactsLocations),
		Design:     designRow(proto.Design),
	}
	return set, nil
}

func conditionRows(module registry.ConditionsModule) []ConditionRow {
	rows := make([]ConditionRow, 0, len(module.Conditions))
	seen := make(map[string]struct{}, len(module.Conditions))
	for _, name := range module.Conditions {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := dedupKey(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		// MeSH terms are not published by the v2 API; the column stays
		// null until a vocabulary join fills it downstream.
		rows = append(rows, ConditionRow{Name: trimmed})
	}
	return rows
}

func sponsorRows(module registry.SponsorCollaboratorsModule) []SponsorRow {
	var rows []SponsorRow
	seen := make(map[string]struct{})
	appendRow := func(agency registry.Agency, role string) {
		name := strings.TrimSpace(agency.Name)
		if name == "" {
			return
		}
		key := role + "\x00" + dedupKey(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		rows = append(rows, SponsorRow{
			Agency:      name,
			AgencyClass: NormalizeAgencyClass(agency.Class),
			Role:        role,
		})
	}
	if module.LeadSponsor != nil {
		appendRow(*module.LeadSponsor, RoleLead)
	}
	for _, collaborator := range module.Collaborators {
		appendRow(collaborator, RoleCollaborator)
	}
	return rows
}

func locationRows(module registry.ContactsLocationsModule) []LocationRow {
	rows := make([]LocationRow, 0, len(module.Locations))
	seen := make(map[string]struct{}, len(module.Locations))
	for _, site := range module.Locations {
		row := LocationRow{
			Facility: strings.TrimSpace(site.Facility),
			City:     strings.TrimSpace(site.City),
			State:    strings.TrimSpace(site.State),
			ZipCode:  strings.TrimSpace(site.Zip),
			Country:  strings.TrimSpace(site.Country),
			Status:   strings.TrimSpace(site.Status),
		}
		if row.Facility == "" && row.City == "" && row.Country == "" {
			continue
		}
		row.Continent = ContinentForCountry(row.Country)
		key := dedupKey(row.Facility) + "\x00" + dedupKey(row.City) + "\x00" + dedupKey(row.Country)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}

func designRow(module registry.DesignModule) *StudyDesignRow {
	info := module.Info
	if info == nil {
		return nil
	}
	row := StudyDesignRow{
		Allocation:         strings.TrimSpace(info.Allocation),
		InterventionModel:  strings.TrimSpace(info.InterventionModel),
		PrimaryPurpose:     strings.TrimSpace(info.PrimaryPurpose),
		ObservationalModel: strings.TrimSpace(info.ObservationalModel),
		TimePerspective:    strings.TrimSpace(info.TimePerspective),
	}
	if info.Masking != nil {
		row.Masking = strings.TrimSpace(info.Masking.Masking)
	}
	if row == (StudyDesignRow{}) {
		return nil
	}
	return &row
}

// dedupKey collapses case and interior whitespace so duplicate labels
// within one record fold to a single row.
func dedupKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
