// File path: internal/transform/enums.go
package transform

import "strings"

// StatusOther buckets statuses outside the registry's known set.
const StatusOther = "OTHER"

// AgencyClassUnknown buckets sponsor classes outside the known set.
const AgencyClassUnknown = "UNKNOWN"

// The fourteen overall-status values the registry publishes.
var knownStatuses = map[string]struct{}{
	"ACTIVE_NOT_RECRUITING":     {},
	"COMPLETED":                 {},
	"ENROLLING_BY_INVITATION":   {},
	"NOT_YET_RECRUITING":        {},
	"RECRUITING":                {},
	"SUSPENDED":                 {},
	"TERMINATED":                {},
	"WITHDRAWN":                 {},
	"AVAILABLE":                 {},
	"NO_LONGER_AVAILABLE":       {},
	"TEMPORARILY_NOT_AVAILABLE": {},
	"APPROVED_FOR_MARKETING":    {},
	"WITHHELD":                  {},
	"UNKNOWN":                   {},
}

var knownAgencyClasses = map[string]struct{}{
	"NIH":       {},
	"FED":       {},
	"OTHER_GOV": {},
	"INDUSTRY":  {},
	"INDIV":     {},
	"NETWORK":   {},
	"AMBIG":     {},
	"OTHER":     {},
	"UNKNOWN":   {},
}

// NormalizeStatus passes known statuses through unchanged and maps anything
// unrecognized to the explicit OTHER bucket. Absent input stays absent.
func NormalizeStatus(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if _, ok := knownStatuses[value]; ok {
		return value
	}
	return StatusOther
}

// NormalizeAgencyClass applies the sponsor-class allow-list; unrecognized
// values fall into UNKNOWN rather than erroring.
func NormalizeAgencyClass(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if _, ok := knownAgencyClasses[value]; ok {
		return value
	}
	return AgencyClassUnknown
}
