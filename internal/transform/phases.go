// File path: internal/transform/phases.go
package transform

import "strings"

// Phase groups form the closed classification the analytical layer keys on.
const (
	PhaseNotApplicable = "Not Applicable"
	PhaseEarly1        = "Early Phase 1"
	Phase1             = "Phase 1"
	Phase1_2           = "Phase 1/2"
	Phase2             = "Phase 2"
	Phase2_3           = "Phase 2/3"
	Phase3             = "Phase 3"
	Phase4             = "Phase 4"
	PhaseOther         = "Other"
)

// JoinPhases renders the registry's phase list as the raw multi-token
// string stored on the study row.
func JoinPhases(phases []string) string {
	cleaned := make([]string, 0, len(phases))
	for _, p := range phases {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ", ")
}

// ClassifyPhase maps a raw phase string onto the closed phase-group set.
// Paired phases are checked before singletons so a record carrying both
// "phase 1" and "phase 2" tokens resolves to Phase 1/2 rather than either
// singleton; "early phase 1" is checked before "phase 1" for the same
// containment reason. An empty input returns "" (no phase reported, which
// is distinct from an explicit Not Applicable).
func ClassifyPhase(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	s := phaseKey(raw)
	switch {
	case s == "NA" || strings.Contains(s, "NOTAPPLICABLE"):
		return PhaseNotApplicable
	case strings.Contains(s, "EARLYPHASE1") || (strings.Contains(s, "EARLY") && strings.Contains(s, "PHASE1")):
		return PhaseEarly1
	case strings.Contains(s, "PHASE1") && strings.Contains(s, "PHASE2"):
		return Phase1_2
	case strings.Contains(s, "PHASE2") && strings.Contains(s, "PHASE3"):
		return Phase2_3
	case strings.Contains(s, "PHASE1"):
		return Phase1
	case strings.Contains(s, "PHASE2"):
		return Phase2
	case strings.Contains(s, "PHASE3"):
		return Phase3
	case strings.Contains(s, "PHASE4"):
		return Phase4
	}
	return PhaseOther
}

// phaseKey uppercases and strips everything but letters and digits so that
// "Phase 1/Phase 2", "PHASE1|PHASE2", and "phase 1, phase 2" compare equal.
func phaseKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
