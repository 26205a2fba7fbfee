// File path: internal/sqlite/schema.go
package sqlite

// schemaStatements is the fixed relational contract: the studies parent and
// six cascade-delete children. The pipeline populates studies, conditions,
// sponsors, locations, and study_design; interventions and outcomes exist
// for downstream loaders.
var schemaPragmas = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA foreign_keys = ON;`,
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS studies (
                study_id INTEGER PRIMARY KEY AUTOINCREMENT,
                nct_id TEXT NOT NULL UNIQUE,
                acronym TEXT,
                title TEXT,
                brief_summary TEXT,
                status TEXT,
                phase TEXT,
                phase_group TEXT,
                study_type TEXT,
                start_date TEXT,
                completion_date TEXT,
                primary_completion_date TEXT,
                enrollment INTEGER,
                enrollment_type TEXT,
                sex TEXT,
                minimum_age TEXT,
                maximum_age TEXT,
                healthy_volunteers INTEGER,
                created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS conditions (
                condition_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
                condition_name TEXT NOT NULL,
                mesh_term TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS interventions (
                intervention_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
                intervention_type TEXT,
                name TEXT,
                description TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS outcomes (
                outcome_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
                outcome_type TEXT,
                measure TEXT,
                time_frame TEXT,
                description TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS sponsors (
                sponsor_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
                agency TEXT NOT NULL,
                agency_class TEXT,
                lead_or_collaborator TEXT NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS locations (
                location_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
                facility TEXT,
                city TEXT,
                state TEXT,
                zip_code TEXT,
                country TEXT,
                continent TEXT,
                status TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS study_design (
                design_id INTEGER PRIMARY KEY AUTOINCREMENT,
                study_id INTEGER NOT NULL UNIQUE REFERENCES studies(study_id) ON DELETE CASCADE,
                allocation TEXT,
                intervention_model TEXT,
                masking TEXT,
                primary_purpose TEXT,
                observational_model TEXT,
                time_perspective TEXT
        );`,
	`CREATE INDEX IF NOT EXISTS idx_studies_status ON studies(status);`,
	`CREATE INDEX IF NOT EXISTS idx_studies_phase_group ON studies(phase_group);`,
	`CREATE INDEX IF NOT EXISTS idx_studies_start_date ON studies(start_date);`,
	`CREATE INDEX IF NOT EXISTS idx_conditions_study ON conditions(study_id);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_study ON interventions(study_id);`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_study ON outcomes(study_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sponsors_study ON sponsors(study_id);`,
	`CREATE INDEX IF NOT EXISTS idx_locations_study ON locations(study_id);`,
	`CREATE INDEX IF NOT EXISTS idx_locations_country ON locations(country);`,
}
