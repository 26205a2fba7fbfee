// File path: internal/api/handlers.go
package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/mkarlsen/trialstream/internal/common"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summarize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Validate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStudy(w http.ResponseWriter, r *http.Request) {
	nctID := strings.TrimSpace(chi.URLParam(r, "nctID"))
	if nctID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("nct id required"))
		return
	}
	study, err := s.store.StudyByNCTID(r.Context(), nctID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Errorf("study %s not found", nctID))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail := StudyDetail{StudyView: newStudyView(study)}
	conditions, err := s.store.ConditionsForStudy(r.Context(), study.StudyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail.Conditions = newConditionViews(conditions)
	sponsors, err := s.store.SponsorsForStudy(r.Context(), study.StudyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail.Sponsors = newSponsorViews(sponsors)
	locations, err := s.store.LocationsForStudy(r.Context(), study.StudyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail.Locations = newLocationViews(locations)
	design, err := s.store.DesignForStudy(r.Context(), study.StudyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	detail.Design = newDesignView(design)
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.run == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no pipeline run attached"))
		return
	}
	writeJSON(w, http.StatusOK, s.run.Report())
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}
