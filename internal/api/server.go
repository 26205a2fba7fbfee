// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/mkarlsen/trialstream/internal/common"
	"github.com/mkarlsen/trialstream/internal/pipeline"
	"github.com/mkarlsen/trialstream/internal/sqlite"
)

// Server exposes read-only views over the loaded store and, when a run is
// attached, the live pipeline report.
type Server struct {
	router chi.Router
	store  *sqlite.Store
	run    *pipeline.Pipeline
}

// NewServer wires the routes over an open store. run may be nil when the
// server is started without an active pipeline.
func NewServer(store *sqlite.Store, run *pipeline.Pipeline) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	srv := &Server{router: chi.NewRouter(), store: store, run: run}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/v1/summary", s.handleSummary)
	s.router.Get("/v1/validation", s.handleValidation)
	s.router.Get("/v1/studies/{nctID}", s.handleStudy)
	s.router.Get("/v1/run", s.handleRun)
	s.router.Get("/v1/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
