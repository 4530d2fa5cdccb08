// Package server exposes the HR service over HTTP: contract ingestion,
// employee reads, the exceptions queue, and roster exports. Every route
// except the health checks requires the X-API-Key header.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/loomi-hq/hr-service/internal/common"
	"github.com/loomi-hq/hr-service/internal/export"
	"github.com/loomi-hq/hr-service/internal/ingest"
	"github.com/loomi-hq/hr-service/internal/repository"
)

// HealthChecker reports backing-store reachability for the deep health
// endpoint. Nil means no store to check.
type HealthChecker func(ctx context.Context) error

type Server struct {
	cfg    common.ServerConfig
	ingest *ingest.Service
	repo   repository.EmployeeRepository
	export *export.Service
	health HealthChecker
	logger *slog.Logger
}

func New(cfg common.ServerConfig, ing *ingest.Service, repo repository.EmployeeRepository, exp *export.Service, health HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, ingest: ing, repo: repo, export: exp, health: health, logger: logger}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/deep", s.handleHealthDeep)

	mux.Handle("POST /ingest", s.requireAPIKey(s.handleIngest))
	mux.Handle("POST /ingest/base64", s.requireAPIKey(s.handleIngestBase64))
	mux.Handle("GET /employees", s.requireAPIKey(s.handleListEmployees))
	mux.Handle("GET /employees/{employee_id}", s.requireAPIKey(s.handleGetEmployee))
	mux.Handle("GET /exceptions", s.requireAPIKey(s.handleExceptions))
	mux.Handle("GET /export/csv", s.requireAPIKey(s.handleExportCSV))
	mux.Handle("GET /export/xlsx", s.requireAPIKey(s.handleExportXLSX))

	return s.withCORS(mux)
}

// requireAPIKey is fail-closed: with no key configured on the server, every
// authenticated route rejects.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey == "" || r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeErr(w, http.StatusForbidden, "Invalid or missing API key")
			return
		}
		next(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range s.cfg.CORSOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", "X-API-Key, Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				break
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"detail": message})
}

// writeInternalErr maps known sentinels to status codes and hides raw
// error text from clients.
func (s *Server) writeInternalErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeErr(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, common.ErrUnreadableDocument):
		writeErr(w, http.StatusBadRequest, "Document could not be read")
	default:
		s.logger.Error("http.internal_error", "error", err)
		writeErr(w, http.StatusInternalServerError, "Internal error")
	}
}
