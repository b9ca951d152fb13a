// Package chi exposes the search engine over HTTP. Handlers translate wire
// DTOs to domain types, call one usecase, and map domain sentinels onto
// status codes. Admin routes (vocabulary writes, reindex) sit behind a
// bearer key; read routes are open.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	healthuc "github.com/bayanapps/dalil/internal/usecase/health"
	reindexuc "github.com/bayanapps/dalil/internal/usecase/reindex"
)

// SearchService runs the retrieval pipeline.
type SearchService interface {
	Search(ctx context.Context, req *domsearch.Request) (domsearch.Page, error)
}

// ReindexService starts and polls background jobs.
type ReindexService interface {
	Start(ctx context.Context, req reindexuc.StartRequest) (*job.Job, error)
	Job(ctx context.Context, id string) (*job.Job, error)
}

// HealthService aggregates component checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// EntryReader reads single catalog entries.
type EntryReader interface {
	Get(ctx context.Context, id string) (domain.Entry, error)
}

// MetadataStore reads and writes the filter vocabulary.
type MetadataStore interface {
	LoadRegistry(ctx context.Context) (metadata.Registry, error)
	SaveType(ctx context.Context, t metadata.Type) error
	SaveOption(ctx context.Context, o metadata.Option) error
	Assign(ctx context.Context, entryID, typeName, value string) error
	Unassign(ctx context.Context, entryID, typeName, value string) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        SearchService
	reindex       ReindexService
	health        HealthService
	entries       EntryReader
	meta          MetadataStore
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService, reindex ReindexService, health HealthService,
	entries EntryReader, meta MetadataStore, logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		reindex: reindex,
		health:  health,
		entries: entries,
		meta:    meta,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEntryNotFound, http.StatusNotFound, "entry_not_found"),
		sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, "job_not_found"),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not_found"),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, "vector_dim_mismatch"),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusServiceUnavailable, "provider_unavailable"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrRerankProviderError, http.StatusBadGateway, "rerank_provider_error"),
	}
	return s
}

// Routes mounts all handlers on the router. adminKeys guards mutation routes.
func (s *Server) Routes(r chi.Router, adminKeys []string) {
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/entries/{id}", s.handleGetEntry)
		r.Get("/metadata", s.handleGetMetadata)
		r.Get("/reindex/{job_id}", s.handleGetJob)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminKeys))
			r.Post("/reindex", s.handleStartReindex)
			r.Post("/metadata/types", s.handleCreateType)
			r.Post("/metadata/options", s.handleCreateOption)
			r.Put("/entries/{id}/metadata/{type}/{value}", s.handleAssign)
			r.Delete("/entries/{id}/metadata/{type}/{value}", s.handleUnassign)
		})
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	page, err := s.search.Search(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchPageToResponse(page))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(e))
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	reg, err := s.meta.LoadRegistry(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registryToResponse(reg))
}

func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var req metadataTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "type name is required")
		return
	}

	if err := s.meta.SaveType(r.Context(), req.toDomain()); err != nil {
		// Name validation failures come back as plain errors, not sentinels.
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleCreateOption(w http.ResponseWriter, r *http.Request) {
	var req metadataOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Type == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "type and value are required")
		return
	}

	if err := s.meta.SaveOption(r.Context(), req.toDomain()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"type": req.Type, "value": req.Value})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	err := s.meta.Assign(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "type"), chi.URLParam(r, "value"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	err := s.meta.Unassign(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "type"), chi.URLParam(r, "value"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartReindex(w http.ResponseWriter, r *http.Request) {
	var req reindexRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
			return
		}
	}

	j, err := s.reindex.Start(r.Context(), reindexuc.StartRequest{
		EntryIDs:  req.EntryIDs,
		Crawl:     req.Crawl,
		Force:     req.Force,
		Quick:     req.Quick,
		BatchSize: req.BatchSize,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jobToResponse(j))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.reindex.Job(r.Context(), chi.URLParam(r, "job_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(j))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthToResponse(report))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEntryNotFound,
		domain.ErrJobNotFound,
		domain.ErrNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrProviderUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrRerankProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
