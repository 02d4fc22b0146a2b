// Package api implements the ringmap layout service.
//
// The service wraps the layout pipeline behind a small JSON API:
//
//	POST   /v1/layouts      compute a layout for a posted scene
//	GET    /v1/layouts      list stored layout IDs
//	GET    /v1/layouts/{id} fetch a stored layout
//	DELETE /v1/layouts/{id} delete a stored layout
//	GET    /healthz         liveness probe
//
// Computation is synchronous: a ~2,500-node scene lays out in well under a
// second, so there is no job queue. Results are optionally persisted to the
// configured store when the request asks for it.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/pipeline"
	"github.com/matzehuels/ringmap/pkg/scene"
	"github.com/matzehuels/ringmap/pkg/store"
	"github.com/matzehuels/ringmap/pkg/tree"
)

// Server is the HTTP layout service.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// NewServer creates a server over the given runner and store.
// A nil store disables persistence; computed layouts are then returned
// inline only.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCompute)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// =============================================================================
// Request/Response Types
// =============================================================================

// ComputeRequest is the body of POST /v1/layouts.
type ComputeRequest struct {
	Scene      scene.Scene `json:"scene"`
	RingGap    float64     `json:"ring_gap,omitempty"`
	StartAngle float64     `json:"start_angle,omitempty"`
	TotalAngle float64     `json:"total_angle,omitempty"`
	Tolerance  float64     `json:"tolerance,omitempty"`
	Sweep      bool        `json:"sweep,omitempty"`
	Refresh    bool        `json:"refresh,omitempty"`

	// Persist stores the computed layout and returns its ID.
	Persist bool `json:"persist,omitempty"`
}

// ComputeResponse is the body returned by POST /v1/layouts.
type ComputeResponse struct {
	ID       string       `json:"id,omitempty"`
	Layout   scene.Layout `json:"layout"`
	TreeHash string       `json:"tree_hash"`
	RingGap  float64      `json:"ring_gap"`
	Cached   bool         `json:"cached"`
	Clean    bool         `json:"clean"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	if len(req.Scene.Nodes) == 0 {
		s.writeError(w, http.StatusBadRequest,
			apperrors.New(apperrors.ErrCodeInvalidInput, "scene must contain nodes"))
		return
	}

	opts := pipeline.Options{
		Scene:      req.Scene,
		RingGap:    req.RingGap,
		StartAngle: req.StartAngle,
		TotalAngle: req.TotalAngle,
		Tolerance:  req.Tolerance,
		Sweep:      req.Sweep,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	resp := ComputeResponse{
		Layout:   result.Layout,
		TreeHash: result.TreeHash,
		RingGap:  result.RingGap,
		Cached:   result.CacheInfo.LayoutHit,
		Clean:    result.Layout.Report.Clean(),
	}

	if req.Persist && s.store != nil {
		id, err := s.store.Save(r.Context(), result.Layout)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.ID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented,
			apperrors.New(apperrors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented,
			apperrors.New(apperrors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateLayoutID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	layout, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented,
			apperrors.New(apperrors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateLayoutID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrCodeLayoutNotFound),
		apperrors.Is(err, apperrors.ErrCodeNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrCodeInvalidInput),
		apperrors.Is(err, apperrors.ErrCodeInvalidNode),
		apperrors.Is(err, apperrors.ErrCodeInvalidRing),
		errors.Is(err, tree.ErrMalformedTree):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		if errors.Is(err, tree.ErrMalformedTree) {
			code = apperrors.ErrCodeMalformedTree
		} else {
			code = apperrors.ErrCodeInternal
		}
	}
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
