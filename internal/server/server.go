// Package server implements the AutoCrate design HTTP API.
//
// The API exposes the same pipeline the CLI uses:
//
//	POST /api/v1/design   compute a design from pipeline options
//	GET  /api/v1/formats  list supported artifact formats
//	GET  /healthz         liveness probe
//
// Artifact formats are rendered inline in the response; exp and bom are
// plain text, json is the design document itself.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/export"
	"github.com/autocrate/autocrate/pkg/observability"
	"github.com/autocrate/autocrate/pkg/pipeline"
)

// Server serves the design API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/design", s.handleDesign)
		r.Get("/formats", s.handleFormats)
	})
	return r
}

// designResponse is the body returned by POST /api/v1/design.
type designResponse struct {
	Design     export.Design     `json:"design"`
	DesignHash string            `json:"design_hash"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
	Cached     bool              `json:"cached"`
}

// errorResponse is the body returned for any failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := designResponse{
		Design:     result.Design,
		DesignHash: result.DesignHash,
		Cached:     result.CacheInfo.DesignHit,
	}
	// The json artifact duplicates the design document, so only the text
	// formats are inlined.
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	s.writeJSON(w, http.StatusOK, map[string][]string{"formats": formats})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	s.writeJSON(w, status, resp)
}

// statusFor maps pipeline errors onto HTTP statuses. Input problems are the
// caller's fault; everything else is a 500.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDimension,
		errors.ErrCodeInvalidCleatSpec, errors.ErrCodeInvalidLumberKey,
		errors.ErrCodeInvalidFormat, errors.ErrCodeOverweight,
		errors.ErrCodeNarrowWidth:
		return http.StatusUnprocessableEntity
	}
	if errors.GetCode(err) == "" {
		// Option validation errors come from the pipeline as plain errors.
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// observe is middleware that reports request lifecycle events to the
// observability hooks and logs completed requests.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed)
	})
}
