// Package server exposes the rendering pipeline over HTTP: POST /render
// accepts diagram text and returns the artifact, GET /healthz reports
// liveness. Both CLI serve mode and tests build their handler here.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/flowgrid/pkg/graph"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

// Server handles render requests against a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil logger falls back to the package default.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Post("/render", s.handleRender)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// renderRequest is the POST /render body. Pointer geometry fields
// distinguish "omitted" from an explicit zero.
type renderRequest struct {
	Source        string `json:"source"`
	Format        string `json:"format,omitempty"`
	PaddingX      *int   `json:"padding_x,omitempty"`
	PaddingY      *int   `json:"padding_y,omitempty"`
	BorderPadding *int   `json:"border_padding,omitempty"`
	ASCII         bool   `json:"ascii,omitempty"`
	Coords        bool   `json:"coords,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"`
}

func (req *renderRequest) options() pipeline.Options {
	opts := pipeline.NewOptions(req.Source)
	if req.Format != "" {
		opts.Format = req.Format
	}
	if req.PaddingX != nil {
		opts.PaddingX = *req.PaddingX
	}
	if req.PaddingY != nil {
		opts.PaddingY = *req.PaddingY
	}
	if req.BorderPadding != nil {
		opts.BorderPadding = *req.BorderPadding
	}
	opts.ASCII = req.ASCII
	opts.Coords = req.Coords
	opts.Refresh = req.Refresh
	return opts
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.runner.Execute(r.Context(), req.options())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.options().Format])
	if result.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// statusFor maps pipeline errors to HTTP status codes. Everything caused
// by the request body is a 400; the rest is a 500.
func statusFor(err error) int {
	var dangling *graph.DanglingEdgeError
	switch {
	case errors.Is(err, graph.ErrEmptyGraph),
		errors.As(err, &dangling),
		strings.HasPrefix(err.Error(), "parse:"),
		strings.HasPrefix(err.Error(), "invalid options:"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requestID tags every request with a UUID, echoed in the response so
// clients can correlate log lines.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"id", w.Header().Get("X-Request-ID"),
			"duration", time.Since(start))
	})
}
