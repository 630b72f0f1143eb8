// Package api serves park generation over HTTP.
//
//	POST   /v1/parks                 generate from options JSON and store
//	GET    /v1/parks                 list stored parks (?limit=N)
//	GET    /v1/parks/{id}            fetch a stored park
//	GET    /v1/parks/{id}/plan.svg   site plan (?labels=true)
//	GET    /v1/parks/{id}/network.dot path network in DOT
//	DELETE /v1/parks/{id}            remove a stored park
//	GET    /healthz                  liveness
//
// Errors are JSON objects carrying the error code; the status follows the
// code (invalid input 400, degenerate geometry 422, scene failures 502,
// unknown parks 404).
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/parkgen/pkg/buildinfo"
	"github.com/matzehuels/parkgen/pkg/errors"
	"github.com/matzehuels/parkgen/pkg/observability"
	"github.com/matzehuels/parkgen/pkg/pipeline"
	"github.com/matzehuels/parkgen/pkg/storage"
)

// maxBodyBytes bounds request bodies; options documents are tiny.
const maxBodyBytes = 64 << 10

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  storage.Store
	logger *log.Logger

	// RequestTimeout bounds a single request, generation included.
	RequestTimeout time.Duration
}

// New creates a server. runner and store must be non-nil.
func New(runner *pipeline.Runner, store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, logger: logger, RequestTimeout: time.Minute}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.RequestTimeout))

	r.Get("/healthz", s.health)
	r.Route("/v1/parks", func(r chi.Router) {
		r.Post("/", s.createPark)
		r.Get("/", s.listParks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getPark)
			r.Delete("/", s.deletePark)
			r.Get("/plan.svg", s.renderPark(pipeline.FormatSVG, "image/svg+xml"))
			r.Get("/network.dot", s.renderPark(pipeline.FormatDOT, "text/vnd.graphviz"))
		})
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) createPark(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.DefaultOptions()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode options"))
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	p, hit, err := s.runner.ParkWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("generated park", "id", rec.ID, "seed", p.Seed, "cached", hit)
	w.Header().Set("Location", "/v1/parks/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listParks(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidConfig, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]storage.Summary, len(recs))
	for i, rec := range recs {
		out[i] = rec.Summary()
	}
	writeJSON(w, http.StatusOK, map[string]any{"parks": out})
}

func (s *Server) getPark(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deletePark(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderPark(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts := pipeline.DefaultOptions()
		opts.Formats = []string{format}
		opts.Labels, _ = strconv.ParseBool(r.URL.Query().Get("labels"))

		artifacts, _, _, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Park, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", strconv.Quote(rec.Hash))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
