// Package server exposes the wardrobe generator over HTTP.
//
// Every POST route takes a JSON wardrobe spec. Fields left out of the body
// keep their default values.
//
//	GET  /healthz
//	GET  /materials
//	POST /validate
//	POST /layout
//	POST /report
//	POST /wardrobe.stl
//	POST /wardrobe.png
//	POST /sketch.{format}
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/soypat/wardrobe/builder"
	"github.com/soypat/wardrobe/cache"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
	"github.com/soypat/wardrobe/preview"
	"github.com/soypat/wardrobe/render"
	"github.com/soypat/wardrobe/sketch"
)

// maxBody limits the size of a request body.
const maxBody = 1 << 16

// Materials lists and resolves wood materials. *material.Resolver
// implements it.
type Materials interface {
	WoodNames() []string
	Resolve(name string) (material.Material, bool)
}

// Options configures a Server. Zero values select defaults.
type Options struct {
	Logger *log.Logger
	// Cache stores STL and PNG output. Nil disables caching.
	Cache cache.Cache
	// TTL is the lifetime of cached entries.
	TTL     time.Duration
	Preview preview.Options
}

// Server answers wardrobe requests.
type Server struct {
	mats    Materials
	log     *log.Logger
	cache   cache.Cache
	ttl     time.Duration
	preview preview.Options
}

// New returns a server resolving materials with mats.
func New(mats Materials, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Cache == nil {
		opts.Cache = cache.Discard
	}
	return &Server{
		mats:    mats,
		log:     opts.Logger,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		preview: opts.Preview,
	}
}

// Handler returns the router of s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/materials", s.materials)
	r.Post("/validate", s.validate)
	r.Post("/layout", s.layout)
	r.Post("/report", s.report)
	r.Post("/wardrobe.stl", s.stl)
	r.Post("/wardrobe.png", s.png)
	r.Post("/sketch.{format}", s.sketch)
	return r
}

// ListenAndServe serves s on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) materials(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if s.mats != nil {
		names = append(names, s.mats.WoodNames()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": names})
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	var resp validateResponse
	var verr *layout.ValidationError
	switch err := layout.Validate(spec); {
	case err == nil:
		resp.Valid = true
	case errors.As(err, &verr):
		resp.Field, resp.Reason = verr.Field, verr.Reason
	default:
		resp.Reason = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	res, err := layout.Generate(spec)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spec": spec, "segments": res.Segments()})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	_, report, err := builder.Wardrobe(r.Context(), spec, s.mats, builder.Options{Logger: s.log})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) stl(w http.ResponseWriter, r *http.Request) {
	s.artifact(w, r, "stl", "model/stl", func(report *builder.Report, rd render.Renderer) ([]byte, error) {
		var buf bytes.Buffer
		_, err := render.WriteSTLFrom(&buf, rd)
		return buf.Bytes(), err
	})
}

func (s *Server) png(w http.ResponseWriter, r *http.Request) {
	s.artifact(w, r, "png", "image/png", func(report *builder.Report, rd render.Renderer) ([]byte, error) {
		opts := s.preview
		if m, ok := s.resolve(report.Material); ok {
			if c, err := m.RGBA(); err == nil {
				opts.Color = c
			}
		}
		var buf bytes.Buffer
		err := preview.WriteFrom(&buf, rd, opts)
		return buf.Bytes(), err
	})
}

func (s *Server) resolve(name string) (material.Material, bool) {
	if s.mats == nil || name == "" {
		return material.Material{}, false
	}
	return s.mats.Resolve(name)
}

type encodeFunc func(*builder.Report, render.Renderer) ([]byte, error)

// artifact builds the wardrobe and encodes it, going through the cache.
func (s *Server) artifact(w http.ResponseWriter, r *http.Request, kind, contentType string, encode encodeFunc) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	key := cache.Key(kind, spec)
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache get failed", "key", key, "err", err)
	}
	if !hit {
		doc, report, err := builder.Wardrobe(ctx, spec, s.mats, builder.Options{Logger: s.log})
		if err != nil {
			s.fail(w, err)
			return
		}
		sess, err := doc.Session()
		if err != nil {
			s.fail(w, err)
			return
		}
		rd, err := sess.Root.Renderer()
		if err != nil {
			s.fail(w, err)
			return
		}
		data, err = encode(report, rd)
		if err != nil {
			s.fail(w, err)
			return
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.log.Warn("cache set failed", "key", key, "err", err)
		}
	}
	status := "miss"
	if hit {
		status = "hit"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", status)
	w.Write(data)
}

var sketchTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

func (s *Server) sketch(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := sketchTypes[format]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unsupported sketch format %q", format))
		return
	}
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	res, err := layout.Generate(spec)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := sketch.Write(&buf, res, format, sketch.Options{}); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// decodeSpec reads a spec from the request body over the defaults. It
// writes a 400 response and returns false on malformed input.
func (s *Server) decodeSpec(w http.ResponseWriter, r *http.Request) (layout.Spec, bool) {
	spec := layout.Defaults()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding spec: %w", err))
		return spec, false
	}
	return spec, true
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var stepErr *builder.StepError
	switch {
	case errors.Is(err, layout.ErrInvalidSpec):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	case errors.As(err, &stepErr):
		s.log.Error("build failed", "step", stepErr.Step, "err", stepErr.Err)
	default:
		s.log.Error("request failed", "err", err)
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
