package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/plot"
	"github.com/aretw0/regolith/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the live view and the stored frames.
type Server struct {
	Live     *Live
	Store    ports.FrameStore
	Registry *prometheus.Registry
	Colormap plot.Colormap
	Scale    int
	Version  string
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStore enables the /runs endpoints.
func WithStore(store ports.FrameStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithRegistry exposes the registry on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.Registry = reg
	}
}

// WithColormap sets the colours of rendered frames.
func WithColormap(cmap plot.Colormap) Option {
	return func(s *Server) {
		s.Colormap = cmap
	}
}

// WithScale sets the pixel size of a node in rendered frames.
func WithScale(scale int) Option {
	return func(s *Server) {
		s.Scale = scale
	}
}

// WithVersion is reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for a live view.
func NewHandler(live *Live, opts ...Option) http.Handler {
	s := &Server{
		Live:     live,
		Colormap: plot.DefaultColormap(),
		Scale:    2,
		Version:  "dev",
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/status", s.GetStatus)
	r.Get("/frame.png", s.GetFrame)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Get("/{runID}/frames", s.ListFrames)
		r.Get("/{runID}/frames/{step}.png", s.GetStoredFrame)
		r.Get("/{runID}/frames/{step}.json", s.GetStoredFrameJSON)
	})

	if s.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "regolith",
		"version": s.Version,
	})
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := s.Live.Status()
	if !ok {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	s.writeJSON(w, status)
}

// GetFrame handles the GET /frame.png request.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	frame := s.Live.Frame()
	if frame == nil {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	s.writePNG(w, frame)
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	runs, err := s.Store.Runs(r.Context())
	if err != nil {
		s.fail(w, "list runs", err)
		return
	}
	s.writeJSON(w, runs)
}

// ListFrames handles the GET /runs/{runID}/frames request.
func (s *Server) ListFrames(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	steps, err := s.Store.List(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.fail(w, "list frames", err)
		return
	}
	s.writeJSON(w, steps)
}

// GetStoredFrame handles the GET /runs/{runID}/frames/{step}.png request.
func (s *Server) GetStoredFrame(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.loadFrame(w, r)
	if !ok {
		return
	}
	s.writePNG(w, frame)
}

// GetStoredFrameJSON handles the GET /runs/{runID}/frames/{step}.json request.
func (s *Server) GetStoredFrameJSON(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.loadFrame(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, frame)
}

// SubscribeEvents handles the GET /events request (SSE).
// ?run_id= restricts the stream to one run.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	topic := r.URL.Query().Get("run_id")
	ch, cancel := s.Live.Streams().Subscribe(topic)
	defer cancel()

	s.Logger.Debug("SSE: client subscribed", "topic", topic)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE: client disconnected", "topic", topic)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "%s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) loadFrame(w http.ResponseWriter, r *http.Request) (*domain.Frame, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || step < 0 {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return nil, false
	}
	frame, err := s.Store.Load(r.Context(), chi.URLParam(r, "runID"), step)
	if err != nil {
		s.fail(w, "load frame", err)
		return nil, false
	}
	return frame, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		http.Error(w, "no frame store configured", http.StatusNotFound)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrFrameNotFound) || errors.Is(err, domain.ErrRunNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, domain.ErrInvalidRunID) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, fmt.Sprintf("%s: %v", op, err), http.StatusInternalServerError)
	s.Logger.Error(op+" failed", "error", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writePNG(w http.ResponseWriter, frame *domain.Frame) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := plot.WritePNG(w, frame, s.Colormap, s.Scale); err != nil {
		s.Logger.Error("frame encode failed", "error", err)
	}
}
