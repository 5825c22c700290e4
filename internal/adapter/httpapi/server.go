package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/overlay"
)

// Default overlay dimensions, sized for a lower-third video strip.
const (
	defaultWidth  = 1280
	defaultHeight = 240
)

// OverlayService produces PNG overlays for parsed request parameters.
type OverlayService interface {
	Overlay(ctx context.Context, p overlay.Params) ([]byte, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AnyReady reports ready as soon as any of its checkers is. The service is
// usable once either the broadcast listener has decoded a packet or an
// overlay has been served from forecast data.
type AnyReady []ReadinessChecker

func (a AnyReady) CheckReadiness(ctx context.Context) error {
	err := errors.New("no readiness checkers configured")
	for _, c := range a {
		if err = c.CheckReadiness(ctx); err == nil {
			return nil
		}
	}
	return err
}

// Server exposes the overlay endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	service    OverlayService
	logger     *slog.Logger
}

// NewServer creates the overlay HTTP server.
func NewServer(addr string, service OverlayService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /overlay/{kind}", s.handleOverlay)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	params := overlay.Params{
		Kind:     r.PathValue("kind"),
		Width:    queryInt(r, "w", defaultWidth),
		Height:   queryInt(r, "h", defaultHeight),
		Theme:    r.URL.Query().Get("theme"),
		Units:    r.URL.Query().Get("units"),
		Stations: querySplit(r, "stations"),
	}

	img, err := s.service.Overlay(r.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownOverlay) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("overlay render failed", "kind", params.Kind, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "max-age=30")
	_, _ = w.Write(img)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func querySplit(r *http.Request, key string) []string {
	var out []string
	for _, part := range strings.Split(r.URL.Query().Get(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
