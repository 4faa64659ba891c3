package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

var errNotBuilt = errors.New("chart has not been built yet")

// ChartSource supplies pre-rendered charts to the handlers.
type ChartSource interface {
	Rendered(f render.Format) ([]byte, time.Time, bool)
	Failure() error
}

// Server exposes the chart, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	charts     ChartSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the chart routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, charts ChartSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts: charts,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /heatmap.svg", s.handleAsset(render.FormatSVG))
	mux.HandleFunc("GET /heatmap.png", s.handleAsset(render.FormatPNG))
	mux.HandleFunc("GET /api/chart", s.handleAsset(render.FormatJSON))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
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

// handlePage serves the interactive page, or a visible failure page with
// 503 when no chart is available.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data, generatedAt, ok := s.charts.Rendered(render.FormatHTML)
	if !ok {
		var buf bytes.Buffer
		if err := render.ErrorPage(&buf, s.unavailable()); err != nil {
			s.logger.Error("render failure page", "error", err)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", render.FormatHTML.ContentType())
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write(buf.Bytes())
		return
	}
	s.write(w, r, render.FormatHTML, data, generatedAt)
}

func (s *Server) handleAsset(f render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, generatedAt, ok := s.charts.Rendered(f)
		if !ok {
			w.Header().Set("Retry-After", "5")
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  s.unavailable().Error(),
			})
			return
		}
		s.write(w, r, f, data, generatedAt)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, f render.Format, data []byte, generatedAt time.Time) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", generatedAt, bytes.NewReader(data))
}

func (s *Server) unavailable() error {
	if err := s.charts.Failure(); err != nil {
		return err
	}
	return errNotBuilt
}
