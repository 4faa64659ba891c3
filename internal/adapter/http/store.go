package http

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

// Store holds the latest chart pre-rendered in every format. It implements
// pipeline.Loader and pipeline.FailureReporter.
type Store struct {
	metrics *observability.Metrics

	mu          sync.RWMutex
	rendered    map[render.Format][]byte
	generatedAt time.Time
	failure     error
}

// NewStore creates an empty store. Until the first Load every lookup misses.
func NewStore(metrics *observability.Metrics) *Store {
	return &Store{metrics: metrics}
}

// Load renders chart in every format and swaps it in as a unit.
func (s *Store) Load(ctx context.Context, chart domain.Chart) error {
	rendered := make(map[render.Format][]byte, len(render.Formats))
	for _, f := range render.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		data, err := render.Bytes(f, chart)
		if err != nil {
			return err
		}
		s.metrics.RenderDuration.WithLabelValues(string(f)).Observe(time.Since(start).Seconds())
		rendered[f] = data
	}

	s.mu.Lock()
	s.rendered = rendered
	s.generatedAt = chart.GeneratedAt
	s.failure = nil
	s.mu.Unlock()
	return nil
}

// ReportFailure records why the latest cycle produced no chart. A chart
// loaded earlier keeps being served.
func (s *Store) ReportFailure(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
}

// Rendered returns the chart in format f and when it was generated.
func (s *Store) Rendered(f render.Format) ([]byte, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.rendered[f]
	return data, s.generatedAt, ok
}

// Failure returns the most recent failure, or nil after a successful Load.
func (s *Store) Failure() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failure
}
