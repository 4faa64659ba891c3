package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ErrLoad wraps failures from one or more sinks. The chart itself was built.
var ErrLoad = errors.New("load chart")

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Extractor fetches the source dataset.
type Extractor interface {
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Builder lays out a chart from a dataset.
type Builder interface {
	Build(ctx context.Context, ds domain.Dataset) (domain.Chart, error)
}

// Loader delivers a built chart somewhere.
type Loader interface {
	Load(ctx context.Context, chart domain.Chart) error
}

// FailureReporter is implemented by loaders that want to know when a cycle
// failed before a chart could be built.
type FailureReporter interface {
	ReportFailure(err error)
}

// Sink is a named Loader. The name labels logs and metrics.
type Sink struct {
	Name   string
	Loader Loader
}

// Pipeline orchestrates the fetch-build-load cycle.
type Pipeline struct {
	extractor Extractor
	builder   Builder
	sinks     []Sink
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	refresh   time.Duration
	ready     atomic.Bool

	mu      sync.Mutex
	lastErr error
}

// New creates a Pipeline. A zero refresh interval builds the chart once.
func New(e Extractor, b Builder, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, refresh time.Duration) *Pipeline {
	return &Pipeline{
		extractor: e,
		builder:   b,
		sinks:     sinks,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		refresh:   refresh,
	}
}

// CheckReadiness returns nil once a chart has been built, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.ready.Load() {
		return nil
	}
	if err := p.LastError(); err != nil {
		return fmt.Errorf("chart not built: %w", err)
	}
	return errors.New("chart has not been built yet")
}

// LastError returns the error of the most recent failed cycle, or nil if the
// latest cycle succeeded.
func (p *Pipeline) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Run builds the chart, retrying with exponential backoff until a cycle
// succeeds, then rebuilds every refresh interval until ctx is cancelled.
// With no refresh interval Run returns after the first success.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "refresh_interval", p.refresh, "sinks", len(p.sinks))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		_, err := p.RunOnce(ctx)
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		wait := p.refresh
		if err != nil && !errors.Is(err, ErrLoad) {
			wait = backoff
			backoff = retry.NextBackoff(backoff, maxBackoff)
			p.logger.Warn("retrying chart build", "backoff", wait)
		} else {
			backoff = initialBackoff
			if p.refresh <= 0 {
				return nil
			}
		}

		if !p.sleep(ctx, wait) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// RunOnce performs a single cycle. Extract and build failures are returned
// as-is; sink failures are joined and wrapped with ErrLoad after every sink
// has been tried.
func (p *Pipeline) RunOnce(ctx context.Context) (domain.Chart, error) {
	start := p.clock.Now()

	ds, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Chart{}, p.fail(ctx, fmt.Errorf("extract dataset: %w", err))
	}

	chart, err := p.builder.Build(ctx, ds)
	if err != nil {
		return domain.Chart{}, p.fail(ctx, fmt.Errorf("build chart: %w", err))
	}

	p.ready.Store(true)
	p.setLastErr(nil)
	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))

	var errs []error
	for _, s := range p.sinks {
		if err := s.Loader.Load(ctx, chart); err != nil {
			p.metrics.SinkWrites.WithLabelValues(s.Name, "error").Inc()
			p.logger.Error("sink failed", "sink", s.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		p.metrics.SinkWrites.WithLabelValues(s.Name, "success").Inc()
	}

	p.logger.Info("chart built",
		"observations", len(ds.MonthlyVariance),
		"first_year", chart.FirstYear,
		"last_year", chart.LastYear,
		"duration", p.clock.Since(start),
	)

	if len(errs) > 0 {
		return chart, fmt.Errorf("%w: %w", ErrLoad, errors.Join(errs...))
	}
	return chart, nil
}

// fail records err and notifies interested sinks. A chart built by an
// earlier cycle keeps the pipeline ready.
func (p *Pipeline) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	p.setLastErr(err)
	p.logger.Error("chart cycle failed", "error", err, "ready", p.ready.Load())
	for _, s := range p.sinks {
		if r, ok := s.Loader.(FailureReporter); ok {
			r.ReportFailure(err)
		}
	}
	return err
}

func (p *Pipeline) setLastErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// sleep waits for d on the pipeline clock. Returns false if ctx ended first.
func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
