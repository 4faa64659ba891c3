package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// ChartBuilder implements Builder with domain.Build and a fixed layout.
type ChartBuilder struct {
	layout  domain.Layout
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a ChartBuilder for layout.
func NewBuilder(layout domain.Layout, metrics *observability.Metrics, logger *slog.Logger) *ChartBuilder {
	return &ChartBuilder{
		layout:  layout,
		metrics: metrics,
		logger:  logger,
	}
}

func (b *ChartBuilder) Build(ctx context.Context, ds domain.Dataset) (domain.Chart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Chart{}, err
	}

	b.metrics.Builds.Inc()
	chart, err := domain.Build(ds, b.layout)
	if err != nil {
		b.metrics.BuildErrors.Inc()
		return domain.Chart{}, err
	}

	b.metrics.CellsRendered.Set(float64(len(chart.Cells)))
	b.logger.Debug("chart laid out",
		"cells", len(chart.Cells),
		"width", chart.Width,
		"height", chart.Height,
		"variance_min", chart.VarianceMin,
		"variance_max", chart.VarianceMax,
	)
	return chart, nil
}
