package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temperature_heatmap"

// Metrics holds the Prometheus counters, histograms, and gauges for the chart pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge
	LastSuccess     prometheus.Gauge

	// Dataset fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	// Chart build metrics.
	Builds         prometheus.Counter
	BuildErrors    prometheus.Counter
	CellsRendered  prometheus.Gauge
	RenderDuration *prometheus.HistogramVec // labels: format={html,svg,png,json}

	// Sink metrics.
	SinkWrites *prometheus.CounterVec // labels: sink, outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all pipeline metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last chart that was built and loaded.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_requests_total",
			Help:      "Dataset fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of a dataset fetch including decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_builds_total",
			Help:      "Total charts built from a dataset.",
		}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_build_errors_total",
			Help:      "Total chart builds rejected because the dataset or layout was invalid.",
		}),
		CellsRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chart_cells",
			Help:      "Number of cells in the most recently built chart.",
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering a chart into one output format.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"format"}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Chart deliveries to sinks by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}

	reg.MustRegister(
		m.PipelineRunning,
		m.LastSuccess,
		m.FetchRequests,
		m.FetchDuration,
		m.Builds,
		m.BuildErrors,
		m.CellsRendered,
		m.RenderDuration,
		m.SinkWrites,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		LastSuccess:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "last_success_timestamp_seconds"}),
		FetchRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dataset_fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "dataset_fetch_duration_seconds"}),
		Builds:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "chart_builds_total"}),
		BuildErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "chart_build_errors_total"}),
		CellsRendered:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "chart_cells"}),
		RenderDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "render_duration_seconds"}, []string{"format"}),
		SinkWrites:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "sink_writes_total"}, []string{"sink", "outcome"}),
	}
}
