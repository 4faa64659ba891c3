// Command render builds the heatmap once and writes it to a file or stdout.
//
// Usage:
//
//	go run ./cmd/render -out heatmap.svg
//	go run ./cmd/render -source data/global-temperature.json -format png -out - > heatmap.png
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/file"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

const stdoutPath = "-"

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	src := fs.String("source", config.DefaultDatasetURL, "dataset URL, file:// URL or path")
	out := fs.String("out", stdoutPath, "output file, or - for stdout")
	format := fs.String("format", "", "html, svg, png or json (default: from -out extension, else html)")
	timeout := fs.Duration("timeout", 10*time.Second, "dataset fetch timeout")
	logLevel := fs.String("log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	f, err := resolveFormat(*format, *out)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 2
	}

	logger := observability.NewLoggerTo(stderr, *logLevel, "text")
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	clock := clockwork.NewRealClock()

	var loader pipeline.Loader = streamLoader{w: stdout, format: f}
	if *out != stdoutPath {
		loader = file.NewWriter([]file.Target{{Path: *out, Format: f}}, metrics, logger)
	}

	p := pipeline.New(
		source.NewClient(*src, *timeout, metrics, logger, clock),
		pipeline.NewBuilder(domain.DefaultLayout(), metrics, logger),
		[]pipeline.Sink{{Name: "output", Loader: loader}},
		logger, metrics, clock, 0,
	)

	if _, err := p.RunOnce(ctx); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

// resolveFormat prefers an explicit -format, then the -out extension, then HTML.
func resolveFormat(format, out string) (render.Format, error) {
	if format != "" {
		return render.ParseFormat(format)
	}
	if out != stdoutPath {
		if ext := filepath.Ext(out); ext != "" {
			f, err := render.ParseFormat(ext[1:])
			if err != nil {
				return "", fmt.Errorf("cannot infer format from %q: %w", out, err)
			}
			return f, nil
		}
	}
	return render.FormatHTML, nil
}

type streamLoader struct {
	w      io.Writer
	format render.Format
}

func (s streamLoader) Load(_ context.Context, chart domain.Chart) error {
	if err := render.Render(s.w, s.format, chart); err != nil {
		return fmt.Errorf("write %s: %w", s.format, err)
	}
	return nil
}
