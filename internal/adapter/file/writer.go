// Package file writes rendered charts to the local filesystem.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

// BaseName is the file name, without extension, used for directory output.
const BaseName = "heatmap"

// Target is one output file and the format rendered into it.
type Target struct {
	Path   string
	Format render.Format
}

// Writer renders a chart into one or more files. It implements pipeline.Loader.
type Writer struct {
	targets []Target
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewDirWriter writes dir/heatmap.<ext> for each format.
func NewDirWriter(dir string, formats []render.Format, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	targets := make([]Target, len(formats))
	for i, f := range formats {
		targets[i] = Target{Path: filepath.Join(dir, BaseName+f.Extension()), Format: f}
	}
	return NewWriter(targets, metrics, logger)
}

// NewWriter writes each target in order.
func NewWriter(targets []Target, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	return &Writer{
		targets: targets,
		metrics: metrics,
		logger:  logger,
	}
}

// Targets returns the files written by Load.
func (w *Writer) Targets() []Target {
	return append([]Target(nil), w.targets...)
}

// Load renders chart into every target, stopping at the first failure.
func (w *Writer) Load(ctx context.Context, chart domain.Chart) error {
	for _, t := range w.targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		data, err := render.Bytes(t.Format, chart)
		if err != nil {
			return err
		}
		w.metrics.RenderDuration.WithLabelValues(string(t.Format)).Observe(time.Since(start).Seconds())

		if err := WriteAtomic(t.Path, data); err != nil {
			return err
		}
		w.logger.Info("chart written", "path", t.Path, "format", t.Format, "bytes", len(data))
	}
	return nil
}

// WriteAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
