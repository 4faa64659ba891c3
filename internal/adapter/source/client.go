package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client fetches the temperature dataset. It implements pipeline.Extractor.
type Client struct {
	location   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
	clock      clockwork.Clock
}

// NewClient creates a dataset client for location, which is an http(s) URL,
// a file:// URL, or a plain filesystem path.
func NewClient(location string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, clock clockwork.Clock) *Client {
	return &Client{
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
		clock:   clock,
	}
}

// Extract fetches, decodes and validates the dataset. There is no retry;
// callers decide whether to try again.
func (c *Client) Extract(ctx context.Context) (domain.Dataset, error) {
	start := c.clock.Now()
	ds, err := c.fetch(ctx)
	elapsed := c.clock.Since(start)
	c.metrics.FetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}
	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("dataset fetched",
		"location", c.location,
		"observations", len(ds.MonthlyVariance),
		"duration", elapsed,
	)
	return ds, nil
}

func (c *Client) fetch(ctx context.Context) (domain.Dataset, error) {
	u, err := url.Parse(c.location)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse dataset location: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return c.fetchHTTP(ctx)
	case "file":
		return readFile(u.Path)
	case "":
		return readFile(c.location)
	default:
		return domain.Dataset{}, fmt.Errorf("unsupported dataset scheme %q", u.Scheme)
	}
}

func (c *Client) fetchHTTP(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.location, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Dataset{}, fmt.Errorf("dataset source error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decode(resp.Body)
}

func readFile(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, fmt.Errorf("invalid dataset: %w", err)
	}
	return ds, nil
}
