// Command validate checks a rendered heatmap page against the dataset it
// was built from. It verifies the element ids, per-cell data attributes,
// legend and axes that browser-based chart tests inspect.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -html out/heatmap.html \
//	  -dataset data/global-temperature.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/html"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// tempTolerance absorbs float formatting differences in data-temp.
const tempTolerance = 1e-6

// minLegendColors is the fewest distinct swatch fills a usable legend has.
const minLegendColors = 4

var requiredIDs = []string{
	"title", "description", "heatmap", "x-axis", "y-axis",
	"x-label", "y-label", "legend", "c-axis", "tooltip",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	htmlPath := flag.String("html", "", "path to the rendered heatmap page")
	datasetPath := flag.String("dataset", "", "dataset URL or path the page was built from")
	flag.Parse()

	if *htmlPath == "" || *datasetPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*htmlPath, *datasetPath, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(htmlPath, datasetPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Heatmap Markup Validation ===")
	fmt.Fprintln(out)

	doc, err := loadPage(htmlPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load page: %v\n", err)
		return 1
	}

	client := source.NewClient(datasetPath, 30*time.Second,
		observability.NewMetricsWith(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		clockwork.NewRealClock())
	ds, err := client.Extract(context.Background())
	if err != nil {
		fmt.Fprintf(out, "FATAL: load dataset: %v\n", err)
		return 1
	}

	page := indexPage(doc)
	phases := []*phase{
		validateStructure(page),
		validateCells(page, ds),
		validateLegend(page),
		validateAxes(page, ds),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Observations: %d dataset, %d cells\n", len(ds.MonthlyVariance), len(page.cells))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Page loading ──

func loadPage(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return html.Parse(f)
}

// page indexes the elements the phases inspect.
type page struct {
	byID     map[string][]*html.Node
	cells    []*html.Node
	swatches []*html.Node
}

func indexPage(doc *html.Node) page {
	p := page{byID: make(map[string][]*html.Node)}
	walk(doc, func(n *html.Node) {
		if id, ok := attr(n, "id"); ok {
			p.byID[id] = append(p.byID[id], n)
		}
		switch {
		case n.Data == "rect" && hasClass(n, "cell"):
			p.cells = append(p.cells, n)
		case n.Data == "rect" && hasClass(n, "legend-swatch"):
			p.swatches = append(p.swatches, n)
		}
	})
	return p
}

func (p page) element(id string) *html.Node {
	if nodes := p.byID[id]; len(nodes) == 1 {
		return nodes[0]
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	return slices.Contains(strings.Fields(v), class)
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(sb.String())
}

func tickLabels(axis *html.Node) []string {
	var labels []string
	walk(axis, func(n *html.Node) {
		if hasClass(n, "tick") {
			labels = append(labels, textOf(n))
		}
	})
	return labels
}

// ── Phases ──

func validateStructure(p page) *phase {
	ph := &phase{name: "Phase 1: Element ids"}
	for _, id := range requiredIDs {
		switch n := len(p.byID[id]); n {
		case 1:
		case 0:
			ph.errorf("missing #%s", id)
		default:
			ph.errorf("#%s appears %d times", id, n)
		}
	}
	if tip := p.element("tooltip"); tip != nil && !hasClass(tip, "tooltip") {
		ph.errorf("#tooltip lacks class tooltip")
	}
	if legend := p.element("legend"); legend != nil && !hasClass(legend, "legend") {
		ph.errorf("#legend lacks class legend")
	}
	return ph
}

func validateCells(p page, ds domain.Dataset) *phase {
	ph := &phase{name: "Phase 2: Cell data attributes"}
	if len(p.cells) != len(ds.MonthlyVariance) {
		ph.errorf("cell count %d, want %d", len(p.cells), len(ds.MonthlyVariance))
		return ph
	}
	for i, n := range p.cells {
		o := ds.MonthlyVariance[i]

		month, err := intAttr(n, "data-month")
		if err != nil {
			ph.errorf("cell %d: %v", i, err)
		} else if month != o.Month-1 {
			ph.errorf("cell %d: data-month %d, want %d", i, month, o.Month-1)
		}

		year, err := intAttr(n, "data-year")
		if err != nil {
			ph.errorf("cell %d: %v", i, err)
		} else if year != o.Year {
			ph.errorf("cell %d: data-year %d, want %d", i, year, o.Year)
		}

		temp, err := floatAttr(n, "data-temp")
		if err != nil {
			ph.errorf("cell %d: %v", i, err)
		} else if want := ds.Temperature(o); math.Abs(temp-want) > tempTolerance {
			ph.errorf("cell %d: data-temp %v, want %v", i, temp, want)
		}
	}
	return ph
}

func validateLegend(p page) *phase {
	ph := &phase{name: "Phase 3: Legend"}
	fills := make(map[string]bool)
	for _, n := range p.swatches {
		fill, _ := attr(n, "fill")
		fills[fill] = true
	}
	if len(fills) < minLegendColors {
		ph.errorf("legend has %d distinct colors, want at least %d", len(fills), minLegendColors)
	}

	axis := p.element("c-axis")
	if axis == nil {
		return ph
	}
	var prev float64
	for i, label := range tickLabels(axis) {
		v, err := strconv.ParseFloat(label, 64)
		if err != nil {
			ph.errorf("legend tick %d: %q is not a number", i, label)
			continue
		}
		if i > 0 && v < prev {
			ph.errorf("legend tick %d: %v after %v, want ascending", i, v, prev)
		}
		prev = v
	}
	return ph
}

func validateAxes(p page, ds domain.Dataset) *phase {
	ph := &phase{name: "Phase 4: Axes"}
	first, last := ds.YearExtent()

	if axis := p.element("x-axis"); axis != nil {
		prev := math.MinInt
		for _, label := range tickLabels(axis) {
			year, err := strconv.Atoi(label)
			if err != nil {
				ph.errorf("x-axis tick %q is not a year", label)
				continue
			}
			if year < first || year > last {
				ph.errorf("x-axis tick %d outside %d-%d", year, first, last)
			}
			if year <= prev {
				ph.errorf("x-axis tick %d after %d, want ascending", year, prev)
			}
			prev = year
		}
	}

	if axis := p.element("y-axis"); axis != nil {
		labels := tickLabels(axis)
		if len(labels) != 12 {
			ph.errorf("y-axis has %d ticks, want 12", len(labels))
		}
		for i, label := range labels {
			if i < 12 && label != domain.MonthName(i+1) {
				ph.errorf("y-axis tick %d is %q, want %q", i, label, domain.MonthName(i+1))
			}
		}
	}
	return ph
}

func intAttr(n *html.Node, key string) (int, error) {
	v, ok := attr(n, key)
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, v, err)
	}
	return i, nil
}

func floatAttr(n *html.Node, key string) (float64, error) {
	v, ok := attr(n, key)
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, v, err)
	}
	return f, nil
}
