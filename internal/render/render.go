// Package render draws a domain.Chart as an HTML page, a standalone SVG
// document, a PNG raster or JSON.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("render").ParseFS(templateFS, "templates/*.tmpl"))

// ErrUnknownFormat is returned for output formats this package cannot draw.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output representation of a chart.
type Format string

const (
	FormatHTML Format = "html"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatHTML, FormatSVG, FormatPNG, FormatJSON}

// ParseFormat maps a case-insensitive name such as "svg" to its Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatHTML, FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseFormats parses each name in order, failing on the first unknown one.
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// ContentType returns the media type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Render writes c to w in format f.
func Render(w io.Writer, f Format, c domain.Chart) error {
	switch f {
	case FormatHTML:
		return HTML(w, c)
	case FormatSVG:
		return SVG(w, c)
	case FormatPNG:
		return PNG(w, c)
	case FormatJSON:
		return JSON(w, c)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Bytes renders c in format f into memory.
func Bytes(f Format, c domain.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, f, c); err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// HTML writes the interactive page: title, description, the inline SVG
// heatmap and the shared tooltip element.
func HTML(w io.Writer, c domain.Chart) error {
	return templates.ExecuteTemplate(w, "page.html", newPageView(c))
}

// SVG writes the heatmap as a standalone SVG document. The XML declaration
// is written directly since html/template escapes a literal "<?".
func SVG(w io.Writer, c domain.Chart) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if err := templates.ExecuteTemplate(w, "heatmap", newChartView(c)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// JSON writes the full chart scene.
func JSON(w io.Writer, c domain.Chart) error {
	return json.NewEncoder(w).Encode(c)
}

// ErrorPage writes the page shown in place of the chart when the dataset
// could not be loaded or the chart could not be built.
func ErrorPage(w io.Writer, cause error) error {
	msg := "chart has not been built yet"
	if cause != nil {
		msg = cause.Error()
	}
	return templates.ExecuteTemplate(w, "error.html", errorView{
		Title:   domain.ChartTitle,
		Message: msg,
	})
}
