package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/net/html"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

func sampleDataset() domain.Dataset {
	ds := domain.Dataset{BaseTemperature: 8.66}
	for year := 1753; year <= 1772; year++ {
		for month := 1; month <= 12; month++ {
			v := float64((year-1753)*12+month-1)/100 - 1.2
			ds.MonthlyVariance = append(ds.MonthlyVariance, domain.Observation{Year: year, Month: month, Variance: v})
		}
	}
	ds.MonthlyVariance[0].Variance = -6.928
	return ds
}

func sampleChart(t *testing.T) domain.Chart {
	t.Helper()
	c, err := domain.Build(sampleDataset(), domain.DefaultLayout())
	require.NoError(t, err)
	return c
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
	return strings.Contains(" "+v+" ", " "+class+" ")
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func byID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	nodes := findAll(root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	require.Len(t, nodes, 1, "element #%s", id)
	return nodes[0]
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func parseHTML(t *testing.T, c domain.Chart) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, c))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	return doc
}

func TestHTML_Headings(t *testing.T) {
	doc := parseHTML(t, sampleChart(t))

	assert.Equal(t, domain.ChartTitle, text(byID(t, doc, "title")))
	assert.Equal(t, "1753-1772: base temperature 8.66℃", text(byID(t, doc, "description")))
}

func TestHTML_ContainersPresent(t *testing.T) {
	doc := parseHTML(t, sampleChart(t))

	for _, id := range []string{"heatmap", "x-axis", "y-axis", "legend", "c-axis", "x-label", "y-label"} {
		byID(t, doc, id)
	}
}

func TestHTML_CellAttributes(t *testing.T) {
	c := sampleChart(t)
	doc := parseHTML(t, c)

	cells := findAll(doc, func(n *html.Node) bool { return n.Data == "rect" && hasClass(n, "cell") })
	require.Len(t, cells, len(c.Cells))

	for i, n := range cells {
		want := c.Cells[i]
		month, _ := attr(n, "data-month")
		year, _ := attr(n, "data-year")
		assert.Equal(t, strconv.Itoa(want.Month-1), month)
		assert.Equal(t, strconv.Itoa(want.Year), year)

		temp, _ := attr(n, "data-temp")
		got, err := strconv.ParseFloat(temp, 64)
		require.NoError(t, err)
		assert.InDelta(t, want.Temp, got, 1e-9)
	}

	first := cells[0]
	temp, _ := attr(first, "data-temp")
	got, err := strconv.ParseFloat(temp, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.732, got, 1e-9)

	label, _ := attr(first, "data-label")
	assert.Equal(t, "1753 - February", label)
	variance, _ := attr(first, "data-variance")
	assert.Equal(t, "-6.928", variance)
	fill, _ := attr(first, "fill")
	assert.Equal(t, c.Cells[0].Fill, fill)
	transform, _ := attr(first, "transform")
	assert.Equal(t, "translate(100,50)", transform)
}

func TestHTML_CellDataAttrsMatchDomain(t *testing.T) {
	c := sampleChart(t)
	doc := parseHTML(t, c)

	cells := findAll(doc, func(n *html.Node) bool { return hasClass(n, "cell") })
	require.NotEmpty(t, cells)
	for _, a := range c.Cells[5].DataAttrs() {
		v, ok := attr(cells[5], a.Name)
		require.True(t, ok, a.Name)
		assert.Equal(t, a.Value, v, a.Name)
	}
}

func TestHTML_Legend(t *testing.T) {
	c := sampleChart(t)
	doc := parseHTML(t, c)

	swatches := findAll(doc, func(n *html.Node) bool { return hasClass(n, "legend-swatch") })
	require.Len(t, swatches, c.Layout.LegendCount)
	for i, n := range swatches {
		fill, _ := attr(n, "fill")
		assert.Equal(t, c.Legend.Swatches[i].Fill, fill)
	}

	ticks := findAll(byID(t, doc, "c-axis"), func(n *html.Node) bool { return hasClass(n, "tick") })
	require.Len(t, ticks, c.Layout.LegendCount+1)
	assert.Equal(t, domain.FormatFixed(c.VarianceMin, 2), text(ticks[0]))
}

func TestHTML_AxisTicks(t *testing.T) {
	doc := parseHTML(t, sampleChart(t))

	xTicks := findAll(byID(t, doc, "x-axis"), func(n *html.Node) bool { return hasClass(n, "tick") })
	var labels []string
	for _, n := range xTicks {
		labels = append(labels, text(n))
	}
	assert.Equal(t, []string{"1760", "1770"}, labels)

	yTicks := findAll(byID(t, doc, "y-axis"), func(n *html.Node) bool { return hasClass(n, "tick") })
	require.Len(t, yTicks, 12)
	assert.Equal(t, "January", text(yTicks[0]))
	assert.Equal(t, "December", text(yTicks[11]))
}

func TestHTML_XAxisCaption(t *testing.T) {
	doc := parseHTML(t, sampleChart(t))

	texts := findAll(byID(t, doc, "x-axis"), func(n *html.Node) bool {
		return n.Data == "text" && n.Parent != nil && !hasClass(n.Parent, "tick")
	})
	require.Len(t, texts, 1)
	assert.Equal(t, "Years", text(texts[0]))
	transform, _ := attr(texts[0], "transform")
	assert.Equal(t, "translate(15,15)", transform)

	captions := findAll(byID(t, doc, "y-axis"), func(n *html.Node) bool {
		return n.Data == "text" && !hasClass(n.Parent, "tick")
	})
	assert.Empty(t, captions)
}

func TestHTML_Tooltip(t *testing.T) {
	doc := parseHTML(t, sampleChart(t))

	tip := byID(t, doc, "tooltip")
	assert.True(t, hasClass(tip, "tooltip"))
	style, _ := attr(tip, "style")
	assert.Contains(t, style, "opacity: 0")
	state, _ := attr(tip, "data-state")
	assert.Equal(t, domain.TooltipHidden.String(), state)

	opacity, _ := attr(tip, "data-opacity")
	fadeIn, _ := attr(tip, "data-fade-in")
	fadeOut, _ := attr(tip, "data-fade-out")
	assert.Equal(t, "0.9", opacity)
	assert.Equal(t, "200", fadeIn)
	assert.Equal(t, "500", fadeOut)
}

func TestTooltipView_FollowsTransitions(t *testing.T) {
	layout := domain.DefaultLayout()
	layout.TooltipOpacity = 0.75
	layout.FadeIn = 150 * time.Millisecond
	layout.FadeOut = 900 * time.Millisecond

	v := newTooltipView(layout)

	assert.Equal(t, "hidden", v.State)
	assert.Equal(t, "0", v.Opacity)
	assert.Equal(t, "0.75", v.Shown)
	assert.Equal(t, int64(150), v.FadeInMS)
	assert.Equal(t, int64(900), v.FadeOutMS)
}

func TestHTML_EscapesText(t *testing.T) {
	c := sampleChart(t)
	c.Description = `<script>alert("x")</script>`

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, c))
	assert.NotContains(t, buf.String(), `<script>alert`)
}

func TestSVG_Standalone(t *testing.T) {
	c := sampleChart(t)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, c))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	assert.NotContains(t, out, "<html")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	svg := byID(t, doc, "heatmap")
	width, _ := attr(svg, "width")
	assert.Equal(t, domain.FormatNumber(c.Width), width)
	assert.Len(t, findAll(doc, func(n *html.Node) bool { return hasClass(n, "cell") }), len(c.Cells))
}

func TestSVG_WellFormedXML(t *testing.T) {
	c := sampleChart(t)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, c))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	dec := xml.NewDecoder(&buf)
	var root string
	var cells int
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root == "" {
			root = start.Name.Local
		}
		for _, a := range start.Attr {
			if a.Name.Local == "class" && a.Value == "cell" {
				cells++
			}
		}
	}
	assert.Equal(t, "svg", root)
	assert.Equal(t, len(c.Cells), cells)
}

func TestPNG_Dimensions(t *testing.T) {
	c := sampleChart(t)

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, c))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, int(math.Ceil(c.Width)), b.Dx())
	assert.Equal(t, int(math.Ceil(c.Height)), b.Dy())

	cell := c.Cells[len(c.Cells)-1]
	px := int(c.Layout.Margin.Left + cell.X + cell.Width/2)
	py := int(c.Layout.Margin.Top + cell.Y + cell.Height/2)
	r, g, bl, _ := img.At(px, py).RGBA()
	assert.False(t, r == 0xffff && g == 0xffff && bl == 0xffff, "cell pixel should not be background")
}

func TestPNG_DescriptionHasGlyphs(t *testing.T) {
	desc := bitmapText.Replace(sampleChart(t).Description)
	assert.Equal(t, "1753-1772: base temperature 8.66°C", desc)
	for _, r := range desc {
		_, ok := basicfont.Face7x13.GlyphAdvance(r)
		assert.True(t, ok, "no glyph for %q", r)
	}
}

func TestPNG_InvalidFill(t *testing.T) {
	c := sampleChart(t)
	c.Cells[0].Fill = "plasma"

	err := PNG(&bytes.Buffer{}, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cell 1753-1")
}

func TestJSON_RoundTrip(t *testing.T) {
	c := sampleChart(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, c))

	var got domain.Chart
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_DispatchesByFormat(t *testing.T) {
	c := sampleChart(t)

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			b, err := Bytes(f, c)
			require.NoError(t, err)
			assert.NotEmpty(t, b)
		})
	}

	err := Render(&bytes.Buffer{}, Format("gif"), c)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{" SVG ", FormatSVG, false},
		{"Png", FormatPNG, false},
		{"json", FormatJSON, false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"html", "png"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatHTML, FormatPNG}, got)

	_, err = ParseFormats([]string{"html", "bmp"})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormat_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", FormatHTML.ContentType())
	assert.Equal(t, ".png", FormatPNG.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage(&buf, errors.New("dataset source error: status 502: <bad gateway>")))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, domain.ChartTitle, text(byID(t, doc, "title")))
	assert.Contains(t, text(byID(t, doc, "error")), "status 502: <bad gateway>")
	assert.Empty(t, findAll(doc, func(n *html.Node) bool { return n.Data == "bad" }))
}

func TestErrorPage_NoCause(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage(&buf, nil))
	assert.Contains(t, buf.String(), "not been built yet")
}
