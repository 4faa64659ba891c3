package domain

import (
	"fmt"
	"time"
)

// ChartTitle is the heading rendered above the heatmap.
const ChartTitle = "Monthly Global Land-Surface Temperature"

// Attr is a name/value pair exposed on a rendered element.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cell is the rectangle for one observation.
type Cell struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"` // 1-based
	Variance float64 `json:"variance"`
	Temp     float64 `json:"temp"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Fill     string  `json:"fill"`
	Opacity  float64 `json:"opacity"`
}

// MonthIndex is the zero-based month published as data-month.
func (c Cell) MonthIndex() int {
	return c.Month - 1
}

// DataAttrs returns the inspectable attributes of the cell in render order.
func (c Cell) DataAttrs() []Attr {
	return []Attr{
		{Name: "data-month", Value: fmt.Sprint(c.MonthIndex())},
		{Name: "data-year", Value: fmt.Sprint(c.Year)},
		{Name: "data-temp", Value: FormatNumber(c.Temp)},
	}
}

// Label is a free-standing text element.
type Label struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Anchor    string  `json:"anchor"`
	Baseline  string  `json:"baseline,omitempty"`
	RotateDeg float64 `json:"rotate_deg,omitempty"`
}

// Chart is the complete, backend-neutral heatmap scene.
type Chart struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BaseTemperature float64   `json:"base_temperature"`
	FirstYear       int       `json:"first_year"`
	LastYear        int       `json:"last_year"`
	VarianceMin     float64   `json:"variance_min"`
	VarianceMax     float64   `json:"variance_max"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	PlotWidth       float64   `json:"plot_width"`
	PlotHeight      float64   `json:"plot_height"`
	Layout          Layout    `json:"layout"`
	Cells           []Cell    `json:"cells"`
	XAxis           Axis      `json:"x_axis"`
	YAxis           Axis      `json:"y_axis"`
	XLabel          Label     `json:"x_label"`
	YLabel          Label     `json:"y_label"`
	Legend          Legend    `json:"legend"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Build validates ds and lays out the heatmap scene. Cell positions are
// derived from year and month values, so observation order does not matter.
func Build(ds Dataset, layout Layout) (Chart, error) {
	if err := layout.Validate(); err != nil {
		return Chart{}, err
	}
	if err := ds.Validate(); err != nil {
		return Chart{}, fmt.Errorf("invalid dataset: %w", err)
	}

	plotWidth := layout.CellWidth * float64(len(ds.MonthlyVariance)) / 12
	plotHeight := layout.CellHeight * 12

	years := ds.Years()
	xScale := NewBandScale(years, 0, plotWidth)
	yScale := NewBandScale([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 0, plotHeight)

	lo, hi := ds.VarianceExtent()
	color := NewSequentialScale(lo, hi, Plasma)

	cells := make([]Cell, len(ds.MonthlyVariance))
	for i, o := range ds.MonthlyVariance {
		x, _ := xScale.Position(o.Year)
		y, _ := yScale.Position(o.Month)
		cells[i] = Cell{
			Year:     o.Year,
			Month:    o.Month,
			Variance: o.Variance,
			Temp:     ds.Temperature(o),
			X:        x,
			Y:        y,
			Width:    layout.CellWidth,
			Height:   layout.CellHeight,
			Fill:     color.Color(o.Variance * layout.FillFactor),
			Opacity:  layout.CellOpacity,
		}
	}

	first, last := ds.YearExtent()
	m := layout.Margin
	return Chart{
		Title:           ChartTitle,
		Description:     fmt.Sprintf("%d-%d: base temperature %s℃", first, last, FormatNumber(ds.BaseTemperature)),
		BaseTemperature: ds.BaseTemperature,
		FirstYear:       first,
		LastYear:        last,
		VarianceMin:     lo,
		VarianceMax:     hi,
		Width:           plotWidth + m.Left + m.Right,
		Height:          plotHeight + m.Top + m.Bottom,
		PlotWidth:       plotWidth,
		PlotHeight:      plotHeight,
		Layout:          layout,
		Cells:           cells,
		XAxis:           yearAxis(xScale, layout, plotHeight),
		YAxis:           monthAxis(yScale, layout),
		XLabel: Label{
			ID:       "x-label",
			Text:     "Years",
			X:        plotWidth / 4,
			Y:        m.Top + plotHeight + layout.XLabelOffset,
			Anchor:   "start",
			Baseline: "hanging",
		},
		YLabel: Label{
			ID:        "y-label",
			Text:      "Months",
			X:         -(m.Top + plotHeight) / 2,
			Y:         m.Left / 3,
			Anchor:    "middle",
			RotateDeg: -90,
		},
		Legend:      buildLegend(color, layout, plotHeight),
		GeneratedAt: clock.Now().UTC(),
	}, nil
}

// Summary is the compact form of a chart published to downstream consumers.
type Summary struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BaseTemperature float64   `json:"base_temperature"`
	FirstYear       int       `json:"first_year"`
	LastYear        int       `json:"last_year"`
	VarianceMin     float64   `json:"variance_min"`
	VarianceMax     float64   `json:"variance_max"`
	CellCount       int       `json:"cell_count"`
	LegendValues    []float64 `json:"legend_values"`
	LegendColors    []string  `json:"legend_colors"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Summary condenses c for publishing.
func (c Chart) Summary() Summary {
	colors := make([]string, len(c.Legend.Swatches))
	for i, s := range c.Legend.Swatches {
		colors[i] = s.Fill
	}
	return Summary{
		Title:           c.Title,
		Description:     c.Description,
		BaseTemperature: c.BaseTemperature,
		FirstYear:       c.FirstYear,
		LastYear:        c.LastYear,
		VarianceMin:     c.VarianceMin,
		VarianceMax:     c.VarianceMax,
		CellCount:       len(c.Cells),
		LegendValues:    c.Legend.Values,
		LegendColors:    colors,
		GeneratedAt:     c.GeneratedAt,
	}
}
