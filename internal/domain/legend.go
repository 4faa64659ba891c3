package domain

// Swatch is one legend square.
type Swatch struct {
	Value   float64 `json:"value"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Fill    string  `json:"fill"`
	Opacity float64 `json:"opacity"`
}

// Legend is the discrete color key drawn under the plot.
type Legend struct {
	Values   []float64 `json:"values"`
	Interval float64   `json:"interval"`
	Swatches []Swatch  `json:"swatches"`
	Axis     Axis      `json:"axis"`
}

// LegendValues spreads count values evenly over [lo, hi], both endpoints
// included, in ascending order. interval is the distance between neighbours.
func LegendValues(lo, hi float64, count int) (values []float64, interval float64) {
	if count < 2 {
		return []float64{lo}, 0
	}
	interval = (hi - lo) / float64(count-1)
	values = make([]float64, 0, count)
	values = append(values, lo)
	for i := 1; i < count-1; i++ {
		values = append(values, lo+float64(i)*interval)
	}
	values = append(values, hi)
	return values, interval
}

func buildLegend(color SequentialScale, layout Layout, plotHeight float64) Legend {
	lo, hi := color.Domain()
	values, interval := LegendValues(lo, hi, layout.LegendCount)

	top := layout.Margin.Top + plotHeight + layout.LegendOffset
	swatches := make([]Swatch, len(values))
	for i, v := range values {
		swatches[i] = Swatch{
			Value:   v,
			X:       layout.Margin.Left + float64(i)*(layout.SwatchSize+layout.SwatchPadding),
			Y:       top,
			Size:    layout.SwatchSize,
			Fill:    color.Color(v),
			Opacity: layout.CellOpacity,
		}
	}

	scale := NewLinearScale(lo, hi,
		layout.Margin.Left,
		layout.Margin.Left+(layout.SwatchSize-0.5)*float64(layout.LegendCount),
	)
	tickValues := append(append([]float64(nil), values...), values[len(values)-1]+interval)
	r0, r1 := scale.Range()
	axis := Axis{
		ID:            "c-axis",
		Orient:        OrientBottom,
		TranslateY:    plotHeight + layout.Margin.Top + layout.SwatchSize + layout.LegendOffset,
		RangeStart:    r0,
		RangeEnd:      r1,
		TickSizeInner: 6,
		TickSizeOuter: 6,
	}
	for _, v := range tickValues {
		axis.Ticks = append(axis.Ticks, Tick{
			Value:    v,
			Position: scale.Scale(v),
			Label:    FormatFixed(v, 2),
		})
	}

	return Legend{
		Values:   values,
		Interval: interval,
		Swatches: swatches,
		Axis:     axis,
	}
}
