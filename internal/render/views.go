package render

import (
	"strconv"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// The view types hold chart values already formatted for the markup
// templates, so the templates stay free of arithmetic.

type tickView struct {
	Transform string
	X2, Y2    string
	TextX     string
	TextY     string
	Dy        string
	Label     string
}

type captionView struct {
	Text      string
	Transform string
}

type axisView struct {
	ID        string
	Transform string
	Anchor    string
	Path      string
	Ticks     []tickView
	Caption   *captionView
}

type labelView struct {
	ID        string
	Text      string
	X, Y      string
	Anchor    string
	Baseline  string
	Transform string
}

type cellView struct {
	Month    string
	Year     string
	Temp     string
	Variance string
	Label    string
	Width    string
	Height   string
	X, Y     string
	Fill     string
	Opacity  string
}

type swatchView struct {
	X, Y    string
	Size    string
	Fill    string
	Opacity string
}

type legendView struct {
	Axis     axisView
	Swatches []swatchView
}

type chartView struct {
	Width         string
	Height        string
	CellTransform string
	XAxis         axisView
	YAxis         axisView
	XLabel        labelView
	YLabel        labelView
	Cells         []cellView
	Legend        legendView
}

// tooltipView carries the hidden starting state of the shared tooltip and
// the targets of its enter and leave transitions to the page script.
type tooltipView struct {
	State     string
	Opacity   string
	Shown     string
	FadeInMS  int64
	FadeOutMS int64
}

type pageView struct {
	Title       string
	Description string
	Chart       chartView
	Tooltip     tooltipView
}

type errorView struct {
	Title   string
	Message string
}

var num = domain.FormatNumber

func translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}

func newAxisView(a domain.Axis) axisView {
	lx, ly, dy, anchor := a.LabelAnchor()
	x2, y2 := a.TickLineEnd()
	v := axisView{
		ID:        a.ID,
		Transform: translate(a.TranslateX, a.TranslateY),
		Anchor:    anchor,
		Path:      a.DomainPath(),
		Ticks:     make([]tickView, len(a.Ticks)),
	}
	for i, t := range a.Ticks {
		v.Ticks[i] = tickView{
			Transform: translate(a.TickTranslate(t)),
			X2:        num(x2),
			Y2:        num(y2),
			TextX:     num(lx),
			TextY:     num(ly),
			Dy:        dy,
			Label:     t.Label,
		}
	}
	if a.Caption != nil {
		v.Caption = &captionView{
			Text:      a.Caption.Text,
			Transform: translate(a.Caption.X, a.Caption.Y),
		}
	}
	return v
}

func newLabelView(l domain.Label) labelView {
	v := labelView{
		ID:       l.ID,
		Text:     l.Text,
		X:        num(l.X),
		Y:        num(l.Y),
		Anchor:   l.Anchor,
		Baseline: l.Baseline,
	}
	if l.RotateDeg != 0 {
		v.Transform = "rotate(" + num(l.RotateDeg) + ")"
	}
	return v
}

func newChartView(c domain.Chart) chartView {
	cells := make([]cellView, len(c.Cells))
	for i, cell := range c.Cells {
		cells[i] = cellView{
			Month:    strconv.Itoa(cell.MonthIndex()),
			Year:     strconv.Itoa(cell.Year),
			Temp:     num(cell.Temp),
			Variance: num(cell.Variance),
			Label:    domain.TooltipHeading(cell.Year, cell.Month),
			Width:    num(cell.Width),
			Height:   num(cell.Height),
			X:        num(cell.X),
			Y:        num(cell.Y),
			Fill:     cell.Fill,
			Opacity:  num(cell.Opacity),
		}
	}

	swatches := make([]swatchView, len(c.Legend.Swatches))
	for i, s := range c.Legend.Swatches {
		swatches[i] = swatchView{
			X:       num(s.X),
			Y:       num(s.Y),
			Size:    num(s.Size),
			Fill:    s.Fill,
			Opacity: num(s.Opacity),
		}
	}

	return chartView{
		Width:         num(c.Width),
		Height:        num(c.Height),
		CellTransform: translate(c.Layout.Margin.Left, c.Layout.Margin.Top),
		XAxis:         newAxisView(c.XAxis),
		YAxis:         newAxisView(c.YAxis),
		XLabel:        newLabelView(c.XLabel),
		YLabel:        newLabelView(c.YLabel),
		Cells:         cells,
		Legend: legendView{
			Axis:     newAxisView(c.Legend.Axis),
			Swatches: swatches,
		},
	}
}

func newPageView(c domain.Chart) pageView {
	return pageView{
		Title:       c.Title,
		Description: c.Description,
		Chart:       newChartView(c),
		Tooltip:     newTooltipView(c.Layout),
	}
}

func newTooltipView(layout domain.Layout) tooltipView {
	tip := domain.NewTooltip(layout)
	v := tooltipView{
		State:   tip.State().String(),
		Opacity: num(tip.Opacity()),
	}

	tip.Enter(domain.Cell{}, 0, 0)
	v.Shown = num(tip.Opacity())
	v.FadeInMS = tip.Transition().Milliseconds()

	tip.Leave()
	v.FadeOutMS = tip.Transition().Milliseconds()
	return v
}
