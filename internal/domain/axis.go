package domain

import "strconv"

// Orientation is the side of the plot an axis is drawn on.
type Orientation string

const (
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
)

// axisOffset aligns 1px strokes to the pixel grid.
const axisOffset = 0.5

// Tick is one labelled mark along an axis.
type Tick struct {
	Value    float64 `json:"value"`
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// AxisCaption is an untitled text node appended inside an axis group,
// positioned relative to the group origin.
type AxisCaption struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Axis describes a rendered axis: where its group sits, the extent of its
// domain line and its ticks.
type Axis struct {
	ID            string      `json:"id"`
	Orient        Orientation `json:"orient"`
	TranslateX    float64     `json:"translate_x"`
	TranslateY    float64     `json:"translate_y"`
	RangeStart    float64     `json:"range_start"`
	RangeEnd      float64     `json:"range_end"`
	TickSizeInner float64     `json:"tick_size_inner"`
	TickSizeOuter float64     `json:"tick_size_outer"`
	Ticks         []Tick      `json:"ticks"`

	// Caption inherits the group's fill of none, so browsers do not paint it.
	Caption *AxisCaption `json:"caption,omitempty"`
}

func (a Axis) sign() float64 {
	if a.Orient == OrientLeft {
		return -1
	}
	return 1
}

// DomainPath returns the SVG path data for the axis domain line, including
// outer ticks when TickSizeOuter is non-zero.
func (a Axis) DomainPath() string {
	r0 := FormatNumber(a.RangeStart + axisOffset)
	r1 := FormatNumber(a.RangeEnd + axisOffset)
	off := FormatNumber(axisOffset)
	outer := FormatNumber(a.sign() * a.TickSizeOuter)
	if a.Orient == OrientLeft {
		if a.TickSizeOuter != 0 {
			return "M" + outer + "," + r0 + "H" + off + "V" + r1 + "H" + outer
		}
		return "M" + off + "," + r0 + "V" + r1
	}
	if a.TickSizeOuter != 0 {
		return "M" + r0 + "," + outer + "V" + off + "H" + r1 + "V" + outer
	}
	return "M" + r0 + "," + off + "H" + r1
}

// TickTranslate returns the offset of a tick group relative to the axis group.
func (a Axis) TickTranslate(t Tick) (x, y float64) {
	if a.Orient == OrientLeft {
		return 0, t.Position + axisOffset
	}
	return t.Position + axisOffset, 0
}

// TickLineEnd returns the far end of a tick line; the line starts at the origin.
func (a Axis) TickLineEnd() (x, y float64) {
	if a.Orient == OrientLeft {
		return a.sign() * a.TickSizeInner, 0
	}
	return 0, a.TickSizeInner
}

// LabelAnchor returns the label position, its dy shift and text-anchor.
func (a Axis) LabelAnchor() (x, y float64, dy, anchor string) {
	spacing := max(a.TickSizeInner, 0) + 3
	if a.Orient == OrientLeft {
		return a.sign() * spacing, 0, "0.32em", "end"
	}
	return 0, spacing, "0.71em", "middle"
}

func yearAxis(x BandScale[int], layout Layout, plotHeight float64) Axis {
	r0, r1 := x.Range()
	ax := Axis{
		ID:            "x-axis",
		Orient:        OrientBottom,
		TranslateX:    layout.Margin.Left,
		TranslateY:    plotHeight + layout.Margin.Top,
		RangeStart:    r0,
		RangeEnd:      r1,
		TickSizeInner: 6,
		TickSizeOuter: 0,
		Caption:       &AxisCaption{Text: "Years", X: 15, Y: 15},
	}
	for _, year := range x.Domain() {
		if year%layout.XTickEvery != 0 {
			continue
		}
		pos, _ := x.Center(year)
		ax.Ticks = append(ax.Ticks, Tick{
			Value:    float64(year),
			Position: pos,
			Label:    strconv.Itoa(year),
		})
	}
	return ax
}

func monthAxis(y BandScale[int], layout Layout) Axis {
	r0, r1 := y.Range()
	ax := Axis{
		ID:         "y-axis",
		Orient:     OrientLeft,
		TranslateX: layout.Margin.Left,
		TranslateY: layout.Margin.Top,
		RangeStart: r0,
		RangeEnd:   r1,
	}
	for _, month := range y.Domain() {
		pos, _ := y.Center(month)
		ax.Ticks = append(ax.Ticks, Tick{
			Value:    float64(month),
			Position: pos,
			Label:    MonthName(month),
		})
	}
	return ax
}
