package domain

import (
	"fmt"
	"time"
)

// TooltipState is the visibility of the shared tooltip.
type TooltipState int

const (
	TooltipHidden TooltipState = iota
	TooltipVisible
)

func (s TooltipState) String() string {
	switch s {
	case TooltipHidden:
		return "hidden"
	case TooltipVisible:
		return "visible"
	default:
		return fmt.Sprintf("TooltipState(%d)", int(s))
	}
}

// TooltipContent is what the tooltip shows for a hovered cell.
type TooltipContent struct {
	Heading string `json:"heading"` // "1753 - February"
	Detail  string `json:"detail"`  // "-6.928℃"
}

// TooltipHeading formats the year-month line for a cell. The 1-based month
// is applied as a zero-based offset from January, so the heading names the
// following month and December rolls over into January of the next year.
func TooltipHeading(year, month int) string {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Format("2006 - January")
}

// TooltipDetail formats the raw variance line for a cell.
func TooltipDetail(variance float64) string {
	return FormatNumber(variance) + "℃"
}

// Tooltip is the single hover tooltip shared by every cell. Each Enter
// overwrites the previous content, so the last hover wins.
//
// Tooltip is not safe for concurrent use.
type Tooltip struct {
	state      TooltipState
	opacity    float64
	transition time.Duration
	content    TooltipContent
	left, top  float64
	year       int

	visibleOpacity float64
	fadeIn         time.Duration
	fadeOut        time.Duration
}

// NewTooltip returns a hidden tooltip using the layout's opacity and fade durations.
func NewTooltip(layout Layout) *Tooltip {
	return &Tooltip{
		state:          TooltipHidden,
		visibleOpacity: layout.TooltipOpacity,
		fadeIn:         layout.FadeIn,
		fadeOut:        layout.FadeOut,
	}
}

// Enter shows the tooltip for c at the pointer's page coordinates. The
// position is captured once; it does not follow the pointer afterwards.
func (t *Tooltip) Enter(c Cell, pageX, pageY float64) {
	t.state = TooltipVisible
	t.opacity = t.visibleOpacity
	t.transition = t.fadeIn
	t.content = TooltipContent{
		Heading: TooltipHeading(c.Year, c.Month),
		Detail:  TooltipDetail(c.Variance),
	}
	t.left, t.top = pageX, pageY
	t.year = c.Year
}

// Leave fades the tooltip out. Content and position are kept until the next Enter.
func (t *Tooltip) Leave() {
	t.state = TooltipHidden
	t.opacity = 0
	t.transition = t.fadeOut
}

func (t *Tooltip) State() TooltipState { return t.state }

// Opacity is the target opacity of the current transition.
func (t *Tooltip) Opacity() float64 { return t.opacity }

// Transition is the duration of the most recent fade.
func (t *Tooltip) Transition() time.Duration { return t.transition }

func (t *Tooltip) Content() TooltipContent { return t.content }

func (t *Tooltip) Position() (left, top float64) { return t.left, t.top }

// Year is the data-year of the last hovered cell.
func (t *Tooltip) Year() int { return t.year }
