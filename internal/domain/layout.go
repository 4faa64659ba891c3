package domain

import (
	"errors"
	"time"
)

// Margin is the space around the plot area, in pixels.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout holds every size and styling constant used by Build. Pass it by
// value; Build never modifies it.
type Layout struct {
	Margin Margin `json:"margin"`

	CellWidth   float64 `json:"cell_width"`
	CellHeight  float64 `json:"cell_height"`
	CellOpacity float64 `json:"cell_opacity"`
	// FillFactor scales variance before it is fed to the color scale for grid cells only.
	FillFactor float64 `json:"fill_factor"`

	XTickEvery   int     `json:"x_tick_every"`
	XLabelOffset float64 `json:"x_label_offset"`

	LegendCount   int     `json:"legend_count"`
	LegendOffset  float64 `json:"legend_offset"` // gap between the plot bottom and the swatches
	SwatchSize    float64 `json:"swatch_size"`
	SwatchPadding float64 `json:"swatch_padding"`

	TooltipOpacity float64       `json:"tooltip_opacity"`
	FadeIn         time.Duration `json:"fade_in"`
	FadeOut        time.Duration `json:"fade_out"`
}

// DefaultLayout returns the layout of the published chart.
func DefaultLayout() Layout {
	return Layout{
		Margin:         Margin{Top: 50, Right: 100, Bottom: 300, Left: 100},
		CellWidth:      8,
		CellHeight:     30,
		CellOpacity:    0.8,
		FillFactor:     2,
		XTickEvery:     10,
		XLabelOffset:   50,
		LegendCount:    10,
		LegendOffset:   100,
		SwatchSize:     30,
		SwatchPadding:  3,
		TooltipOpacity: 0.9,
		FadeIn:         200 * time.Millisecond,
		FadeOut:        500 * time.Millisecond,
	}
}

// Validate rejects layouts that cannot produce a drawable chart.
func (l Layout) Validate() error {
	switch {
	case l.CellWidth <= 0 || l.CellHeight <= 0:
		return errors.New("layout: cell size must be positive")
	case l.LegendCount < 2:
		return errors.New("layout: legend count must be at least 2")
	case l.SwatchSize <= 0:
		return errors.New("layout: swatch size must be positive")
	case l.XTickEvery <= 0:
		return errors.New("layout: x tick interval must be positive")
	}
	return nil
}
