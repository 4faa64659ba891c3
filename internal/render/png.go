package render

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

const (
	inkColor      = "#000000"
	titleBaseline = 20
	descBaseline  = 38
)

// bitmapText swaps runes the 7x13 face has no glyph for.
var bitmapText = strings.NewReplacer("℃", "°C")

// PNG rasterises c at its natural pixel size. Text uses the built-in
// 7x13 bitmap face so no font files are needed at runtime.
func PNG(w io.Writer, c domain.Chart) error {
	dc, err := drawChart(c)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func drawChart(c domain.Chart) (*gg.Context, error) {
	width := int(math.Ceil(c.Width))
	height := int(math.Ceil(c.Height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	dc := gg.NewContextForRGBA(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetHexColor(inkColor)
	dc.DrawStringAnchored(c.Title, c.Width/2, titleBaseline, 0.5, 0)
	dc.DrawStringAnchored(bitmapText.Replace(c.Description), c.Width/2, descBaseline, 0.5, 0)

	m := c.Layout.Margin
	for _, cell := range c.Cells {
		if err := fillRect(dc, cell.Fill, cell.Opacity, m.Left+cell.X, m.Top+cell.Y, cell.Width, cell.Height); err != nil {
			return nil, fmt.Errorf("cell %d-%d: %w", cell.Year, cell.Month, err)
		}
	}
	for _, s := range c.Legend.Swatches {
		if err := fillRect(dc, s.Fill, s.Opacity, s.X, s.Y, s.Size, s.Size); err != nil {
			return nil, fmt.Errorf("legend swatch %s: %w", domain.FormatFixed(s.Value, 2), err)
		}
	}

	drawAxis(dc, c.XAxis)
	drawAxis(dc, c.YAxis)
	drawAxis(dc, c.Legend.Axis)
	drawLabel(dc, c.XLabel)
	drawLabel(dc, c.YLabel)
	return dc, nil
}

func fillRect(dc *gg.Context, hex string, opacity, x, y, w, h float64) error {
	r, g, b, err := domain.RGB(hex)
	if err != nil {
		return err
	}
	dc.SetRGBA255(int(r), int(g), int(b), int(math.Round(opacity*255)))
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	return nil
}

func drawAxis(dc *gg.Context, a domain.Axis) {
	dc.Push()
	defer dc.Pop()

	dc.Translate(a.TranslateX, a.TranslateY)
	dc.SetHexColor(inkColor)
	dc.SetLineWidth(1)

	outer := a.TickSizeOuter
	if a.Orient == domain.OrientLeft {
		dc.DrawLine(-outer, a.RangeStart, 0, a.RangeStart)
		dc.DrawLine(0, a.RangeStart, 0, a.RangeEnd)
		dc.DrawLine(0, a.RangeEnd, -outer, a.RangeEnd)
	} else {
		dc.DrawLine(a.RangeStart, outer, a.RangeStart, 0)
		dc.DrawLine(a.RangeStart, 0, a.RangeEnd, 0)
		dc.DrawLine(a.RangeEnd, 0, a.RangeEnd, outer)
	}
	dc.Stroke()

	x2, y2 := a.TickLineEnd()
	lx, ly, _, _ := a.LabelAnchor()
	for _, t := range a.Ticks {
		tx, ty := a.TickTranslate(t)
		dc.DrawLine(tx, ty, tx+x2, ty+y2)
		dc.Stroke()
		if a.Orient == domain.OrientLeft {
			dc.DrawStringAnchored(t.Label, tx+lx, ty+ly, 1, 0.35)
		} else {
			dc.DrawStringAnchored(t.Label, tx+lx, ty+ly, 0.5, 1)
		}
	}
}

func drawLabel(dc *gg.Context, l domain.Label) {
	ax := 0.0
	switch l.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	ay := 0.0
	if l.Baseline == "hanging" {
		ay = 1
	}

	dc.SetHexColor(inkColor)
	if l.RotateDeg == 0 {
		dc.DrawStringAnchored(l.Text, l.X, l.Y, ax, ay)
		return
	}
	// The label coordinates live in the rotated frame.
	rad := gg.Radians(l.RotateDeg)
	sx := l.X*math.Cos(rad) - l.Y*math.Sin(rad)
	sy := l.X*math.Sin(rad) + l.Y*math.Cos(rad)
	dc.Push()
	dc.RotateAbout(rad, sx, sy)
	dc.DrawStringAnchored(l.Text, sx, sy, ax, ay)
	dc.Pop()
}
