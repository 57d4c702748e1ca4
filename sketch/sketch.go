// Package sketch draws the structural lines of a wardrobe layout.
package sketch

import (
	"fmt"
	"image/color"
	"io"

	"github.com/soypat/wardrobe/layout"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Formats lists the supported output formats.
var Formats = []string{"png", "svg", "pdf"}

// Options configures the drawing. Zero values select defaults.
type Options struct {
	Title string
	// Width of the output. The height follows the wardrobe aspect ratio.
	Width vg.Length
	// Margin around the outline, in centimetres.
	Margin float64
}

var styles = map[layout.Kind]struct {
	color color.Color
	width vg.Length
	dash  []vg.Length
}{
	layout.Outer:         {color.Black, vg.Points(1.5), nil},
	layout.LeftDivider:   {color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, vg.Points(1), nil},
	layout.RightDivider:  {color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, vg.Points(1), nil},
	layout.MiddleDivider: {color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, vg.Points(1), []vg.Length{vg.Points(4), vg.Points(2)}},
	layout.Shelf:         {color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff}, vg.Points(1), nil},
}

// Plot returns a plot with one line per segment of res.
func Plot(res layout.Result, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"

	legend := make(map[layout.Kind]bool)
	for _, seg := range res.Segments() {
		l, err := plotter.NewLine(plotter.XYs{{X: seg.A.X, Y: seg.A.Y}, {X: seg.B.X, Y: seg.B.Y}})
		if err != nil {
			return nil, fmt.Errorf("%s segment: %w", seg.Kind, err)
		}
		st := styles[seg.Kind]
		l.LineStyle = draw.LineStyle{Color: st.color, Width: st.width, Dashes: st.dash}
		p.Add(l)
		if !legend[seg.Kind] {
			legend[seg.Kind] = true
			p.Legend.Add(seg.Kind.String(), l)
		}
	}
	bb := res.Bounds()
	m := opts.Margin
	if m <= 0 {
		m = 0.05 * max(bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y)
	}
	p.X.Min, p.X.Max = bb.Min.X-m, bb.Max.X+m
	p.Y.Min, p.Y.Max = bb.Min.Y-m, bb.Max.Y+m
	p.Legend.Top = true
	return p, nil
}

// Write draws res to w in the given format.
func Write(w io.Writer, res layout.Result, format string, opts Options) error {
	if !supported(format) {
		return fmt.Errorf("sketch: unsupported format %q", format)
	}
	p, err := Plot(res, opts)
	if err != nil {
		return err
	}
	width := opts.Width
	if width <= 0 {
		width = 12 * vg.Centimeter
	}
	bb := res.Bounds()
	height := width * vg.Length((bb.Max.Y-bb.Min.Y)/(bb.Max.X-bb.Min.X))
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
