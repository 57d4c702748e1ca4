package builder

import (
	"cmp"
	"math"
	"slices"

	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/internal/d3"
)

// Part is a group of identical rectangular panels. Dimensions are in
// centimetres with Length >= Width >= Thickness.
type Part struct {
	Length    float64  `json:"length"`
	Width     float64  `json:"width"`
	Thickness float64  `json:"thickness"`
	Quantity  int      `json:"quantity"`
	Bodies    []string `json:"bodies"`
}

// Area returns the face area of a single panel in cm².
func (p Part) Area() float64 { return p.Length * p.Width }

// CutList groups the panels of a wardrobe by size.
type CutList struct {
	Parts []Part `json:"parts"`
	// Area is the summed face area of every panel in cm².
	Area float64 `json:"area"`
}

// Count returns the total number of panels.
func (c CutList) Count() (n int) {
	for _, p := range c.Parts {
		n += p.Quantity
	}
	return n
}

// cutPrecision is the size resolution used to group panels, in cm.
const cutPrecision = 0.01

// NewCutList groups bodies by their sorted box dimensions. Parts are
// ordered largest face first.
func NewCutList(bodies []*cad.Body) CutList {
	type dims [3]float64
	index := make(map[dims]int)
	var cl CutList
	for _, b := range bodies {
		sz := d3.Box(b.Box).Size()
		d := dims{round(sz.X), round(sz.Y), round(sz.Z)}
		slices.SortFunc(d[:], func(a, b float64) int { return cmp.Compare(b, a) })
		i, ok := index[d]
		if !ok {
			i = len(cl.Parts)
			index[d] = i
			cl.Parts = append(cl.Parts, Part{Length: d[0], Width: d[1], Thickness: d[2]})
		}
		cl.Parts[i].Quantity++
		cl.Parts[i].Bodies = append(cl.Parts[i].Bodies, b.Name)
		cl.Area += d[0] * d[1]
	}
	slices.SortStableFunc(cl.Parts, func(a, b Part) int {
		if c := cmp.Compare(b.Area(), a.Area()); c != 0 {
			return c
		}
		return cmp.Compare(b.Thickness, a.Thickness)
	})
	return cl
}

func round(v float64) float64 { return math.Round(v/cutPrecision) * cutPrecision }
