// Package layout derives the structural sketch of a wardrobe from its
// dimensions and combo/partition counts.
//
// The coordinate system has its origin at the bottom left corner of the
// wardrobe front. x grows towards the width and y towards the height.
// All lengths are in centimetres.
package layout

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clearance is the offset from a wall centerline applied to divider and
// shelf endpoints so that coincident sketch lines never share an edge.
const Clearance = 0.05

// Kind classifies a structural line.
type Kind uint8

const (
	_ Kind = iota
	Outer
	LeftDivider
	RightDivider
	MiddleDivider
	Shelf
)

func (k Kind) String() (str string) {
	switch k {
	case Outer:
		str = "outer"
	case LeftDivider:
		str = "left"
	case RightDivider:
		str = "right"
	case MiddleDivider:
		str = "middle"
	case Shelf:
		str = "shelf"
	default:
		str = "unknown"
	}
	return str
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < Outer || k > Shelf {
		return nil, fmt.Errorf("layout: invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for c := Outer; c <= Shelf; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("layout: unknown kind %q", text)
}

// Segment is a straight structural line from A to B.
type Segment struct {
	A    r2.Vec `json:"a"`
	B    r2.Vec `json:"b"`
	Kind Kind   `json:"kind"`
	// Column is the combo column the segment belongs to. Outer segments have Column -1.
	Column int `json:"column"`
	// Row is the partition row of a shelf. Zero for walls and dividers.
	Row int `json:"row,omitempty"`
}

// Length returns the distance between the segment endpoints.
func (s Segment) Length() float64 { return r2.Norm(r2.Sub(s.B, s.A)) }

// Vertical reports whether the segment is parallel to the y axis.
// Midpoint returns the point halfway between A and B.
func (s Segment) Midpoint() r2.Vec { return r2.Scale(0.5, r2.Add(s.A, s.B)) }

func (s Segment) Vertical() bool { return s.A.X == s.B.X }

// Result is the sketch produced by Generate.
type Result struct {
	// Outer is the closed outer boundary, counter-clockwise from the origin.
	Outer [4]Segment `json:"outer"`
	// Inner holds the open divider and shelf lines. Each one becomes an
	// independent profile.
	Inner []Segment `json:"inner"`
}

// Count returns the number of inner segments of the given kind. Outer
// returns 4.
func (r Result) Count(k Kind) int {
	if k == Outer {
		return len(r.Outer)
	}
	n := 0
	for _, s := range r.Inner {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Segments returns the outer boundary followed by the inner segments.
func (r Result) Segments() []Segment {
	all := make([]Segment, 0, len(r.Outer)+len(r.Inner))
	all = append(all, r.Outer[:]...)
	return append(all, r.Inner...)
}

// Bounds returns the bounding box of the outer boundary.
func (r Result) Bounds() r2.Box {
	return r2.Box{Min: r.Outer[0].A, Max: r.Outer[1].B}
}

// Equal reports whether two results hold the same geometry. Inner segments
// are compared as a set.
func (r Result) Equal(other Result) bool {
	if r.Outer != other.Outer || len(r.Inner) != len(other.Inner) {
		return false
	}
	seen := make(map[Segment]int, len(r.Inner))
	for _, s := range r.Inner {
		seen[s]++
	}
	for _, s := range other.Inner {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}

// Generate returns the structural sketch of a wardrobe. It fails with a
// *ValidationError instead of producing degenerate geometry.
// Generate is pure: identical specs give identical results.
func Generate(spec Spec) (Result, error) {
	if err := Validate(spec); err != nil {
		return Result{}, err
	}
	var (
		W, H = spec.Width, spec.Height
		t    = spec.WallThickness
		cw   = spec.ComboWidth()
		ph   = spec.PartitionHeight()
		last = spec.ComboCount - 1
	)
	corners := [4]r2.Vec{{X: 0, Y: 0}, {X: W, Y: 0}, {X: W, Y: H}, {X: 0, Y: H}}
	var res Result
	for i := range corners {
		res.Outer[i] = Segment{A: corners[i], B: corners[(i+1)%4], Kind: Outer, Column: -1}
	}

	res.Inner = make([]Segment, 0, innerCapacity(spec))
	vertical := func(x float64, kind Kind, col int) Segment {
		return Segment{A: r2.Vec{X: x, Y: t}, B: r2.Vec{X: x, Y: H - t}, Kind: kind, Column: col}
	}
	for i := 0; i < spec.ComboCount; i++ {
		fi := float64(i)
		if i != 0 {
			res.Inner = append(res.Inner, vertical(fi*cw+t/2+Clearance, LeftDivider, i))
		}
		if i != last {
			res.Inner = append(res.Inner,
				vertical((fi+1)*cw-t/2-Clearance, RightDivider, i),
				vertical((fi+0.5)*cw, MiddleDivider, i),
			)
		}
		for j := 1; j < spec.PartitionCount; j++ {
			y := float64(j) * ph
			p1 := r2.Vec{X: fi*cw + t, Y: y}
			p2 := r2.Vec{X: (fi+0.5)*cw - t/2 - Clearance, Y: y}
			p3 := r2.Vec{X: (fi+0.5)*cw + t/2 + Clearance, Y: y}
			p4 := r2.Vec{X: (fi+1)*cw - t, Y: y}
			switch {
			case i != last:
				res.Inner = append(res.Inner,
					Segment{A: p1, B: p2, Kind: Shelf, Column: i, Row: j},
					Segment{A: p3, B: p4, Kind: Shelf, Column: i, Row: j},
				)
			case j == spec.PartitionCount-1:
				// No middle divider past the last column, the shelf spans it whole.
				res.Inner = append(res.Inner, Segment{A: p1, B: p4, Kind: Shelf, Column: i, Row: j})
			}
		}
	}
	return res, nil
}

func innerCapacity(spec Spec) int {
	n := spec.ComboCount - 1
	return 3*n + 2*n*(spec.PartitionCount-1) + 1
}
