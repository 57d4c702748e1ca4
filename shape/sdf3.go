package shape

import (
	"errors"
	"math"

	"github.com/soypat/wardrobe/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// box3 is an axis aligned box.
type box3 struct {
	center, half r3.Vec
	bb           r3.Box
}

// Box returns the SDF3 of the axis aligned box b. Min and Max need not be
// ordered.
func Box(b r3.Box) (SDF3, error) {
	bb := d3.Box(b).Canon()
	if d3.LTEZero(bb.Size()) {
		return nil, ErrDegenerate
	}
	return &box3{center: bb.Center(), half: r3.Scale(0.5, bb.Size()), bb: r3.Box(bb)}, nil
}

func (s *box3) Evaluate(p r3.Vec) float64 {
	return box3dist(r3.Sub(p, s.center), s.half)
}

func (s *box3) Bounds() r3.Box { return s.bb }

// extrude3 extrudes an SDF2 along z.
type extrude3 struct {
	sdf    SDF2
	zc, hz float64 // center and half height
	bb     r3.Box
}

// Extrude3D extrudes a profile between heights z0 and z1.
func Extrude3D(sdf SDF2, z0, z1 float64) (SDF3, error) {
	if sdf == nil {
		return nil, errors.New("nil SDF2 argument")
	}
	if z0 == z1 {
		return nil, ErrDegenerate
	}
	lo, hi := math.Min(z0, z1), math.Max(z0, z1)
	bb := sdf.Bounds()
	return &extrude3{
		sdf: sdf,
		zc:  (lo + hi) / 2,
		hz:  (hi - lo) / 2,
		bb: r3.Box{
			Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: lo},
			Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: hi},
		},
	}, nil
}

func (s *extrude3) Evaluate(p r3.Vec) float64 {
	d := s.sdf.Evaluate(r3Tor2(p))
	w := math.Abs(p.Z-s.zc) - s.hz
	return math.Min(math.Max(d, w), 0) + math.Hypot(math.Max(d, 0), math.Max(w, 0))
}

func (s *extrude3) Bounds() r3.Box { return s.bb }

// union3 is the union of several SDF3s.
type union3 struct {
	sdf []SDF3
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
func Union3D(sdf ...SDF3) (SDF3, error) {
	s := union3{}
	for _, x := range sdf {
		if x != nil {
			s.sdf = append(s.sdf, x)
		}
	}
	switch len(s.sdf) {
	case 0:
		return nil, ErrEmpty
	case 1:
		return s.sdf[0], nil
	}
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s, nil
}

func (s *union3) Evaluate(p r3.Vec) float64 {
	d := math.Inf(1)
	for _, x := range s.sdf {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

func (s *union3) Bounds() r3.Box { return s.bb }

func r3Tor2(p r3.Vec) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }
