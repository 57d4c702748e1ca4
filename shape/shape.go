// Package shape implements the signed distance functions used to describe
// wardrobe bodies. A signed distance function returns the distance from a
// point to the surface of a shape, negative when the point is inside.
package shape

import (
	"errors"
	"math"

	"github.com/soypat/wardrobe/internal/d2"
	"github.com/soypat/wardrobe/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate returns the minimum distance of the SDF2 to the point.
	// The distance is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64
	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

var (
	ErrDegenerate = errors.New("degenerate shape")
	ErrEmpty      = errors.New("no shapes to combine")
)

// Contains reports whether p lies inside or on the surface of s.
func Contains(s SDF3, p r3.Vec, tol float64) bool {
	return s.Evaluate(p) <= tol
}

// box2dist is the exact distance from p to a centered box with half size h.
func box2dist(p, h r2.Vec) float64 {
	d := r2.Sub(d2.AbsElem(p), h)
	outside := r2.Norm(d2.MaxElem(d, r2.Vec{}))
	inside := math.Min(math.Max(d.X, d.Y), 0)
	return outside + inside
}

func box3dist(p, h r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), h)
	outside := r3.Norm(d3.MaxElem(d, r3.Vec{}))
	inside := math.Min(math.Max(d.X, math.Max(d.Y, d.Z)), 0)
	return outside + inside
}

func dot2(a, b r2.Vec) float64 { return a.X*b.X + a.Y*b.Y }

// slab2 is a rectangle swept along a segment.
type slab2 struct {
	a      r2.Vec
	u, n   r2.Vec // unit direction and unit normal
	center r2.Vec // rectangle center in (u,n) coordinates
	half   r2.Vec // rectangle half size in (u,n) coordinates
	bb     r2.Box
}

// Slab2D returns the rectangle swept by the segment a->b when it is offset
// by `below` against its normal and by `above` along it. The normal is the
// segment direction rotated 90 degrees clockwise.
func Slab2D(a, b r2.Vec, below, above float64) (SDF2, error) {
	l := r2.Norm(r2.Sub(b, a))
	if l == 0 || math.IsNaN(l) {
		return nil, errors.New("zero length slab segment")
	}
	if below+above <= 0 {
		return nil, ErrDegenerate
	}
	s := slab2{a: a}
	s.u = r2.Scale(1/l, r2.Sub(b, a))
	s.n = d2.Perp(s.u)
	s.center = r2.Vec{X: l / 2, Y: (above - below) / 2}
	s.half = r2.Vec{X: l / 2, Y: (above + below) / 2}
	lo, hi := r2.Scale(-below, s.n), r2.Scale(above, s.n)
	bb := d2.Box{Min: r2.Add(a, lo), Max: r2.Add(a, lo)}
	for _, v := range []r2.Vec{r2.Add(a, hi), r2.Add(b, lo), r2.Add(b, hi)} {
		bb = bb.Include(v)
	}
	s.bb = r2.Box(bb)
	return &s, nil
}

func (s *slab2) Evaluate(p r2.Vec) float64 {
	q := r2.Sub(p, s.a)
	local := r2.Vec{X: dot2(q, s.u), Y: dot2(q, s.n)}
	return box2dist(r2.Sub(local, s.center), s.half)
}

func (s *slab2) Bounds() r2.Box { return s.bb }

// polygon2 is a simple closed polygon.
type polygon2 struct {
	v  []r2.Vec
	bb r2.Box
}

// Polygon2D returns the SDF2 of a simple polygon. The polygon is closed
// implicitly between the last and first vertex.
func Polygon2D(vertices []r2.Vec) (SDF2, error) {
	if len(vertices) < 3 {
		return nil, errors.New("polygon needs at least 3 vertices")
	}
	s := polygon2{v: append([]r2.Vec(nil), vertices...)}
	bb := d2.Box{Min: s.v[0], Max: s.v[0]}
	for _, v := range s.v[1:] {
		bb = bb.Include(v)
	}
	if sz := bb.Size(); sz.X <= 0 || sz.Y <= 0 {
		return nil, ErrDegenerate
	}
	s.bb = r2.Box(bb)
	return &s, nil
}

// Evaluate uses the winding number to sign the distance to the nearest edge.
func (s *polygon2) Evaluate(p r2.Vec) float64 {
	n := len(s.v)
	d := r2.Norm(r2.Sub(p, s.v[0]))
	d *= d
	sign := 1.0
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		e := r2.Sub(s.v[j], s.v[i])
		w := r2.Sub(p, s.v[i])
		k := math.Max(0, math.Min(1, dot2(w, e)/dot2(e, e)))
		b := r2.Sub(w, r2.Scale(k, e))
		d = math.Min(d, dot2(b, b))
		c0 := p.Y >= s.v[i].Y
		c1 := p.Y < s.v[j].Y
		c2 := e.X*w.Y > e.Y*w.X
		if (c0 && c1 && c2) || (!c0 && !c1 && !c2) {
			sign = -sign
		}
	}
	return sign * math.Sqrt(d)
}

func (s *polygon2) Bounds() r2.Box { return s.bb }
