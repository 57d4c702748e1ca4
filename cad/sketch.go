package cad

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/soypat/wardrobe/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is a sketch plane through Origin. Only planes normal to z are
// supported, with sketch x and y mapping to model x and y.
type Plane struct {
	Origin r3.Vec
}

// XYPlane is the construction plane at z=0.
var XYPlane = Plane{}

// Sketch is a set of lines drawn on a plane.
type Sketch struct {
	ID      uuid.UUID
	Plane   Plane
	Visible bool
	lines   []*SketchLine
}

// SketchLine is a line segment owned by a sketch.
type SketchLine struct {
	ID         uuid.UUID
	Start, End r2.Vec
	sketch     *Sketch
}

// AddLine adds a line from a to b. Zero length lines are rejected.
func (s *Sketch) AddLine(a, b r2.Vec) (*SketchLine, error) {
	if d2.EqualWithin(a, b, Tolerance) {
		return nil, fmt.Errorf("%w: zero length line at %v", ErrProfile, a)
	}
	l := &SketchLine{ID: uuid.New(), Start: a, End: b, sketch: s}
	s.lines = append(s.lines, l)
	return l, nil
}

// Lines returns the sketch lines in creation order.
func (s *Sketch) Lines() []*SketchLine { return append([]*SketchLine(nil), s.lines...) }

// Sketch returns the sketch the line belongs to.
func (l *SketchLine) Sketch() *Sketch { return l.sketch }

// Profile is an ordered chain of sketch lines used as extrusion input.
type Profile struct {
	lines []*SketchLine
	plane Plane
}

// Lines returns the lines of the profile.
func (p *Profile) Lines() []*SketchLine { return append([]*SketchLine(nil), p.lines...) }

// Closed reports whether the last line ends where the first one starts.
func (p *Profile) Closed() bool {
	return len(p.lines) > 2 && d2.EqualWithin(p.lines[len(p.lines)-1].End, p.lines[0].Start, Tolerance)
}

// loop returns the profile vertices when the profile is a closed chain.
func (p *Profile) loop() ([]r2.Vec, error) {
	if !p.Closed() {
		return nil, fmt.Errorf("%w: profile is not a closed loop", ErrProfile)
	}
	v := make([]r2.Vec, len(p.lines))
	for i, l := range p.lines {
		v[i] = l.Start
	}
	return v, nil
}

// CreateOpenProfile chains lines into a profile. Lines must share a sketch
// and consecutive lines must connect.
func (c *Component) CreateOpenProfile(lines ...*SketchLine) (*Profile, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrProfile)
	}
	for i, l := range lines {
		if l == nil || l.sketch == nil {
			return nil, fmt.Errorf("%w: line %d not in a sketch", ErrProfile, i)
		}
		if !c.owns(l.sketch) {
			return nil, fmt.Errorf("%w: line %d belongs to another component", ErrProfile, i)
		}
		if i > 0 {
			if l.sketch != lines[0].sketch {
				return nil, fmt.Errorf("%w: lines span several sketches", ErrProfile)
			}
			if !d2.EqualWithin(lines[i-1].End, l.Start, Tolerance) {
				return nil, fmt.Errorf("%w: line %d does not start where line %d ends", ErrProfile, i, i-1)
			}
		}
	}
	return &Profile{lines: append([]*SketchLine(nil), lines...), plane: lines[0].sketch.Plane}, nil
}
