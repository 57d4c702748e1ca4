package cad

import (
	"github.com/google/uuid"
	"github.com/soypat/wardrobe/internal/d3"
	"github.com/soypat/wardrobe/material"
	"github.com/soypat/wardrobe/render"
	"github.com/soypat/wardrobe/shape"
	"gonum.org/v1/gonum/spatial/r3"
)

// Component owns sketches, features and the bodies they create.
type Component struct {
	ID   uuid.UUID
	Name string

	sketches []*Sketch
	bodies   []*Body
	features Features
	material *material.Material
}

func newComponent(name string) *Component {
	c := &Component{ID: uuid.New(), Name: name}
	c.features.comp = c
	return c
}

// Body is a solid created by a feature.
type Body struct {
	ID   uuid.UUID
	Name string
	// Solid is the signed distance function of the body.
	Solid shape.SDF3
	// Box is the exact extent of the body.
	Box r3.Box
	// Feature is the ID of the feature that created the body.
	Feature uuid.UUID
}

// Volume returns the body volume in cm³.
func (b *Body) Volume() float64 { return d3.Box(b.Box).Volume() }

// AddSketch creates a hidden sketch on the plane.
func (c *Component) AddSketch(p Plane) *Sketch {
	s := &Sketch{ID: uuid.New(), Plane: p}
	c.sketches = append(c.sketches, s)
	return s
}

// Sketches returns the component sketches.
func (c *Component) Sketches() []*Sketch { return append([]*Sketch(nil), c.sketches...) }

// Features returns the feature collection of the component.
func (c *Component) Features() *Features { return &c.features }

// Bodies returns the bodies created so far, in creation order.
func (c *Component) Bodies() []*Body { return append([]*Body(nil), c.bodies...) }

// SetMaterial applies m to the whole component.
func (c *Component) SetMaterial(m material.Material) { c.material = &m }

// Material returns the component material, if one was applied.
func (c *Component) Material() (material.Material, bool) {
	if c.material == nil {
		return material.Material{}, false
	}
	return *c.material, true
}

// Bounds returns the box containing every body. ok is false when the
// component has no bodies.
func (c *Component) Bounds() (box r3.Box, ok bool) {
	if len(c.bodies) == 0 {
		return r3.Box{}, false
	}
	bb := d3.Box(c.bodies[0].Box)
	for _, b := range c.bodies[1:] {
		bb = bb.Extend(d3.Box(b.Box))
	}
	return r3.Box(bb), true
}

// Volume returns the summed volume of all bodies in cm³. Bodies are
// separate panels, so overlapping regions count once per body.
func (c *Component) Volume() (v float64) {
	for _, b := range c.bodies {
		v += b.Volume()
	}
	return v
}

// Mass returns the component mass in kg using the applied material's
// density. It is zero when no material is applied.
func (c *Component) Mass() float64 {
	if c.material == nil {
		return 0
	}
	const cm3ToM3 = 1e-6
	return c.Volume() * cm3ToM3 * c.material.Density
}

// Solid returns the union of all bodies.
func (c *Component) Solid() (shape.SDF3, error) {
	solids := make([]shape.SDF3, len(c.bodies))
	for i, b := range c.bodies {
		solids[i] = b.Solid
	}
	return shape.Union3D(solids...)
}

// Renderer returns a mesh renderer over the component bodies.
func (c *Component) Renderer() (*render.BoxRenderer, error) {
	boxes := make([]r3.Box, len(c.bodies))
	for i, b := range c.bodies {
		boxes[i] = b.Box
	}
	return render.NewBoxRenderer(boxes...)
}

func (c *Component) owns(s *Sketch) bool {
	for _, own := range c.sketches {
		if own == s {
			return true
		}
	}
	return false
}
