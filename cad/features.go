package cad

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/soypat/wardrobe/internal/d2"
	"github.com/soypat/wardrobe/internal/d3"
	"github.com/soypat/wardrobe/shape"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Feature is an entry of a component's modeling history.
type Feature interface {
	FeatureID() uuid.UUID
	Name() string
}

type featureBase struct {
	id   uuid.UUID
	name string
}

func (f featureBase) FeatureID() uuid.UUID { return f.id }
func (f featureBase) Name() string         { return f.name }

// Face is a planar parallelogram spanning Origin + s*U + t*V for s and t
// in [0,1]. Normal is a unit vector.
type Face struct {
	ID     uuid.UUID
	Origin r3.Vec
	U, V   r3.Vec
	Normal r3.Vec
	// outline of patch faces in sketch coordinates.
	outline []r2.Vec
}

// Area returns the face area.
func (f Face) Area() float64 { return r3.Norm(r3.Cross(f.U, f.V)) }

// ExtrudeFeature is a surface extrusion of one or more profiles.
type ExtrudeFeature struct {
	featureBase
	Depth float64
	faces []Face
}

// SideFaces returns one face per extruded profile line.
func (e *ExtrudeFeature) SideFaces() []Face { return append([]Face(nil), e.faces...) }

// PatchFeature fills a closed loop with a planar face.
type PatchFeature struct {
	featureBase
	face Face
}

// Faces returns the patch face.
func (p *PatchFeature) Faces() []Face { return []Face{p.face} }

// ThickenFeature turns faces into solid bodies.
type ThickenFeature struct {
	featureBase
	Thickness float64
	Symmetric bool
	bodies    []*Body
}

// Bodies returns the bodies created by the feature, one per input face.
func (t *ThickenFeature) Bodies() []*Body { return append([]*Body(nil), t.bodies...) }

// Features is the modeling history of a component.
type Features struct {
	comp  *Component
	list  []Feature
	count map[string]int
}

// All returns every feature in creation order.
func (fs *Features) All() []Feature { return append([]Feature(nil), fs.list...) }

func (fs *Features) next(kind string) featureBase {
	if fs.count == nil {
		fs.count = make(map[string]int)
	}
	fs.count[kind]++
	return featureBase{id: uuid.New(), name: fmt.Sprintf("%s%d", kind, fs.count[kind])}
}

// Extrude sweeps the profiles along the sketch normal by depth, creating
// surfaces only. Face normals point to the right of each line direction,
// which is outward for counter-clockwise loops.
func (fs *Features) Extrude(depth float64, profiles ...*Profile) (*ExtrudeFeature, error) {
	if !(depth > 0) {
		return nil, fmt.Errorf("cad: extrude depth must be positive, got %g", depth)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: nothing to extrude", ErrProfile)
	}
	var faces []Face
	for _, p := range profiles {
		if p == nil {
			return nil, fmt.Errorf("%w: nil profile", ErrProfile)
		}
		z := p.plane.Origin.Z
		for _, l := range p.lines {
			dir := r2.Sub(l.End, l.Start)
			n := r2.Scale(1/r2.Norm(dir), d2.Perp(dir))
			faces = append(faces, Face{
				ID:     uuid.New(),
				Origin: d3.FromR2(l.Start, z),
				U:      d3.FromR2(dir, 0),
				V:      r3.Vec{Z: depth},
				Normal: d3.FromR2(n, 0),
			})
		}
	}
	f := &ExtrudeFeature{featureBase: fs.next("Extrude"), Depth: depth, faces: faces}
	fs.list = append(fs.list, f)
	return f, nil
}

// Patch fills the closed chain of lines with a planar face whose normal
// points against the sketch normal, away from extrusions of the same lines.
func (fs *Features) Patch(lines ...*SketchLine) (*PatchFeature, error) {
	p, err := fs.comp.CreateOpenProfile(lines...)
	if err != nil {
		return nil, err
	}
	loop, err := p.loop()
	if err != nil {
		return nil, err
	}
	bb := d2.Box{Min: loop[0], Max: loop[0]}
	for _, v := range loop[1:] {
		bb = bb.Include(v)
	}
	sz := bb.Size()
	f := &PatchFeature{featureBase: fs.next("Patch")}
	f.face = Face{
		ID:      uuid.New(),
		Origin:  d3.FromR2(bb.Min, p.plane.Origin.Z),
		U:       r3.Vec{X: sz.X},
		V:       r3.Vec{Y: sz.Y},
		Normal:  r3.Vec{Z: -1},
		outline: loop,
	}
	fs.list = append(fs.list, f)
	return f, nil
}

// Thicken creates one solid body per face. A positive thickness grows
// along the face normal and a negative one against it. Symmetric thicken
// grows |thickness| to both sides.
func (fs *Features) Thicken(faces []Face, thickness float64, symmetric bool) (*ThickenFeature, error) {
	if thickness == 0 || math.IsNaN(thickness) {
		return nil, errors.New("cad: thicken needs a non-zero thickness")
	}
	if len(faces) == 0 {
		return nil, errors.New("cad: no faces to thicken")
	}
	lo, hi := math.Min(0, thickness), math.Max(0, thickness)
	if symmetric {
		lo, hi = -math.Abs(thickness), math.Abs(thickness)
	}
	f := &ThickenFeature{featureBase: fs.next("Thicken"), Thickness: thickness, Symmetric: symmetric}
	for i, face := range faces {
		solid, err := thickenFace(face, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("thicken face %d: %w", i, err)
		}
		f.bodies = append(f.bodies, &Body{
			ID:      uuid.New(),
			Name:    fmt.Sprintf("Body%d", len(fs.comp.bodies)+len(f.bodies)+1),
			Solid:   solid,
			Box:     solid.Bounds(),
			Feature: f.id,
		})
	}
	fs.comp.bodies = append(fs.comp.bodies, f.bodies...)
	fs.list = append(fs.list, f)
	return f, nil
}

// thickenFace offsets face between lo and hi along its normal.
func thickenFace(f Face, lo, hi float64) (shape.SDF3, error) {
	switch {
	case f.Normal.Z == 0:
		// Side face of an extrusion: U in plane, V along z.
		if f.U.X != 0 && f.U.Y != 0 {
			return nil, ErrOblique
		}
		a := r2.Vec{X: f.Origin.X, Y: f.Origin.Y}
		b := r2.Vec{X: f.Origin.X + f.U.X, Y: f.Origin.Y + f.U.Y}
		profile, err := shape.Slab2D(a, b, -lo, hi)
		if err != nil {
			return nil, err
		}
		return shape.Extrude3D(profile, f.Origin.Z, f.Origin.Z+f.V.Z)

	case math.Abs(f.Normal.Z) == 1:
		outline := f.outline
		if outline == nil {
			outline = []r2.Vec{
				{X: f.Origin.X, Y: f.Origin.Y},
				{X: f.Origin.X + f.U.X, Y: f.Origin.Y},
				{X: f.Origin.X + f.U.X, Y: f.Origin.Y + f.V.Y},
				{X: f.Origin.X, Y: f.Origin.Y + f.V.Y},
			}
		}
		if !rectangular(outline) {
			return nil, ErrOblique
		}
		profile, err := shape.Polygon2D(outline)
		if err != nil {
			return nil, err
		}
		return shape.Extrude3D(profile, f.Origin.Z+lo*f.Normal.Z, f.Origin.Z+hi*f.Normal.Z)
	}
	return nil, ErrOblique
}

// rectangular reports whether the loop encloses exactly its bounding box.
func rectangular(loop []r2.Vec) bool {
	bb := d2.Box{Min: loop[0], Max: loop[0]}
	area := 0.0
	for i, v := range loop {
		bb = bb.Include(v)
		w := loop[(i+1)%len(loop)]
		area += v.X*w.Y - w.X*v.Y
	}
	sz := bb.Size()
	return math.Abs(math.Abs(area/2)-sz.X*sz.Y) <= Tolerance*math.Max(1, sz.X*sz.Y)
}
