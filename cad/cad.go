// Package cad is a small parametric modeling session: sketches on the XY
// plane, open profiles, surface extrusions, patches and thickened bodies.
//
// Every body is backed by a signed distance function from package shape and
// by its exact axis aligned box, which is what meshing uses. Features that
// would produce oblique bodies are rejected.
package cad

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/soypat/wardrobe/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoDesign is returned when a session is requested from a document
	// without an active design.
	ErrNoDesign = errors.New("cad: no active design")
	// ErrOblique is returned by features that only support axis aligned geometry.
	ErrOblique = errors.New("cad: geometry not axis aligned")
	// ErrProfile is returned for malformed profiles and loops.
	ErrProfile = errors.New("cad: invalid profile")
)

// Tolerance is the distance under which two points are considered coincident.
const Tolerance = 1e-9

// Document holds a design with a single root component.
type Document struct {
	ID   uuid.UUID
	Name string

	mu       sync.Mutex
	closed   bool
	root     *Component
	viewport Viewport
}

// NewDocument returns an open document with an empty root component.
func NewDocument(name string) *Document {
	return &Document{
		ID:   uuid.New(),
		Name: name,
		root: newComponent(name),
	}
}

// Close deactivates the design. Sessions acquired afterwards fail.
func (d *Document) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Session is the set of handles an operation works with. It is acquired
// once at the start of the operation.
type Session struct {
	Document *Document
	Root     *Component
	Viewport *Viewport
}

// Session acquires the document's root component and viewport. It fails
// with ErrNoDesign on a nil or closed document.
func (d *Document) Session() (*Session, error) {
	if d == nil {
		return nil, ErrNoDesign
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.root == nil {
		return nil, ErrNoDesign
	}
	return &Session{Document: d, Root: d.root, Viewport: &d.viewport}, nil
}

// Viewport frames a region of the design for display.
type Viewport struct {
	// Target is the box the camera looks at.
	Target r3.Box
	// Eye is the camera position.
	Eye r3.Vec
	// Up is the camera up direction.
	Up     r3.Vec
	fitted bool
}

// Fit frames box from an isometric direction above the open front.
func (v *Viewport) Fit(box r3.Box) {
	b := d3.Box(box)
	radius := r3.Norm(b.Size()) / 2
	dist := radius / math.Tan(15*math.Pi/180) // half of a 30 degree field of view
	dir := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})
	v.Target = box
	v.Eye = r3.Add(b.Center(), r3.Scale(dist, dir))
	v.Up = r3.Vec{Y: 1}
	v.fitted = true
}

// Fitted reports whether Fit has been called.
func (v *Viewport) Fitted() bool { return v.fitted }
