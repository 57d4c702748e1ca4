package render

import (
	"errors"
	"io"

	"github.com/soypat/wardrobe/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// TrianglesPerBox is the number of triangles in a tessellated box.
const TrianglesPerBox = 12

// boxFaces lists box corner indices per face (see d3.Box.Vertices) with the
// outward normal of the face.
var boxFaces = [6]struct {
	quad   [4]int
	normal r3.Vec
}{
	{[4]int{0, 2, 6, 4}, r3.Vec{X: -1}},
	{[4]int{1, 5, 7, 3}, r3.Vec{X: 1}},
	{[4]int{0, 4, 5, 1}, r3.Vec{Y: -1}},
	{[4]int{2, 3, 7, 6}, r3.Vec{Y: 1}},
	{[4]int{0, 1, 3, 2}, r3.Vec{Z: -1}},
	{[4]int{4, 6, 7, 5}, r3.Vec{Z: 1}},
}

// BoxRenderer tessellates axis aligned boxes exactly.
type BoxRenderer struct {
	boxes []d3.Box
	// tail of a box that did not fit the last read.
	tail pending
}

// NewBoxRenderer returns a renderer for the given boxes. Boxes with a zero
// or negative size along any axis are rejected.
func NewBoxRenderer(boxes ...r3.Box) (*BoxRenderer, error) {
	r := &BoxRenderer{boxes: make([]d3.Box, 0, len(boxes))}
	for _, b := range boxes {
		bb := d3.Box(b).Canon()
		if d3.LTEZero(bb.Size()) {
			return nil, errors.New("cannot tessellate flat box")
		}
		r.boxes = append(r.boxes, bb)
	}
	return r, nil
}

// Len returns the number of triangles left to read.
func (r *BoxRenderer) Len() int { return len(r.tail) + TrianglesPerBox*len(r.boxes) }

// ReadTriangles implements Renderer.
func (r *BoxRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if r.Len() == 0 {
		return 0, io.EOF
	}
	n = r.tail.take(dst)
	for n < len(dst) && len(r.boxes) > 0 {
		var tris [TrianglesPerBox]Triangle3
		tessellateBox(&tris, r.boxes[0])
		r.boxes = r.boxes[1:]
		written := copy(dst[n:], tris[:])
		n += written
		r.tail = append(r.tail, tris[written:]...)
	}
	return n, nil
}

func tessellateBox(dst *[TrianglesPerBox]Triangle3, box d3.Box) {
	v := box.Vertices()
	for i, f := range boxFaces {
		a, b, c, d := v[f.quad[0]], v[f.quad[1]], v[f.quad[2]], v[f.quad[3]]
		t0 := Triangle3{V: [3]r3.Vec{a, b, c}}
		t1 := Triangle3{V: [3]r3.Vec{a, c, d}}
		if r3.Dot(t0.Normal(), f.normal) < 0 {
			t0.V[1], t0.V[2] = t0.V[2], t0.V[1]
			t1.V[1], t1.V[2] = t1.V[2], t1.V[1]
		}
		dst[2*i] = t0
		dst[2*i+1] = t1
	}
}
