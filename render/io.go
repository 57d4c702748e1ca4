package render

import "io"

// RenderAll drains r into a single slice. io.EOF ends the read and is not
// returned. Renderers that report their remaining triangle count through a
// Len method are read into an exactly sized slice.
func RenderAll(r Renderer) ([]Triangle3, error) {
	size := 256
	if l, ok := r.(interface{ Len() int }); ok {
		size = l.Len()
	}
	model := make([]Triangle3, 0, size)
	chunk := make([]Triangle3, 1<<10)
	for {
		n, err := r.ReadTriangles(chunk)
		model = append(model, chunk[:n]...)
		switch {
		case err == io.EOF:
			return model, nil
		case err != nil:
			return model, err
		}
	}
}

// pending holds triangles produced but not yet handed to a reader.
type pending []Triangle3

// take moves as many pending triangles as fit into dst.
func (p *pending) take(dst []Triangle3) int {
	n := copy(dst, *p)
	*p = (*p)[n:]
	return n
}

// MeshRenderer streams an in-memory mesh.
type MeshRenderer struct {
	rest pending
}

// NewMeshRenderer returns a Renderer over a copy of model.
func NewMeshRenderer(model []Triangle3) *MeshRenderer {
	return &MeshRenderer{rest: append(pending(nil), model...)}
}

// Len returns the number of triangles left to read.
func (m *MeshRenderer) Len() int { return len(m.rest) }

// ReadTriangles implements Renderer.
func (m *MeshRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	if len(m.rest) == 0 {
		return 0, io.EOF
	}
	return m.rest.take(dst), nil
}
