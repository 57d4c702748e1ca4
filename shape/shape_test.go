package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/wardrobe/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestSlabMatchesBox(t *testing.T) {
	// Horizontal segment, normal points to -y.
	slab, err := Slab2D(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0}, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	bb := slab.Bounds()
	want := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 2}}
	if math.Abs(bb.Min.X-want.Min.X) > tol || math.Abs(bb.Max.Y-want.Max.Y) > tol || math.Abs(bb.Min.Y) > tol {
		t.Fatalf("got bounds %+v, want %+v", bb, want)
	}
	for _, test := range []struct {
		p    r2.Vec
		want float64
	}{
		{r2.Vec{X: 5, Y: 1}, -1},
		{r2.Vec{X: 5, Y: 3}, 1},
		{r2.Vec{X: 5, Y: -1}, 1},
		{r2.Vec{X: 13, Y: 1}, 3},
		{r2.Vec{X: 13, Y: 6}, 5},
	} {
		got := slab.Evaluate(test.p)
		if math.Abs(got-test.want) > tol {
			t.Errorf("Evaluate(%v)=%g, want %g", test.p, got, test.want)
		}
	}
}

func TestSlabErrors(t *testing.T) {
	if _, err := Slab2D(r2.Vec{X: 1}, r2.Vec{X: 1}, 1, 1); err == nil {
		t.Error("zero length slab accepted")
	}
	if _, err := Slab2D(r2.Vec{}, r2.Vec{X: 1}, 0, 0); !errors.Is(err, ErrDegenerate) {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
}

func TestPolygonSign(t *testing.T) {
	rect, err := Polygon2D([]r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if d := rect.Evaluate(r2.Vec{X: 2, Y: 1}); math.Abs(d+1) > tol {
		t.Errorf("center distance %g, want -1", d)
	}
	if d := rect.Evaluate(r2.Vec{X: 6, Y: 1}); math.Abs(d-2) > tol {
		t.Errorf("outside distance %g, want 2", d)
	}
	if _, err := Polygon2D([]r2.Vec{{}, {X: 1}, {X: 2}}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("collinear polygon: got %v", err)
	}
}

func TestExtrudeBox(t *testing.T) {
	rect, _ := Polygon2D([]r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}})
	ext, err := Extrude3D(rect, 0, 6)
	if err != nil {
		t.Fatal(err)
	}
	box, err := Box(r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 4, Y: 2, Z: 6}})
	if err != nil {
		t.Fatal(err)
	}
	if !d3.Box(ext.Bounds()).Equals(d3.Box(box.Bounds()), tol) {
		t.Fatalf("bounds mismatch %+v vs %+v", ext.Bounds(), box.Bounds())
	}
	for _, p := range []r3.Vec{
		{X: 2, Y: 1, Z: 3},
		{X: 2, Y: 1, Z: 7},
		{X: -1, Y: -1, Z: -1},
		{X: 5, Y: 1, Z: 3},
		{X: 3.9, Y: 0.1, Z: 5.9},
	} {
		a, b := ext.Evaluate(p), box.Evaluate(p)
		if math.Abs(a-b) > tol {
			t.Errorf("at %v extrude=%g box=%g", p, a, b)
		}
	}
}

func TestUnion(t *testing.T) {
	b0, _ := Box(r3.Box{Max: d3.Elem(1)})
	b1, _ := Box(r3.Box{Min: r3.Vec{X: 3}, Max: r3.Vec{X: 4, Y: 1, Z: 1}})
	u, err := Union3D(b0, nil, b1)
	if err != nil {
		t.Fatal(err)
	}
	want := d3.Box{Max: r3.Vec{X: 4, Y: 1, Z: 1}}
	if !d3.Box(u.Bounds()).Equals(want, tol) {
		t.Errorf("union bounds %+v", u.Bounds())
	}
	if !Contains(u, r3.Vec{X: 3.5, Y: .5, Z: .5}, 0) {
		t.Error("second box missing from union")
	}
	if d := u.Evaluate(r3.Vec{X: 2, Y: .5, Z: .5}); math.Abs(d-1) > tol {
		t.Errorf("distance between boxes %g, want 1", d)
	}
	if _, err := Union3D(); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty union: got %v", err)
	}
	if u, err := Union3D(b0); err != nil || u != b0 {
		t.Error("single union should return its operand")
	}
}
