package builder

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/internal/d3"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

type mapResolver map[string]material.Material

func (m mapResolver) Resolve(name string) (material.Material, bool) {
	mat, ok := m[name]
	return mat, ok
}

func newComponent(t *testing.T) *cad.Component {
	t.Helper()
	sess, err := cad.NewDocument("test").Session()
	if err != nil {
		t.Fatal(err)
	}
	return sess.Root
}

func generate(t *testing.T, spec layout.Spec) layout.Result {
	t.Helper()
	res, err := layout.Generate(spec)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestBuildDefaults(t *testing.T) {
	spec := layout.Defaults()
	spec.Material = "Oak"
	res := generate(t, spec)
	comp := newComponent(t)
	mats := mapResolver{"Oak": {Name: "Oak", Density: 700}}
	report, err := Build(context.Background(), comp, res, spec, mats, Options{})
	if err != nil {
		t.Fatal(err)
	}
	wantBodies := 4 + 1 + len(res.Inner)
	if report.Bodies != wantBodies {
		t.Errorf("got %d bodies, want %d", report.Bodies, wantBodies)
	}
	if len(report.Steps) != len(Steps) {
		t.Errorf("completed steps %v", report.Steps)
	}
	wantBounds := d3.Box{
		Min: r3.Vec{Z: -spec.WallThickness},
		Max: r3.Vec{X: spec.Width, Y: spec.Height, Z: spec.OuterWallDepth},
	}
	if !d3.Box(report.Bounds).Equals(wantBounds, tol) {
		t.Errorf("bounds %v, want %v", report.Bounds, wantBounds)
	}
	if report.Material != "Oak" {
		t.Errorf("material %q", report.Material)
	}
	if m, ok := comp.Material(); !ok || m.Name != "Oak" {
		t.Error("component material not set")
	}
	if want := report.Volume * 1e-6 * 700; math.Abs(report.Mass-want) > 1e-9 {
		t.Errorf("mass %g, want %g", report.Mass, want)
	}
}

func TestBuildBodyPlacement(t *testing.T) {
	spec := layout.Defaults()
	res := generate(t, spec)
	comp := newComponent(t)
	if _, err := Build(context.Background(), comp, res, spec, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	bodies := comp.Bodies()
	outline := d3.Box{Max: r3.Vec{X: spec.Width, Y: spec.Height, Z: spec.OuterWallDepth}}
	for i, b := range bodies[:4] {
		bb := d3.Box(b.Box)
		sz := bb.Size()
		if !outline.Equals(outline.Extend(bb), tol) {
			t.Errorf("outer wall %d outside the outline: %v", i, bb)
		}
		if math.Abs(math.Min(sz.X, sz.Y)-spec.WallThickness) > tol {
			t.Errorf("outer wall %d thickness %v", i, sz)
		}
	}
	back := d3.Box(bodies[4].Box)
	if math.Abs(back.Min.Z+spec.WallThickness) > tol || math.Abs(back.Max.Z) > tol {
		t.Errorf("back panel z range [%g,%g]", back.Min.Z, back.Max.Z)
	}
	inner := bodies[5:]
	if len(inner) != len(res.Inner) {
		t.Fatalf("got %d inner bodies for %d segments", len(inner), len(res.Inner))
	}
	for i, b := range inner {
		seg := res.Inner[i]
		bb := d3.Box(b.Box)
		sz := bb.Size()
		thick := sz.Y
		if seg.Vertical() {
			thick = sz.X
		}
		if math.Abs(thick-spec.WallThickness/2) > tol {
			t.Errorf("%s %d: thickness %g, want %g", seg.Kind, i, thick, spec.WallThickness/2)
		}
		if math.Abs(sz.Z-spec.InnerWallDepth) > tol || bb.Min.Z != 0 {
			t.Errorf("%s %d: depth range [%g,%g]", seg.Kind, i, bb.Min.Z, bb.Max.Z)
		}
		mid := r3.Vec{X: (seg.A.X + seg.B.X) / 2, Y: (seg.A.Y + seg.B.Y) / 2, Z: 1}
		if !bb.Contains(mid) {
			t.Errorf("%s %d: body %v not centered on its line", seg.Kind, i, bb)
		}
	}
}

func TestBuildSingleCombo(t *testing.T) {
	spec := layout.Defaults()
	spec.ComboCount, spec.PartitionCount = 1, 1
	res := generate(t, spec)
	comp := newComponent(t)
	report, err := Build(context.Background(), comp, res, spec, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Bodies != 5 {
		t.Errorf("got %d bodies, want 5", report.Bodies)
	}
}

func TestBuildMissingMaterial(t *testing.T) {
	spec := layout.Defaults()
	spec.Material = "Teak"
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	comp := newComponent(t)
	report, err := Build(context.Background(), comp, generate(t, spec), spec, mapResolver{}, Options{Logger: logger})
	if err != nil {
		t.Fatalf("missing material should not fail the build: %v", err)
	}
	if report.Material != "" || report.Mass != 0 {
		t.Errorf("unexpected material report %+v", report)
	}
	if _, ok := comp.Material(); ok {
		t.Error("material applied")
	}
	if !strings.Contains(buf.String(), "Teak") {
		t.Errorf("missing material not logged: %q", buf.String())
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spec := layout.Defaults()
	comp := newComponent(t)
	_, err := Build(ctx, comp, generate(t, spec), spec, nil, Options{})
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepSketch {
		t.Fatalf("got %v, want StepError at sketch", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if len(comp.Sketches()) != 0 {
		t.Error("canceled build created a sketch")
	}
}

func TestBuildStopsAtFailingStep(t *testing.T) {
	spec := layout.Defaults()
	res := generate(t, spec)
	spec.InnerWallDepth = 0
	comp := newComponent(t)
	_, err := Build(context.Background(), comp, res, spec, nil, Options{})
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepInnerExtrude {
		t.Fatalf("got %v, want StepError at %s", err, StepInnerExtrude)
	}
	// Outer walls and back panel stay behind.
	if n := len(comp.Bodies()); n != 5 {
		t.Errorf("got %d bodies after failure, want 5", n)
	}
}

func TestBuildNilComponent(t *testing.T) {
	if _, err := Build(context.Background(), nil, layout.Result{}, layout.Defaults(), nil, Options{}); err == nil {
		t.Error("nil component accepted")
	}
}

func TestCutList(t *testing.T) {
	spec := layout.Defaults()
	spec.ComboCount = 1
	spec.PartitionCount = 1
	_, report, err := Wardrobe(context.Background(), spec, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cl := report.Parts
	if cl.Count() != report.Bodies {
		t.Fatalf("cut list has %d panels, build has %d bodies", cl.Count(), report.Bodies)
	}
	// Back panel first, then the side walls and top/bottom.
	want := []Part{
		{Length: 240, Width: 200, Thickness: 1.8, Quantity: 1},
		{Length: 240, Width: 60, Thickness: 1.8, Quantity: 2},
		{Length: 200, Width: 60, Thickness: 1.8, Quantity: 2},
	}
	if len(cl.Parts) < len(want) {
		t.Fatalf("got parts %+v", cl.Parts)
	}
	for i, w := range want {
		got := cl.Parts[i]
		if math.Abs(got.Length-w.Length) > tol || math.Abs(got.Width-w.Width) > tol ||
			math.Abs(got.Thickness-w.Thickness) > tol || got.Quantity != w.Quantity {
			t.Errorf("part %d: got %+v, want %+v", i, got, w)
		}
	}
	var area float64
	for _, p := range cl.Parts {
		area += p.Area() * float64(p.Quantity)
	}
	if math.Abs(area-cl.Area) > 1e-6 {
		t.Errorf("area %g, parts sum %g", cl.Area, area)
	}
}

func TestWardrobeInvalid(t *testing.T) {
	spec := layout.Defaults()
	spec.Width = 0
	if _, _, err := Wardrobe(context.Background(), spec, nil, Options{}); !errors.Is(err, layout.ErrInvalidSpec) {
		t.Errorf("got %v, want ErrInvalidSpec", err)
	}
}

func TestBuildJoints(t *testing.T) {
	tests := []struct {
		name       string
		combos     int
		partitions int
		ends, open int
		maxGap     float64
	}{
		// Shelf ends rest against the side walls.
		{name: "single shelf", combos: 1, partitions: 2, ends: 2},
		// Shelves stop short of the dividers by the clearance plus
		// the divider half width.
		{name: "defaults", combos: 2, partitions: 6, ends: 28, open: 16, maxGap: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := layout.Defaults()
			spec.ComboCount, spec.PartitionCount = tt.combos, tt.partitions
			report, err := Build(context.Background(), newComponent(t), generate(t, spec), spec, nil, Options{})
			if err != nil {
				t.Fatal(err)
			}
			j := report.Joints
			if j.Ends != tt.ends || j.Open != tt.open || math.Abs(j.MaxGap-tt.maxGap) > tol {
				t.Errorf("got %+v, want ends=%d open=%d max gap=%g", j, tt.ends, tt.open, tt.maxGap)
			}
		})
	}
}

func TestInspectUncovered(t *testing.T) {
	spec := layout.Defaults()
	res := generate(t, spec)
	comp := newComponent(t)
	if _, err := Build(context.Background(), comp, res, spec, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	moved := res
	moved.Outer[0].A.Y -= 10
	moved.Outer[0].B.Y -= 10
	b := &build{comp: comp, res: moved, spec: spec, log: log.New(&bytes.Buffer{})}
	if err := b.inspect(); !errors.Is(err, ErrUncovered) {
		t.Errorf("got %v, want ErrUncovered", err)
	}
}
