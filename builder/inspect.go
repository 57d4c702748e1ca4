package builder

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/shape"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// jointTolerance is the largest gap at which a panel end still counts as
// resting against its neighbour.
const jointTolerance = 1e-6

// ErrUncovered is returned by the inspect step when a layout line has no
// material under it.
var ErrUncovered = errors.New("layout line not covered by a body")

// Joints summarizes where inner panel ends meet the rest of the carcass.
type Joints struct {
	// Ends is the number of inner panel ends measured.
	Ends int `json:"ends"`
	// Open counts ends separated from every other body by more than
	// a micron.
	Open int `json:"open"`
	// MaxGap is the widest end gap in cm.
	MaxGap float64 `json:"max_gap"`
}

// inspect evaluates the signed distance of the built solid at every layout
// line and measures the gap left at each end of the inner panels.
func (b *build) inspect() error {
	solid, err := b.comp.Solid()
	if err != nil {
		return err
	}
	outerZ := b.spec.OuterWallDepth / 2
	for _, seg := range b.res.Outer {
		if p := at(seg.Midpoint(), outerZ); !shape.Contains(solid, p, jointTolerance) {
			return fmt.Errorf("%w: outer line %v-%v", ErrUncovered, seg.A, seg.B)
		}
	}
	bodies := b.comp.Bodies()
	innerZ := b.spec.InnerWallDepth / 2
	for i, seg := range b.res.Inner {
		if p := at(seg.Midpoint(), innerZ); !shape.Contains(solid, p, jointTolerance) {
			return fmt.Errorf("%w: %s line at column %d", ErrUncovered, seg.Kind, seg.Column)
		}
		own := b.innerBodies[i]
		for _, end := range [2]r2.Vec{seg.A, seg.B} {
			gap := endGap(bodies, at(end, innerZ), own)
			b.joints.Ends++
			if gap > jointTolerance {
				b.joints.Open++
			}
			b.joints.MaxGap = math.Max(b.joints.MaxGap, gap)
		}
	}
	b.log.Debug("inspected joints", "ends", b.joints.Ends, "open", b.joints.Open, "max_gap", b.joints.MaxGap)
	return nil
}

// endGap returns the distance from p to the nearest body other than own.
// Bodies whose box lies farther than the best distance so far are skipped.
func endGap(bodies []*cad.Body, p r3.Vec, own *cad.Body) float64 {
	best := math.Inf(1)
	for _, body := range bodies {
		if body == own || boxOutside(body.Box, p) > best {
			continue
		}
		best = math.Min(best, body.Solid.Evaluate(p))
	}
	return math.Max(best, 0)
}

// boxOutside is a lower bound on the distance from p to box.
func boxOutside(box r3.Box, p r3.Vec) float64 {
	dx := math.Max(box.Min.X-p.X, p.X-box.Max.X)
	dy := math.Max(box.Min.Y-p.Y, p.Y-box.Max.Y)
	dz := math.Max(box.Min.Z-p.Z, p.Z-box.Max.Z)
	return math.Max(dx, math.Max(dy, dz))
}

func at(p r2.Vec, z float64) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: z} }
