package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is wrapped by every error returned from Validate.
var ErrInvalidSpec = errors.New("invalid wardrobe spec")

// Spec holds the parameters of a wardrobe. Lengths are in centimetres.
type Spec struct {
	Width          float64 `json:"width" toml:"width"`
	Height         float64 `json:"height" toml:"height"`
	OuterWallDepth float64 `json:"outer_wall_depth" toml:"outer_wall_depth"`
	WallThickness  float64 `json:"wall_thickness" toml:"wall_thickness"`
	InnerWallDepth float64 `json:"inner_wall_depth" toml:"inner_wall_depth"`
	ComboCount     int     `json:"combo_count" toml:"combo_count"`
	PartitionCount int     `json:"partition_count" toml:"partition_count"`
	// Material names the wood applied to the finished wardrobe.
	Material string `json:"material" toml:"material"`
}

// Input ranges offered by the wardrobe command spinners.
const (
	MinComboCount     = 1
	MaxComboCount     = 100
	MinPartitionCount = 1
	MaxPartitionCount = 30
)

// Defaults returns the wardrobe parameters the design command starts with.
func Defaults() Spec {
	return Spec{
		Width:          200,
		Height:         240,
		OuterWallDepth: 60,
		WallThickness:  1.8,
		InnerWallDepth: 49.5,
		ComboCount:     2,
		PartitionCount: 6,
	}
}

// ComboWidth is the width of a single combo column.
func (s Spec) ComboWidth() float64 { return s.Width / float64(s.ComboCount) }

// PartitionHeight is the vertical spacing between shelves.
func (s Spec) PartitionHeight() float64 { return s.Height / float64(s.PartitionCount) }

// ValidationError describes the first rule a Spec breaks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSpec }

// Validate checks that a spec yields non-degenerate geometry. Lengths must
// be finite and positive and counts must lie within the spinner ranges.
func Validate(s Spec) error {
	positive := []struct {
		field string
		v     float64
	}{
		{"width", s.Width},
		{"height", s.Height},
		{"wall_thickness", s.WallThickness},
		{"outer_wall_depth", s.OuterWallDepth},
		{"inner_wall_depth", s.InnerWallDepth},
	}
	for _, p := range positive {
		// Negated comparison also rejects NaN.
		if !(p.v > 0) {
			return &ValidationError{Field: p.field, Reason: fmt.Sprintf("must be positive, got %g", p.v)}
		}
		if math.IsInf(p.v, 0) {
			return &ValidationError{Field: p.field, Reason: "must be finite"}
		}
	}
	if s.ComboCount < MinComboCount || s.ComboCount > MaxComboCount {
		return &ValidationError{Field: "combo_count", Reason: fmt.Sprintf("must be in [%d,%d], got %d", MinComboCount, MaxComboCount, s.ComboCount)}
	}
	if s.PartitionCount < MinPartitionCount || s.PartitionCount > MaxPartitionCount {
		return &ValidationError{Field: "partition_count", Reason: fmt.Sprintf("must be in [%d,%d], got %d", MinPartitionCount, MaxPartitionCount, s.PartitionCount)}
	}
	if cw := s.ComboWidth(); cw <= 4*s.WallThickness {
		return &ValidationError{Field: "combo_count", Reason: fmt.Sprintf("combo width %g must exceed 4x wall thickness (%g)", cw, 4*s.WallThickness)}
	}
	if ph := s.PartitionHeight(); ph <= 2*s.WallThickness {
		return &ValidationError{Field: "partition_count", Reason: fmt.Sprintf("partition height %g must exceed 2x wall thickness (%g)", ph, 2*s.WallThickness)}
	}
	if s.OuterWallDepth < s.InnerWallDepth {
		return &ValidationError{Field: "inner_wall_depth", Reason: fmt.Sprintf("inner wall depth %g exceeds outer wall depth %g", s.InnerWallDepth, s.OuterWallDepth)}
	}
	return nil
}
