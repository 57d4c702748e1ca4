// Package builder turns a wardrobe layout into solid bodies of a cad
// component.
//
// Build runs a fixed sequence of steps: sketch, outer walls, back panel,
// inner walls, material and a final inspection of the solid. The first failing step stops the sequence and
// is reported as a *StepError. Bodies created by earlier steps remain in
// the component.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
	"gonum.org/v1/gonum/spatial/r3"
)

// Step names a stage of the build.
type Step string

const (
	StepSketch       Step = "sketch"
	StepOuterExtrude Step = "outer-extrude"
	StepOuterThicken Step = "outer-thicken"
	StepBackPatch    Step = "back-patch"
	StepBackThicken  Step = "back-thicken"
	StepInnerExtrude Step = "inner-extrude"
	StepInnerThicken Step = "inner-thicken"
	StepMaterial     Step = "material"
	StepInspect      Step = "inspect"
)

// Steps lists every build step in execution order.
var Steps = []Step{
	StepSketch,
	StepOuterExtrude,
	StepOuterThicken,
	StepBackPatch,
	StepBackThicken,
	StepInnerExtrude,
	StepInnerThicken,
	StepMaterial,
	StepInspect,
}

// StepError reports the step at which a build stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("build step %s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Resolver finds wood materials by name. *material.Resolver implements it.
type Resolver interface {
	Resolve(name string) (material.Material, bool)
}

// Options configures a build.
type Options struct {
	// Logger receives step progress. Nil discards it.
	Logger *log.Logger
}

// Report summarizes a finished build.
type Report struct {
	// Bodies is the number of bodies in the component.
	Bodies int `json:"bodies"`
	// Volume is the summed body volume in cm³.
	Volume float64 `json:"volume"`
	// Bounds encloses every body.
	Bounds r3.Box `json:"bounds"`
	// Mass in kg. Zero when no material was applied.
	Mass float64 `json:"mass"`
	// Material is the applied material name, empty when none was found.
	Material string `json:"material,omitempty"`
	// Steps holds the completed steps in order.
	Steps    []Step        `json:"steps"`
	Parts    CutList       `json:"parts"`
	Joints   Joints        `json:"joints"`
	Duration time.Duration `json:"duration"`
}

type build struct {
	comp *cad.Component
	res  layout.Result
	spec layout.Spec
	mats Resolver
	log  *log.Logger

	outer       []*cad.SketchLine
	inner       []*cad.SketchLine
	outerFaces  []cad.Face
	backFaces   []cad.Face
	innerFaces  []cad.Face
	innerBodies []*cad.Body
	material    string
	joints      Joints
}

// Build creates the wardrobe bodies described by res in comp. spec
// provides depths, wall thickness and the material name. mats may be nil,
// in which case no material is applied.
func Build(ctx context.Context, comp *cad.Component, res layout.Result, spec layout.Spec, mats Resolver, opts Options) (*Report, error) {
	if comp == nil {
		return nil, errors.New("builder: nil component")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	b := &build{comp: comp, res: res, spec: spec, mats: mats, log: opts.Logger}
	run := map[Step]func() error{
		StepSketch:       b.sketch,
		StepOuterExtrude: b.outerExtrude,
		StepOuterThicken: b.outerThicken,
		StepBackPatch:    b.backPatch,
		StepBackThicken:  b.backThicken,
		StepInnerExtrude: b.innerExtrude,
		StepInnerThicken: b.innerThicken,
		StepMaterial:     b.applyMaterial,
		StepInspect:      b.inspect,
	}
	start := time.Now()
	report := &Report{}
	for _, step := range Steps {
		if err := ctx.Err(); err != nil {
			return nil, &StepError{Step: step, Err: err}
		}
		if err := run[step](); err != nil {
			b.log.Error("build failed", "step", step, "err", err)
			return nil, &StepError{Step: step, Err: err}
		}
		report.Steps = append(report.Steps, step)
		b.log.Debug("step done", "step", step, "bodies", len(comp.Bodies()))
	}
	report.Bodies = len(comp.Bodies())
	report.Volume = comp.Volume()
	report.Bounds, _ = comp.Bounds()
	report.Mass = comp.Mass()
	report.Material = b.material
	report.Parts = NewCutList(comp.Bodies())
	report.Joints = b.joints
	report.Duration = time.Since(start)
	b.log.Info("built wardrobe",
		"bodies", report.Bodies,
		"material", report.Material,
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

func (b *build) sketch() error {
	sk := b.comp.AddSketch(cad.XYPlane)
	for _, seg := range b.res.Outer {
		l, err := sk.AddLine(seg.A, seg.B)
		if err != nil {
			return err
		}
		b.outer = append(b.outer, l)
	}
	for _, seg := range b.res.Inner {
		l, err := sk.AddLine(seg.A, seg.B)
		if err != nil {
			return fmt.Errorf("%s line at column %d: %w", seg.Kind, seg.Column, err)
		}
		b.inner = append(b.inner, l)
	}
	return nil
}

func (b *build) outerExtrude() error {
	p, err := b.comp.CreateOpenProfile(b.outer...)
	if err != nil {
		return err
	}
	ext, err := b.comp.Features().Extrude(b.spec.OuterWallDepth, p)
	if err != nil {
		return err
	}
	b.outerFaces = ext.SideFaces()
	return nil
}

func (b *build) outerThicken() error {
	_, err := b.comp.Features().Thicken(b.outerFaces, -b.spec.WallThickness, false)
	return err
}

func (b *build) backPatch() error {
	patch, err := b.comp.Features().Patch(b.outer...)
	if err != nil {
		return err
	}
	b.backFaces = patch.Faces()
	return nil
}

func (b *build) backThicken() error {
	_, err := b.comp.Features().Thicken(b.backFaces, b.spec.WallThickness, false)
	return err
}

func (b *build) innerExtrude() error {
	if len(b.inner) == 0 {
		return nil
	}
	profiles := make([]*cad.Profile, len(b.inner))
	for i, l := range b.inner {
		p, err := b.comp.CreateOpenProfile(l)
		if err != nil {
			return err
		}
		profiles[i] = p
	}
	ext, err := b.comp.Features().Extrude(b.spec.InnerWallDepth, profiles...)
	if err != nil {
		return err
	}
	b.innerFaces = ext.SideFaces()
	return nil
}

func (b *build) innerThicken() error {
	if len(b.innerFaces) == 0 {
		return nil
	}
	thk, err := b.comp.Features().Thicken(b.innerFaces, b.spec.WallThickness/4, true)
	if err != nil {
		return err
	}
	b.innerBodies = thk.Bodies()
	return nil
}

// applyMaterial leaves the component untouched when the material is unknown.
func (b *build) applyMaterial() error {
	if b.mats == nil || b.spec.Material == "" {
		return nil
	}
	m, ok := b.mats.Resolve(b.spec.Material)
	if !ok {
		b.log.Warn("material not found, keeping default", "material", b.spec.Material)
		return nil
	}
	b.comp.SetMaterial(m)
	b.material = m.Name
	return nil
}
