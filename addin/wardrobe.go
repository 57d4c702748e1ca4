package addin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/soypat/wardrobe/builder"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
)

// Wardrobe command input IDs.
const (
	WidthInputID          = "WardrobeWidthInput"
	HeightInputID         = "WardrobeHeightInput"
	OuterWallDepthInputID = "OuterwallDepthInput"
	WallThicknessInputID  = "WallThicknessInput"
	InnerWallDepthInputID = "InnerwallDepthInput"
	ComboCountInputID     = "ComboCountInput"
	PartitionCountInputID = "PartitionCountInput"
	MaterialInputID       = "WoodMatInput"
)

// Materials lists and resolves wood materials. *material.Resolver implements it.
type Materials interface {
	WoodNames() []string
	Resolve(name string) (material.Material, bool)
}

// WardrobeCommand populates the wardrobe dialog and builds the wardrobe
// into the host's active document on execute.
type WardrobeCommand struct {
	host   *Host
	mats   Materials
	logger *log.Logger

	mu   sync.Mutex
	last *builder.Report
}

// NewWardrobeCommand returns the command handlers. logger may be nil.
func NewWardrobeCommand(host *Host, mats Materials, logger *log.Logger) *WardrobeCommand {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &WardrobeCommand{host: host, mats: mats, logger: logger}
}

// LastReport returns the report of the latest successful execution.
func (w *WardrobeCommand) LastReport() (*builder.Report, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.last != nil
}

// Created adds the wardrobe inputs with their default values. When no wood
// material is available the material list and the handlers are left out,
// so the command cannot execute.
func (w *WardrobeCommand) Created(cmd *Command) error {
	cmd.IsExecutedWhenPreempted = false
	def := layout.Defaults()
	in := cmd.Inputs
	values := []struct {
		id, label, unit string
		cm              float64
	}{
		{WidthInputID, "Width", "m", def.Width},
		{HeightInputID, "Height", "m", def.Height},
		{OuterWallDepthInputID, "Depth", "mm", def.OuterWallDepth},
		{WallThicknessInputID, "Panel thickness", "mm", def.WallThickness},
		{InnerWallDepthInputID, "Shelf depth", "mm", def.InnerWallDepth},
	}
	for _, v := range values {
		if _, err := in.AddValueInput(v.id, v.label, v.unit, v.cm); err != nil {
			return err
		}
	}
	if _, err := in.AddIntegerSpinner(ComboCountInputID, "Combos", layout.MinComboCount, layout.MaxComboCount, 1, def.ComboCount); err != nil {
		return err
	}
	if _, err := in.AddIntegerSpinner(PartitionCountInputID, "Partitions", layout.MinPartitionCount, layout.MaxPartitionCount, 1, def.PartitionCount); err != nil {
		return err
	}

	var woods []string
	if w.mats != nil {
		woods = w.mats.WoodNames()
	}
	if len(woods) == 0 {
		w.logger.Warn("no wood materials available, wardrobe command disabled")
		return nil
	}
	dd, err := in.AddDropDown(MaterialInputID, "Material", woods...)
	if err != nil {
		return err
	}
	dd.SelectIndex(0)
	cmd.OnInputChanged(w.inputChanged)
	cmd.OnValidate(w.validate)
	cmd.OnExecute(w.execute)
	return nil
}

func (w *WardrobeCommand) inputChanged(cmd *Command, changed Input) {
	w.logger.Debug("input changed", "id", changed.InputID())
}

func (w *WardrobeCommand) validate(ev *ValidateEvent) {
	spec, err := SpecFromInputs(ev.Inputs)
	if err == nil {
		err = layout.Validate(spec)
	}
	if err != nil {
		ev.Reject(err.Error())
	}
}

func (w *WardrobeCommand) execute(ctx context.Context, cmd *Command) error {
	spec, err := SpecFromInputs(cmd.Inputs)
	if err != nil {
		return err
	}
	sess, err := w.host.ActiveDocument().Session()
	if err != nil {
		return err
	}
	res, err := layout.Generate(spec)
	if err != nil {
		return err
	}
	report, err := builder.Build(ctx, sess.Root, res, spec, w.mats, builder.Options{Logger: w.logger})
	if err != nil {
		return err
	}
	sess.Viewport.Fit(report.Bounds)
	w.mu.Lock()
	w.last = report
	w.mu.Unlock()
	return nil
}

// SpecFromInputs reads a wardrobe spec from the command inputs. The
// material input is optional.
func SpecFromInputs(in *Inputs) (layout.Spec, error) {
	var spec layout.Spec
	lengths := []struct {
		id  string
		dst *float64
	}{
		{WidthInputID, &spec.Width},
		{HeightInputID, &spec.Height},
		{OuterWallDepthInputID, &spec.OuterWallDepth},
		{WallThicknessInputID, &spec.WallThickness},
		{InnerWallDepthInputID, &spec.InnerWallDepth},
	}
	for _, l := range lengths {
		v, ok := in.ValueInput(l.id)
		if !ok {
			return spec, fmt.Errorf("missing input %s", l.id)
		}
		*l.dst = v.Value
	}
	counts := []struct {
		id  string
		dst *int
	}{
		{ComboCountInputID, &spec.ComboCount},
		{PartitionCountInputID, &spec.PartitionCount},
	}
	for _, c := range counts {
		s, ok := in.IntegerSpinner(c.id)
		if !ok {
			return spec, fmt.Errorf("missing input %s", c.id)
		}
		*c.dst = s.Value
	}
	if dd, ok := in.DropDown(MaterialInputID); ok {
		spec.Material, _ = dd.Selected()
	}
	return spec, nil
}

// ApplySpec writes spec into the command inputs. Counts are clamped to the
// spinner ranges. An unknown material leaves the selection unchanged and
// is reported after every other field is applied.
func ApplySpec(in *Inputs, spec layout.Spec) error {
	var errs []error
	set := func(id string, cm float64) {
		if v, ok := in.ValueInput(id); ok {
			v.Value = cm
		} else {
			errs = append(errs, fmt.Errorf("missing input %s", id))
		}
	}
	set(WidthInputID, spec.Width)
	set(HeightInputID, spec.Height)
	set(OuterWallDepthInputID, spec.OuterWallDepth)
	set(WallThicknessInputID, spec.WallThickness)
	set(InnerWallDepthInputID, spec.InnerWallDepth)
	for id, n := range map[string]int{ComboCountInputID: spec.ComboCount, PartitionCountInputID: spec.PartitionCount} {
		if s, ok := in.IntegerSpinner(id); ok {
			s.Set(n)
		} else {
			errs = append(errs, fmt.Errorf("missing input %s", id))
		}
	}
	if dd, ok := in.DropDown(MaterialInputID); ok && spec.Material != "" {
		if err := dd.Select(spec.Material); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
