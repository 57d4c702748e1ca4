package addin

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
)

type staticMaterials []material.Material

func (s staticMaterials) WoodNames() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}
	return names
}

func (s staticMaterials) Resolve(name string) (material.Material, bool) {
	for _, m := range s {
		if m.Name == name {
			return m, true
		}
	}
	return material.Material{}, false
}

var woods = staticMaterials{
	{Name: "Oak", Density: 750},
	{Name: "Pine", Density: 500},
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		expr    string
		unit    string
		want    float64
		wantErr bool
	}{
		{expr: "2 m", unit: "mm", want: 200},
		{expr: "18mm", unit: "m", want: 1.8},
		{expr: "1.5", unit: "m", want: 150},
		{expr: " 60 cm ", unit: "mm", want: 60},
		{expr: "49.5", unit: "cm", want: 49.5},
		{expr: "3 furlongs", unit: "m", wantErr: true},
		{expr: "m", unit: "m", wantErr: true},
		{expr: "", unit: "m", wantErr: true},
		{expr: "1", unit: "parsec", wantErr: true},
		{expr: "inf", unit: "cm", wantErr: true},
		{expr: "-Inf m", unit: "cm", wantErr: true},
		{expr: "NaN", unit: "mm", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.expr, tt.unit)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseLength(%q, %q) = %g, %v; want ErrInvalidInput", tt.expr, tt.unit, got, err)
			}
			continue
		}
		if err != nil || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ParseLength(%q, %q) = %g, %v; want %g", tt.expr, tt.unit, got, err, tt.want)
		}
	}
	if s := FormatLength(200, "m"); s != "2 m" {
		t.Errorf("got %q", s)
	}
	if s := FormatLength(1.8, "mm"); s != "18 mm" {
		t.Errorf("got %q", s)
	}
}

func TestInputs(t *testing.T) {
	var in Inputs
	v, err := in.AddValueInput("w", "Width", "m", 200)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.SetExpression("bogus"); err == nil || v.Value != 200 {
		t.Error("bad expression changed the value")
	}
	if err := v.SetExpression("1.2"); err != nil || v.Value != 120 {
		t.Errorf("got %g, %v", v.Value, err)
	}
	if _, err := in.AddValueInput("w", "again", "m", 1); !errors.Is(err, ErrDuplicateID) {
		t.Error("duplicate input accepted")
	}
	s, err := in.AddIntegerSpinner("n", "Count", 1, 30, 1, 99)
	if err != nil {
		t.Fatal(err)
	}
	if s.Value != 30 {
		t.Errorf("initial value not clamped: %d", s.Value)
	}
	s.Increment(-100)
	if s.Value != 1 {
		t.Errorf("decrement not clamped: %d", s.Value)
	}
	dd, err := in.AddDropDown("d", "Pick", "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := dd.Selected(); ok {
		t.Error("new drop down has a selection")
	}
	if err := dd.Select("b"); err != nil {
		t.Fatal(err)
	}
	if got, _ := dd.Selected(); got != "b" {
		t.Errorf("selected %q", got)
	}
	if err := dd.Select("c"); !errors.Is(err, ErrInvalidInput) {
		t.Error("unknown item selected")
	}
	if _, ok := in.IntegerSpinner("w"); ok {
		t.Error("value input returned as spinner")
	}
	if in.Count() != 3 {
		t.Errorf("got %d inputs", in.Count())
	}
}

func newRunning(t *testing.T, mats Materials) (*Host, *AddIn) {
	t.Helper()
	host := NewHost(WorkspaceID)
	host.SetActiveDocument(cad.NewDocument("wardrobe"))
	a := New(host, mats, nil)
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return host, a
}

func TestCommandCreatedDefaults(t *testing.T) {
	_, a := newRunning(t, woods)
	cmd, err := a.Start()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Inputs.Count() != 8 {
		t.Fatalf("got %d inputs, want 8", cmd.Inputs.Count())
	}
	spec, err := SpecFromInputs(cmd.Inputs)
	if err != nil {
		t.Fatal(err)
	}
	want := layout.Defaults()
	want.Material = "Oak"
	if spec != want {
		t.Errorf("got %+v, want %+v", spec, want)
	}
	w, _ := cmd.Inputs.ValueInput(WidthInputID)
	if w.Expression() != "2 m" {
		t.Errorf("width shown as %q", w.Expression())
	}
	c, _ := cmd.Inputs.IntegerSpinner(ComboCountInputID)
	if c.Min != 1 || c.Max != 100 {
		t.Errorf("combo range [%d,%d]", c.Min, c.Max)
	}
	p, _ := cmd.Inputs.IntegerSpinner(PartitionCountInputID)
	if p.Min != 1 || p.Max != 30 {
		t.Errorf("partition range [%d,%d]", p.Min, p.Max)
	}
	if !cmd.CanExecute() {
		t.Error("defaults should be executable")
	}
}

func TestCommandValidate(t *testing.T) {
	_, a := newRunning(t, woods)
	cmd, err := a.Start()
	if err != nil {
		t.Fatal(err)
	}
	combo, _ := cmd.Inputs.IntegerSpinner(ComboCountInputID)
	width, _ := cmd.Inputs.ValueInput(WidthInputID)
	width.SetExpression("1 m")
	combo.Set(50)
	ev := cmd.Changed(combo)
	if ev.Valid || ev.Reason == "" {
		t.Fatalf("narrow combos accepted: %+v", ev)
	}
	if err := cmd.Execute(context.Background()); !errors.Is(err, ErrExecuteDisabled) {
		t.Errorf("got %v, want ErrExecuteDisabled", err)
	}
	combo.Set(2)
	if ev := cmd.Changed(combo); !ev.Valid {
		t.Errorf("valid inputs rejected: %s", ev.Reason)
	}
	inner, _ := cmd.Inputs.ValueInput(InnerWallDepthInputID)
	inner.SetExpression("700 mm")
	if ev := cmd.Changed(inner); ev.Valid {
		t.Error("inner deeper than outer accepted")
	}
}

func TestCommandExecute(t *testing.T) {
	host, a := newRunning(t, woods)
	cmd, err := a.Start()
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplySpec(cmd.Inputs, layout.Spec{
		Width: 120, Height: 200, OuterWallDepth: 50, WallThickness: 2, InnerWallDepth: 40,
		ComboCount: 3, PartitionCount: 4, Material: "Pine",
	}); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	report, ok := a.Command().LastReport()
	if !ok {
		t.Fatal("no report")
	}
	if report.Material != "Pine" {
		t.Errorf("material %q", report.Material)
	}
	sess, err := host.ActiveDocument().Session()
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Root.Bodies()) != report.Bodies || report.Bodies == 0 {
		t.Errorf("report has %d bodies, component %d", report.Bodies, len(sess.Root.Bodies()))
	}
	if !sess.Viewport.Fitted() || sess.Viewport.Target != report.Bounds {
		t.Error("viewport not fitted to the wardrobe")
	}

	host.ActiveDocument().Close()
	if err := cmd.Execute(context.Background()); !errors.Is(err, cad.ErrNoDesign) {
		t.Errorf("got %v, want ErrNoDesign", err)
	}
}

func TestCommandWithoutWoods(t *testing.T) {
	_, a := newRunning(t, staticMaterials{})
	cmd, err := a.Start()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.Inputs.DropDown(MaterialInputID); ok {
		t.Error("material list created without woods")
	}
	if cmd.Inputs.Count() != 7 {
		t.Errorf("got %d inputs", cmd.Inputs.Count())
	}
	if cmd.CanExecute() {
		t.Error("command executable without woods")
	}
	if err := cmd.Execute(context.Background()); !errors.Is(err, ErrExecuteDisabled) {
		t.Errorf("got %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	host, a := newRunning(t, woods)
	if !a.Running() {
		t.Fatal("not running after Run")
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("second Run: %v", err)
	}
	ws, _ := host.Workspace(WorkspaceID)
	panel, ok := ws.ToolbarPanels().ItemByID(PanelID)
	if !ok {
		t.Fatal("panel not created")
	}
	ctrl, ok := panel.Controls().ItemByID(CommandID)
	if !ok || !ctrl.IsPromoted || !ctrl.IsPromotedByDefault {
		t.Fatalf("control missing or not promoted: %+v", ctrl)
	}
	if err := a.Stop(); err != nil {
		t.Fatal(err)
	}
	if a.Running() {
		t.Error("running after Stop")
	}
	if ws.ToolbarPanels().Count() != 0 || host.CommandDefinitions().Count() != 0 {
		t.Error("registration left behind")
	}
	if err := a.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	// Items removed by someone else are skipped.
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	def, _ := host.CommandDefinitions().ItemByID(CommandID)
	def.DeleteMe()
	if err := def.DeleteMe(); !errors.Is(err, ErrDeleted) {
		t.Errorf("double delete: %v", err)
	}
	if err := a.Stop(); err != nil {
		t.Errorf("Stop after external removal: %v", err)
	}
}

func TestRunMissingWorkspace(t *testing.T) {
	host := NewHost("OtherEnvironment")
	a := New(host, woods, nil)
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded without workspace")
	}
	if a.Running() || host.CommandDefinitions().Count() != 0 {
		t.Error("failed Run left registrations")
	}
}

type refreshCounter struct {
	staticMaterials
	n int
}

func (r *refreshCounter) Refresh() error { r.n++; return nil }

func TestRunRefreshesMaterials(t *testing.T) {
	r := &refreshCounter{staticMaterials: woods}
	_, a := newRunning(t, r)
	defer a.Stop()
	if r.n != 1 {
		t.Errorf("refreshed %d times", r.n)
	}
	resolver := material.NewResolver(material.Embedded())
	_, b := newRunning(t, resolver)
	defer b.Stop()
	if len(resolver.WoodNames()) == 0 {
		t.Error("resolver not refreshed by Run")
	}
}
