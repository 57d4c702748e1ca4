package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/render"
)

// execute runs the CLI with a config file holding cfgText.
func execute(t *testing.T, cfgText string, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, t.TempDir(), "wardrobe.toml", cfgText)
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", cfg))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", "--width", "1.2m", "--combos", "3")
	if err != nil {
		t.Fatalf("valid spec rejected: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Parameters are valid") || !strings.Contains(out, "1.2 m") {
		t.Errorf("unexpected output:\n%s", out)
	}
	out, err = execute(t, "", "validate", "--width", "1m", "--combos", "50")
	if !errors.Is(err, layout.ErrInvalidSpec) {
		t.Errorf("got %v, want ErrInvalidSpec", err)
	}
	if !strings.Contains(out, "combo_count") {
		t.Errorf("field not reported:\n%s", out)
	}
	if _, err := execute(t, "", "validate", "--depth", "deep"); err == nil {
		t.Error("malformed length accepted")
	}
	if _, err := execute(t, "", "validate", "--width", "inf"); err == nil {
		t.Error("infinite width accepted")
	}
	_, err = execute(t, "", "validate", "--width", "100m", "--combos", "101")
	if !errors.Is(err, layout.ErrInvalidSpec) {
		t.Errorf("combo count above range: got %v", err)
	}
}

func TestValidateUsesConfigDefaults(t *testing.T) {
	_, err := execute(t, "[defaults]\nwidth = 10\n", "validate")
	if !errors.Is(err, layout.ErrInvalidSpec) {
		t.Errorf("config default ignored: %v", err)
	}
	if _, err := execute(t, "[defaults]\nwidth = 10\n", "validate", "--width", "200"); err != nil {
		t.Errorf("flag did not override config: %v", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	out, err := execute(t, "", "layout", "--combos", "1", "--partitions", "3")
	if err != nil {
		t.Fatal(err)
	}
	var res layout.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a layout: %v\n%s", err, out)
	}
	if res.Count(layout.Shelf) != 1 || len(res.Inner) != 1 {
		t.Errorf("got inner segments %+v", res.Inner)
	}
}

func TestMaterialsCommand(t *testing.T) {
	out, err := execute(t, "", "materials")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Walnut") || strings.Contains(out, "Steel") {
		t.Errorf("unexpected materials:\n%s", out)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	stl := filepath.Join(dir, "w.stl")
	img := filepath.Join(dir, "w.png")
	svg := filepath.Join(dir, "w.svg")
	out, err := execute(t, "[render]\nwidth = 64\nheight = 48\n",
		"build", "--width", "1m", "--height", "1.5m", "--combos", "1", "--partitions", "2",
		"-m", "Walnut", "-o", stl, "--png", img, "--sketch", svg, "--cut-list")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	for _, want := range []string{"Built wardrobe", "Walnut", "Qty", stl, img, svg} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	fp, err := os.Open(stl)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	tris, err := render.ReadSTL(fp)
	if err != nil {
		t.Fatal(err)
	}
	// Outer walls, back panel and one shelf.
	if want := 6 * render.TrianglesPerBox; len(tris) != want {
		t.Errorf("got %d triangles, want %d", len(tris), want)
	}
	pf, err := os.Open(img)
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	cfg, err := png.DecodeConfig(pf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("preview size %dx%d", cfg.Width, cfg.Height)
	}
	data, err := os.ReadFile(svg)
	if err != nil || !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("sketch not written: %v", err)
	}
}

func TestBuildCommandSketchFormat(t *testing.T) {
	if _, err := execute(t, "", "build", "--sketch", filepath.Join(t.TempDir(), "w.bmp")); err == nil {
		t.Error("unsupported sketch format accepted")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrobe.toml")
	if _, err := execute(t, "", "config", "init", path); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "config", "init", path); err == nil {
		t.Error("existing config overwritten without --force")
	}
	if _, err := loadConfig(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	out, err := execute(t, "[server]\naddr = \":9000\"\n", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `":9000"`) {
		t.Errorf("effective config missing addr:\n%s", out)
	}
}
