package sketch

import (
	"bytes"
	"testing"

	"github.com/soypat/wardrobe/layout"
	"gonum.org/v1/plot/cmpimg"
)

func defaultLayout(t *testing.T) layout.Result {
	t.Helper()
	res, err := layout.Generate(layout.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestPlot(t *testing.T) {
	res := defaultLayout(t)
	p, err := Plot(res, Options{Title: "wardrobe"})
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min >= 0 || p.X.Max <= 200 || p.Y.Max <= 240 {
		t.Errorf("axes [%g,%g]x[%g,%g] do not enclose the outline", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}
}

func TestWriteDeterministic(t *testing.T) {
	res := defaultLayout(t)
	for _, format := range []string{"png", "svg"} {
		var a, b bytes.Buffer
		if err := Write(&a, res, format, Options{}); err != nil {
			t.Fatal(err)
		}
		if err := Write(&b, res, format, Options{}); err != nil {
			t.Fatal(err)
		}
		ok, err := cmpimg.Equal(format, a.Bytes(), b.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("%s output differs between identical layouts", format)
		}
	}
}

func TestWriteDiffers(t *testing.T) {
	spec := layout.Defaults()
	res := defaultLayout(t)
	spec.ComboCount = 3
	other, err := layout.Generate(spec)
	if err != nil {
		t.Fatal(err)
	}
	var a, b bytes.Buffer
	if err := Write(&a, res, "png", Options{}); err != nil {
		t.Fatal(err)
	}
	if err := Write(&b, other, "png", Options{}); err != nil {
		t.Fatal(err)
	}
	ok, err := cmpimg.Equal("png", a.Bytes(), b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("different layouts drew the same image")
	}
}

func TestWriteFormats(t *testing.T) {
	res := defaultLayout(t)
	var buf bytes.Buffer
	if err := Write(&buf, res, "pdf", Options{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("pdf output lacks header")
	}
	if err := Write(&buf, res, "bmp", Options{}); err == nil {
		t.Error("unsupported format accepted")
	}
}
