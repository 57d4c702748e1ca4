// Package preview renders triangle meshes to shaded PNG images.
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/wardrobe/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default image size in pixels.
const (
	DefaultWidth  = 768
	DefaultHeight = 432
)

var (
	defaultColor      = fauxgl.HexColor("#468966")
	defaultBackground = fauxgl.HexColor("#FFF8E3")
)

// Options configures the camera and colors. The mesh is scaled into a cube
// spanning [-1,1] on every axis before rendering, so Eye is expressed in
// those coordinates. Zero values select defaults.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downsampling for antialiasing.
	Supersample int
	Color       color.Color
	Background  color.Color
	Eye         r3.Vec
	Up          r3.Vec
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Eye == (r3.Vec{}) {
		// Front three-quarter view from above the open side.
		o.Eye = r3.Vec{X: 3, Y: 2.6, Z: 5.6}
	}
	if o.Up == (r3.Vec{}) {
		o.Up = r3.Vec{Y: 1}
	}
}

// Image shades the triangles with a phong shader.
func Image(model []render.Triangle3, opts Options) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("preview: empty mesh")
	}
	opts.setDefaults()
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	const (
		fovy      = 30 // vertical field of view in degrees
		near, far = 1, 10
	)
	var (
		w, h   = opts.Width * opts.Supersample, opts.Height * opts.Supersample
		eye    = vec(opts.Eye)
		center = fauxgl.V(0, 0, 0)
		up     = vec(opts.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	ctx := fauxgl.NewContext(w, h)
	background := defaultBackground
	if opts.Background != nil {
		background = fauxgl.MakeColor(opts.Background)
	}
	ctx.ClearColorBufferWith(background)
	aspect := float64(w) / float64(h)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = defaultColor
	if opts.Color != nil {
		shader.ObjectColor = fauxgl.MakeColor(opts.Color)
	}
	ctx.Shader = shader
	ctx.DrawMesh(mesh)
	img := ctx.Image()
	if opts.Supersample > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// Write encodes the PNG preview of model to w.
func Write(w io.Writer, model []render.Triangle3, opts Options) error {
	img, err := Image(model, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFrom renders everything r yields and writes the PNG preview to w.
func WriteFrom(w io.Writer, r render.Renderer, opts Options) error {
	model, err := render.RenderAll(r)
	if err != nil {
		return err
	}
	return Write(w, model, opts)
}

// Create writes the PNG preview of r to the named file.
func Create(path string, r render.Renderer, opts Options) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFrom(fp, r, opts); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
