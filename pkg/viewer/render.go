// Package viewer renders fragments into images without a display.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/philipparndt/gocut/pkg/fragment"
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// ErrEmptyScene is returned when there is nothing to draw
var ErrEmptyScene = errors.New("nothing to render")

var palette = []color.RGBA{
	{R: 0x4e, G: 0x9a, B: 0xf1, A: 0xff},
	{R: 0xf1, G: 0x8f, B: 0x4e, A: 0xff},
	{R: 0x6c, G: 0xc6, B: 0x5b, A: 0xff},
	{R: 0xe0, G: 0x5a, B: 0x7a, A: 0xff},
	{R: 0xb4, G: 0x8c, B: 0xe8, A: 0xff},
	{R: 0xe8, G: 0xd4, B: 0x4d, A: 0xff},
	{R: 0x4d, G: 0xd0, B: 0xc8, A: 0xff},
	{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff},
}

// Color returns the palette color of the i-th mesh
func Color(i int) color.RGBA {
	return palette[i%len(palette)]
}

// Options configures Render
type Options struct {
	Width, Height int
	// RotationX and RotationY orbit the camera around the scene center
	RotationX, RotationY float64
	// Zoom > 0 moves the camera closer
	Zoom       float64
	Background color.RGBA
	// Edges overlays the outline of every front facing triangle
	Edges bool
	// Label is printed in the top left corner
	Label string
}

// DefaultOptions returns a three quarter view on a dark background
func DefaultOptions() Options {
	return Options{
		Width:      640,
		Height:     480,
		RotationX:  0.5,
		RotationY:  0.7,
		Background: color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff},
	}
}

// Render draws fragments in world space, each in its own palette color
func Render(fragments []*fragment.Fragment, opts Options) (*image.RGBA, error) {
	meshes := make([]*mesh.Buffer, 0, len(fragments))
	for _, f := range fragments {
		if f.Mesh != nil {
			meshes = append(meshes, f.WorldMesh())
		}
	}
	return RenderMeshes(meshes, opts)
}

// RenderMeshes draws meshes as given, the i-th in Color(i)
func RenderMeshes(meshes []*mesh.Buffer, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}

	bounds := geometry.NewBoundingBox()
	for _, m := range meshes {
		for _, v := range m.Vertices {
			bounds.Extend(v)
		}
	}
	if bounds.IsEmpty() {
		return nil, ErrEmptyScene
	}

	camera := NewCamera(bounds)
	camera.Rotate(opts.RotationX, opts.RotationY)
	if opts.Zoom > 0 {
		camera.Zoom(-math.Min(opts.Zoom, 0.9))
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	zbuffer := make([]float64, opts.Width*opts.Height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	r := &rasterizer{
		img:     img,
		zbuffer: zbuffer,
		camera:  camera,
		light:   camera.Forward().Mul(-1).Add(camera.Up.Mul(0.5)).Normalize(),
		width:   float64(opts.Width),
		height:  float64(opts.Height),
	}
	for i, m := range meshes {
		r.drawMesh(m, Color(i), opts.Edges)
	}

	if opts.Label != "" {
		drawLabel(img, opts.Label)
	}
	return img, nil
}

type rasterizer struct {
	img           *image.RGBA
	zbuffer       []float64
	camera        *Camera
	light         geometry.Vector3
	width, height float64
}

func (r *rasterizer) project(p geometry.Vector3) screenPoint {
	x, y, z := r.camera.Project(p, r.width, r.height)
	return screenPoint{x: x, y: y, z: z}
}

func (r *rasterizer) drawMesh(m *mesh.Buffer, base color.RGBA, edges bool) {
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		normal := geometry.FaceNormal(a, b, c)
		if normal.Dot(r.camera.Position.Sub(a)) <= 0 {
			continue
		}

		pa, pb, pc := r.project(a), r.project(b), r.project(c)
		fillTriangle(r.img, r.zbuffer, pa, pb, pc, shade(base, normal.Dot(r.light)))

		if edges {
			outline := shade(base, 0)
			drawLine(r.img, int(pa.x), int(pa.y), int(pb.x), int(pb.y), outline)
			drawLine(r.img, int(pb.x), int(pb.y), int(pc.x), int(pc.y), outline)
			drawLine(r.img, int(pc.x), int(pc.y), int(pa.x), int(pa.y), outline)
		}
	}
}

// shade applies ambient plus diffuse lighting
func shade(base color.RGBA, diffuse float64) color.RGBA {
	k := 0.3 + 0.7*math.Max(0, diffuse)
	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: base.A,
	}
}

func drawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(8), Y: fixed.I(8) + face.Metrics().Ascent},
	}
	d.DrawString(text)
}

// SavePNG encodes img to path, creating parent directories
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return file.Close()
}
