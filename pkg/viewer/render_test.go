package viewer

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gocut/pkg/fragment"
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/primitive"
)

func TestCameraProjectsTargetToCenter(t *testing.T) {
	bbox := geometry.BoundsOf([]geometry.Vector3{
		geometry.NewVector3(-1, -1, -1),
		geometry.NewVector3(3, 1, 1),
	})
	c := NewCamera(bbox)
	c.Rotate(0.4, 1.1)

	x, y, z := c.Project(bbox.Center(), 200, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, c.Distance, z, 1e-9)

	c.Rotate(10, 0)
	assert.Less(t, c.RotationX, math.Pi/2)
}

func TestFillTriangleDepth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	zbuffer := make([]float64, 100)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	near := func(x, y float64) screenPoint { return screenPoint{x: x, y: y, z: 1} }
	far := func(x, y float64) screenPoint { return screenPoint{x: x, y: y, z: 2} }

	fillTriangle(img, zbuffer, near(0, 0), near(9, 0), near(0, 9), red)
	fillTriangle(img, zbuffer, far(0, 0), far(9, 9), far(0, 9), blue)

	assert.Equal(t, red, img.RGBAAt(1, 1))
	assert.Equal(t, red, img.RGBAAt(1, 5))
	assert.Equal(t, blue, img.RGBAAt(2, 8))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(8, 4))
}

func TestDrawLineClips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	drawLine(img, -3, -3, 8, 8, white)
	for i := 0; i < 5; i++ {
		assert.Equal(t, white, img.RGBAAt(i, i))
	}
	assert.Equal(t, color.RGBA{}, img.RGBAAt(4, 0))
}

func TestRenderFragments(t *testing.T) {
	fragments := []*fragment.Fragment{
		fragment.New(primitive.Cube(1), mgl64.Ident4()),
		fragment.New(primitive.Cube(1), mgl64.Translate3D(1.5, 0, 0)),
	}
	opts := DefaultOptions()
	opts.Label = "2 fragments"
	opts.Edges = true

	img, err := Render(fragments, opts)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, opts.Width, opts.Height), img.Bounds())

	colors := map[color.RGBA]int{}
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			colors[img.RGBAAt(x, y)]++
		}
	}
	assert.Greater(t, colors[opts.Background], opts.Width*opts.Height/4, "background mostly visible")
	assert.Greater(t, len(colors), 4, "faces are shaded differently")
	assert.Equal(t, opts.Background, img.RGBAAt(opts.Width-1, opts.Height-1))

	label := 0
	for y := 8; y < 24; y++ {
		for x := 8; x < 8+7*len(opts.Label); x++ {
			if img.RGBAAt(x, y) == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				label++
			}
		}
	}
	assert.Positive(t, label)
}

func TestRenderErrors(t *testing.T) {
	_, err := RenderMeshes(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyScene)

	_, err = RenderMeshes([]*mesh.Buffer{primitive.Cube(1)}, Options{})
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	img, err := RenderMeshes([]*mesh.Buffer{primitive.Tetrahedron(1)}, DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "preview.png")
	require.NoError(t, SavePNG(path, img))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	decoded, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
