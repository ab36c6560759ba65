package fragment

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gocut/pkg/cut"
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/primitive"
)

var (
	origin = geometry.NewVector3(0, 0, 0)
	up     = geometry.NewVector3(0, 1, 0)
	right  = geometry.NewVector3(1, 0, 0)
)

func TestCutRegisteredFragment(t *testing.T) {
	r := NewRegistry()
	root := cubeAt(0, 0, 0)
	r.Register(root)
	c := NewCutter(r, nil)

	res, err := c.Cut(Request{Point: origin, Normal: up})
	require.NoError(t, err)
	require.Len(t, res.Splits, 1)
	assert.Equal(t, 2, r.Len())

	split := res.Splits[0]
	assert.Same(t, root, split.Primary)
	assert.Equal(t, root.ID, split.Secondary.Parent)
	assert.Equal(t, 1, split.Secondary.Generation)
	assert.True(t, r.Contains(split.Secondary.ID))

	// equal areas keep the positive side as primary
	assert.Equal(t, geometry.NewVector3(0, -1, 0), split.Separation)
	assert.Equal(t, []*Fragment{root}, res.Positive)
	assert.Equal(t, []*Fragment{split.Secondary}, res.Negative)
	assert.InDelta(t, 0.0, root.Mesh.Bounds.Min.Y, 1e-12)
}

func TestCutLargerPieceIsPrimary(t *testing.T) {
	r := NewRegistry()
	root := cubeAt(0, 0, 0)
	r.Register(root)

	res, err := NewCutter(r, nil).Cut(Request{Point: geometry.NewVector3(0, 0.25, 0), Normal: up})
	require.NoError(t, err)
	require.Len(t, res.Splits, 1)

	split := res.Splits[0]
	assert.Same(t, root, split.Primary)
	assert.InDelta(t, 0.25, root.Mesh.Bounds.Max.Y, 1e-12)
	assert.InDelta(t, 0.25, split.Secondary.Mesh.Bounds.Min.Y, 1e-12)
	assert.Equal(t, up, split.Separation)
}

func TestCutCascadesToAllPieces(t *testing.T) {
	r := NewRegistry()
	r.Register(cubeAt(0, 0, 0))
	c := NewCutter(r, nil)

	var before, completed int
	var last CutEvent
	c.OnBeforeCut(func(BeforeCutEvent) { before++ })
	c.OnCutCompleted(func(e CutEvent) {
		completed++
		last = e
	})

	_, err := c.Cut(Request{Point: origin, Normal: up})
	require.NoError(t, err)

	res, err := c.Cut(Request{Point: origin, Normal: right})
	require.NoError(t, err)

	assert.Len(t, res.Splits, 2, "the second cut reaches both halves")
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 2, before)
	assert.Equal(t, 2, completed)
	assert.Len(t, last.Affected, 4)
	assert.Len(t, res.Positive, 2)
	assert.Len(t, res.Negative, 2)

	// each quarter is a 0.5 x 0.5 x 1 block
	total := 0.0
	for _, f := range r.All() {
		assert.InDelta(t, 0.25, f.WorldBounds().Volume(), 1e-12)
		total += f.Mesh.SurfaceArea()
	}
	assert.InDelta(t, 4*2.5, total, 1e-9)
}

func TestCutUsesFragmentTransform(t *testing.T) {
	r := NewRegistry()
	moved := cubeAt(10, 0, 0)
	r.Register(moved)
	c := NewCutter(r, nil)

	res, err := c.Cut(Request{Point: origin, Normal: right})
	require.NoError(t, err)
	assert.Empty(t, res.Splits)
	assert.Empty(t, res.Positive, "registered fragments outside the plane are not candidates")

	res, err = c.Cut(Request{Point: origin, Normal: right, Candidates: []*Fragment{moved}})
	require.NoError(t, err)
	assert.Empty(t, res.Splits)
	assert.Equal(t, []*Fragment{moved}, res.Positive)

	res, err = c.Cut(Request{Point: geometry.NewVector3(10.2, 0, 0), Normal: right})
	require.NoError(t, err)
	require.Len(t, res.Splits, 1)
	assert.Same(t, moved, res.Splits[0].Primary)
	assert.InDelta(t, 0.7, moved.Mesh.Bounds.Max.X-moved.Mesh.Bounds.Min.X, 1e-12)
	assert.InDelta(t, 9.5, moved.WorldBounds().Min.X, 1e-12)
	assert.Equal(t, moved.Transform, res.Splits[0].Secondary.Transform)
}

func TestCutVolumeLimitsCandidates(t *testing.T) {
	r := NewRegistry()
	a, b := cubeAt(0, 0, 0), cubeAt(3, 0, 0)
	r.Register(a)
	r.Register(b)

	volume := geometry.BoundingBox{Min: geometry.NewVector3(2, -1, -1), Max: geometry.NewVector3(4, 1, 1)}
	res, err := NewCutter(r, nil).Cut(Request{Point: origin, Normal: up, Volume: &volume})
	require.NoError(t, err)
	require.Len(t, res.Splits, 1)
	assert.Same(t, b, res.Splits[0].Primary)
	assert.Equal(t, 3, r.Len())
}

func TestCutRegistersExplicitCandidates(t *testing.T) {
	r := NewRegistry()
	f := cubeAt(0, 0, 0)

	res, err := NewCutter(r, nil).Cut(Request{Point: origin, Normal: up, Candidates: []*Fragment{f, f}})
	require.NoError(t, err)
	assert.Len(t, res.Splits, 1, "duplicates are cut once")
	assert.True(t, r.Contains(f.ID))
	assert.Equal(t, 2, r.Len())
}

func TestCutParallelWorkers(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 8; i++ {
		r.Register(cubeAt(float64(i)*2, 0, 0))
	}
	opts := DefaultOptions()
	opts.Workers = 4

	res, err := NewCutter(r, &opts).Cut(Request{Point: origin, Normal: up})
	require.NoError(t, err)
	assert.Len(t, res.Splits, 8)
	assert.Equal(t, 16, r.Len())
	for _, s := range res.Splits {
		assert.InDelta(t, 0, s.Primary.Mesh.Bounds.Min.Y, 1e-12)
	}
}

func TestCutErrors(t *testing.T) {
	r := NewRegistry()
	c := NewCutter(r, nil)

	_, err := c.Cut(Request{Point: origin})
	assert.True(t, errors.Is(err, cut.ErrInvalidPlane))

	broken := primitive.Cube(1)
	broken.Normals = broken.Normals[:3]
	_, err = c.Cut(Request{Point: origin, Normal: up, Candidates: []*Fragment{New(broken, mgl64.Ident4())}})
	assert.True(t, errors.Is(err, mesh.ErrMalformed))
}

func TestCutRejectedCandidateLeavesRegistryUntouched(t *testing.T) {
	r := NewRegistry()
	root := cubeAt(0, 0, 0)
	r.Register(root)
	c := NewCutter(r, nil)

	var events int
	c.OnBeforeCut(func(BeforeCutEvent) { events++ })
	c.OnCutCompleted(func(CutEvent) { events++ })

	broken := primitive.Cube(1)
	broken.Normals = broken.Normals[:3]
	rejected := New(broken, mgl64.Ident4())

	_, err := c.Cut(Request{Point: origin, Normal: up, Candidates: []*Fragment{rejected}})
	require.ErrorIs(t, err, mesh.ErrMalformed)
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Contains(rejected.ID))
	assert.Equal(t, 0, events)
	assert.InDelta(t, -0.5, root.Mesh.Bounds.Min.Y, 1e-12, "the reached fragment is not split")

	res, err := c.Cut(Request{Point: origin, Normal: right})
	require.NoError(t, err)
	assert.Len(t, res.Splits, 1)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2, events)
}

func TestCutMalformedRegisteredFragment(t *testing.T) {
	r := NewRegistry()
	a, b := cubeAt(0, 0, 0), cubeAt(3, 0, 0)
	r.Register(a)
	r.Register(b)
	b.Mesh.Triangles = b.Mesh.Triangles[:len(b.Mesh.Triangles)-1]
	c := NewCutter(r, nil)

	var events int
	c.OnBeforeCut(func(BeforeCutEvent) { events++ })

	_, err := c.Cut(Request{Point: origin, Normal: up})
	require.ErrorIs(t, err, mesh.ErrMalformed)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, events)
	assert.InDelta(t, -0.5, a.Mesh.Bounds.Min.Y, 1e-12, "no fragment is split")

	// a cut that misses the broken fragment still works
	res, err := c.Cut(Request{Point: origin, Normal: right})
	require.NoError(t, err)
	assert.Len(t, res.Splits, 1)
	assert.Equal(t, 3, r.Len())
}

func TestCutPlaneOnFaceDoesNotSplit(t *testing.T) {
	r := NewRegistry()
	root := cubeAt(0, 0, 0)
	r.Register(root)

	res, err := NewCutter(r, nil).Cut(Request{Point: geometry.NewVector3(0, 0.5, 0), Normal: up})
	require.NoError(t, err)
	assert.Empty(t, res.Splits)
	assert.Equal(t, []*Fragment{root}, res.Negative)
	assert.Equal(t, 1, r.Len())
}

func TestCutZeroTransformCandidate(t *testing.T) {
	r := NewRegistry()
	f := &Fragment{Mesh: primitive.Cube(1)}

	res, err := NewCutter(r, nil).Cut(Request{Point: origin, Normal: up, Candidates: []*Fragment{f}})
	require.NoError(t, err)
	require.Len(t, res.Splits, 1)
	assert.Equal(t, mgl64.Ident4(), f.Transform)
	assert.True(t, r.Contains(f.ID))
}
