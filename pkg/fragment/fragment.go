// Package fragment tracks the pieces produced by repeated cuts and cascades
// a single cut across every piece it reaches.
package fragment

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// Fragment is a mesh placed in the world. Mesh is in local space and
// Transform maps local to world.
type Fragment struct {
	ID uuid.UUID
	// Parent is the fragment this one was split from, uuid.Nil for roots
	Parent     uuid.UUID
	Generation int
	Mesh       *mesh.Buffer
	Transform  mgl64.Mat4
	// Collider is an opaque handle owned by the caller. Pieces created by a
	// cut start without one.
	Collider any
}

// New creates a root fragment with a fresh ID
func New(m *mesh.Buffer, transform mgl64.Mat4) *Fragment {
	return &Fragment{
		ID:        uuid.New(),
		Mesh:      m,
		Transform: transform,
	}
}

// prepare gives f an ID and replaces a zero transform with the identity
func (f *Fragment) prepare() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Transform == (mgl64.Mat4{}) {
		f.Transform = mgl64.Ident4()
	}
}

// LocalBounds returns the cached mesh bounds, computing them if the cache
// is empty
func (f *Fragment) LocalBounds() geometry.BoundingBox {
	if f.Mesh == nil {
		return geometry.NewBoundingBox()
	}
	if !f.Mesh.Bounds.IsEmpty() {
		return f.Mesh.Bounds
	}
	return geometry.BoundsOf(f.Mesh.Vertices)
}

// WorldBounds returns the axis-aligned box around the transformed local
// bounds
func (f *Fragment) WorldBounds() geometry.BoundingBox {
	local := f.LocalBounds()
	if local.IsEmpty() {
		return local
	}
	return local.Transform(f.Transform)
}

// WorldMesh returns a copy of the mesh in world space
func (f *Fragment) WorldMesh() *mesh.Buffer {
	normal := f.Transform.Inv().Transpose()
	return f.Mesh.Transformed(
		func(v geometry.Vector3) geometry.Vector3 { return v.TransformPoint(f.Transform) },
		func(v geometry.Vector3) geometry.Vector3 { return v.TransformDirection(normal) },
	)
}

// Translate moves the fragment in world space
func (f *Fragment) Translate(offset geometry.Vector3) {
	f.Transform = mgl64.Translate3D(offset.X, offset.Y, offset.Z).Mul4(f.Transform)
}
