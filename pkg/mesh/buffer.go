// Package mesh holds the indexed triangle buffers consumed and produced by
// the cut engine.
package mesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// ErrMalformed is returned for buffers that violate the index or attribute
// length invariants.
var ErrMalformed = errors.New("malformed mesh buffer")

// Tangent is a tangent-space direction with handedness in W
type Tangent struct {
	geometry.Vector3
	W float64
}

// Buffer is an indexed triangle mesh. Normals, UVs and Tangents are either
// empty or parallel to Vertices. Triangles holds three vertex indices per
// triangle.
type Buffer struct {
	Name      string
	Vertices  []geometry.Vector3
	Normals   []geometry.Vector3
	UVs       []geometry.Vector2
	Tangents  []Tangent
	Triangles []int
	Bounds    geometry.BoundingBox
}

// New creates an empty buffer
func New(name string) *Buffer {
	return &Buffer{Name: name, Bounds: geometry.NewBoundingBox()}
}

// VertexCount returns the number of vertices
func (b *Buffer) VertexCount() int {
	return len(b.Vertices)
}

// TriangleCount returns the number of triangles
func (b *Buffer) TriangleCount() int {
	return len(b.Triangles) / 3
}

// IsEmpty returns true if the mesh has no geometry
func (b *Buffer) IsEmpty() bool {
	return len(b.Triangles) == 0
}

// Triangle returns the positions of triangle i
func (b *Buffer) Triangle(i int) (geometry.Vector3, geometry.Vector3, geometry.Vector3) {
	return b.Vertices[b.Triangles[i*3]], b.Vertices[b.Triangles[i*3+1]], b.Vertices[b.Triangles[i*3+2]]
}

// Validate checks the buffer invariants
func (b *Buffer) Validate() error {
	n := len(b.Vertices)
	if len(b.Triangles)%3 != 0 {
		return fmt.Errorf("%w: triangle index count %d is not a multiple of 3", ErrMalformed, len(b.Triangles))
	}
	if len(b.Normals) != 0 && len(b.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrMalformed, len(b.Normals), n)
	}
	if len(b.UVs) != 0 && len(b.UVs) != n {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrMalformed, len(b.UVs), n)
	}
	if len(b.Tangents) != 0 && len(b.Tangents) != n {
		return fmt.Errorf("%w: %d tangents for %d vertices", ErrMalformed, len(b.Tangents), n)
	}
	for i, idx := range b.Triangles {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrMalformed, i/3, idx, n)
		}
	}
	return nil
}

// RecalculateBounds recomputes the cached bounding box
func (b *Buffer) RecalculateBounds() {
	b.Bounds = geometry.BoundsOf(b.Vertices)
}

// SurfaceArea returns the summed area of all triangles
func (b *Buffer) SurfaceArea() float64 {
	total := 0.0
	for i := 0; i < b.TriangleCount(); i++ {
		total += geometry.TriangleArea(b.Triangle(i))
	}
	return total
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Name:      b.Name,
		Vertices:  append([]geometry.Vector3(nil), b.Vertices...),
		Normals:   append([]geometry.Vector3(nil), b.Normals...),
		UVs:       append([]geometry.Vector2(nil), b.UVs...),
		Tangents:  append([]Tangent(nil), b.Tangents...),
		Triangles: append([]int(nil), b.Triangles...),
		Bounds:    b.Bounds,
	}
}

// Transformed returns a copy with positions, normals and tangents mapped by
// the given function pair
func (b *Buffer) Transformed(point, direction func(geometry.Vector3) geometry.Vector3) *Buffer {
	out := b.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = point(v)
	}
	for i, n := range out.Normals {
		out.Normals[i] = direction(n).Normalize()
	}
	for i, t := range out.Tangents {
		out.Tangents[i].Vector3 = direction(t.Vector3).Normalize()
	}
	out.RecalculateBounds()
	return out
}

// FromTriangles builds a buffer from a triangle soup, three vertices per
// triangle with the face normal on each
func FromTriangles(name string, triangles []geometry.Triangle) *Buffer {
	b := New(name)
	b.Vertices = make([]geometry.Vector3, 0, len(triangles)*3)
	b.Normals = make([]geometry.Vector3, 0, len(triangles)*3)
	b.Triangles = make([]int, 0, len(triangles)*3)

	for _, tri := range triangles {
		normal := tri.Normal
		if normal.LengthSquared() == 0 {
			normal = tri.CalculateNormal()
		}
		base := len(b.Vertices)
		b.Vertices = append(b.Vertices, tri.V1, tri.V2, tri.V3)
		b.Normals = append(b.Normals, normal, normal, normal)
		b.Triangles = append(b.Triangles, base, base+1, base+2)
	}
	b.RecalculateBounds()
	return b
}

// ToTriangles expands the buffer into a triangle soup with face normals
func (b *Buffer) ToTriangles() []geometry.Triangle {
	out := make([]geometry.Triangle, 0, b.TriangleCount())
	for i := 0; i < b.TriangleCount(); i++ {
		v1, v2, v3 := b.Triangle(i)
		out = append(out, geometry.NewTriangle(geometry.FaceNormal(v1, v2, v3), v1, v2, v3))
	}
	return out
}
