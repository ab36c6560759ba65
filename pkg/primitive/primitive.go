// Package primitive generates closed test meshes: exact polyhedra built
// directly as indexed buffers, and smooth solids tessellated from signed
// distance functions.
package primitive

import (
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// Cube returns an axis-aligned cube centered on the origin with 8 shared
// vertices and 12 outward-facing triangles
func Cube(size float64) *mesh.Buffer {
	h := size / 2
	b := mesh.New("cube")
	for i := 0; i < 8; i++ {
		x, y, z := -h, -h, -h
		if i&1 != 0 {
			x = h
		}
		if i&2 != 0 {
			y = h
		}
		if i&4 != 0 {
			z = h
		}
		b.Vertices = append(b.Vertices, geometry.NewVector3(x, y, z))
	}
	b.Triangles = []int{
		0, 2, 3, 0, 3, 1, // -z
		4, 5, 7, 4, 7, 6, // +z
		0, 1, 5, 0, 5, 4, // -y
		2, 6, 7, 2, 7, 3, // +y
		0, 4, 6, 0, 6, 2, // -x
		1, 3, 7, 1, 7, 5, // +x
	}
	return finish(b)
}

// Tetrahedron returns a regular tetrahedron inscribed in a cube of the
// given edge length
func Tetrahedron(size float64) *mesh.Buffer {
	h := size / 2
	b := mesh.New("tetrahedron")
	b.Vertices = []geometry.Vector3{
		geometry.NewVector3(h, h, h),
		geometry.NewVector3(h, -h, -h),
		geometry.NewVector3(-h, h, -h),
		geometry.NewVector3(-h, -h, h),
	}
	faces := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	for _, f := range faces {
		a, c, d := b.Vertices[f[0]], b.Vertices[f[1]], b.Vertices[f[2]]
		center := a.Add(c).Add(d).Mul(1.0 / 3)
		// the centroid is the origin, so outward normals point along center
		if geometry.FaceNormal(a, c, d).Dot(center) < 0 {
			f[1], f[2] = f[2], f[1]
		}
		b.Triangles = append(b.Triangles, f[0], f[1], f[2])
	}
	return finish(b)
}

// finish derives normals, planar UVs from the XZ extent and bounds
func finish(b *mesh.Buffer) *mesh.Buffer {
	b.RecalculateBounds()
	b.RecalculateNormals()

	size := b.Bounds.Size()
	b.UVs = make([]geometry.Vector2, len(b.Vertices))
	for i, v := range b.Vertices {
		var u, w float64
		if size.X > 0 {
			u = (v.X - b.Bounds.Min.X) / size.X
		}
		if size.Z > 0 {
			w = (v.Z - b.Bounds.Min.Z) / size.Z
		}
		b.UVs[i] = geometry.NewVector2(u, w)
	}
	return b
}
