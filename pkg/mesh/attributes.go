package mesh

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// RecalculateNormals replaces the normals with area-weighted vertex normals
func (b *Buffer) RecalculateNormals() {
	normals := make([]geometry.Vector3, len(b.Vertices))
	for i := 0; i < b.TriangleCount(); i++ {
		i0, i1, i2 := b.Triangles[i*3], b.Triangles[i*3+1], b.Triangles[i*3+2]
		v0, v1, v2 := b.Vertices[i0], b.Vertices[i1], b.Vertices[i2]
		// cross product length is twice the area, which gives the weighting
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	b.Normals = normals
}

// RecalculateTangents derives per-vertex tangents from positions, normals
// and UVs. Buffers without UVs get an arbitrary tangent orthogonal to the
// normal.
func (b *Buffer) RecalculateTangents() {
	n := len(b.Vertices)
	if len(b.Normals) != n {
		b.RecalculateNormals()
	}

	tan := make([]geometry.Vector3, n)
	bitan := make([]geometry.Vector3, n)

	if len(b.UVs) == n {
		for i := 0; i < b.TriangleCount(); i++ {
			i0, i1, i2 := b.Triangles[i*3], b.Triangles[i*3+1], b.Triangles[i*3+2]
			e1 := b.Vertices[i1].Sub(b.Vertices[i0])
			e2 := b.Vertices[i2].Sub(b.Vertices[i0])
			d1 := b.UVs[i1].Sub(b.UVs[i0])
			d2 := b.UVs[i2].Sub(b.UVs[i0])

			det := d1.X*d2.Y - d2.X*d1.Y
			if math.Abs(det) < 1e-20 {
				continue
			}
			r := 1.0 / det
			sdir := e1.Mul(d2.Y).Sub(e2.Mul(d1.Y)).Mul(r)
			tdir := e2.Mul(d1.X).Sub(e1.Mul(d2.X)).Mul(r)

			for _, idx := range [3]int{i0, i1, i2} {
				tan[idx] = tan[idx].Add(sdir)
				bitan[idx] = bitan[idx].Add(tdir)
			}
		}
	}

	tangents := make([]Tangent, n)
	for i := range tangents {
		normal := b.Normals[i]
		t := tan[i]
		// Gram-Schmidt against the normal
		t = t.Sub(normal.Mul(normal.Dot(t)))
		if t.LengthSquared() < 1e-24 {
			t = fallbackTangent(normal)
		}
		t = t.Normalize()

		w := 1.0
		if normal.Cross(t).Dot(bitan[i]) < 0 {
			w = -1.0
		}
		tangents[i] = Tangent{Vector3: t, W: w}
	}
	b.Tangents = tangents
}

func fallbackTangent(normal geometry.Vector3) geometry.Vector3 {
	axis := geometry.NewVector3(1, 0, 0)
	if math.Abs(normal.X) > 0.9 {
		axis = geometry.NewVector3(0, 1, 0)
	}
	return axis.Sub(normal.Mul(normal.Dot(axis)))
}
