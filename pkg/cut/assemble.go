package cut

import (
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// assemble copies a builder into a newly allocated buffer. The builder is
// pooled, so nothing may alias its slices.
func assemble(b *builder, name string, sourceBounds geometry.BoundingBox, opts AssembleOptions) *mesh.Buffer {
	out := mesh.New(name)
	out.Vertices = append(make([]geometry.Vector3, 0, len(b.vertices)), b.vertices...)
	out.Normals = append(make([]geometry.Vector3, 0, len(b.normals)), b.normals...)
	out.UVs = append(make([]geometry.Vector2, 0, len(b.uvs)), b.uvs...)
	out.Triangles = append(make([]int, 0, len(b.triangles)), b.triangles...)

	if opts.RecalculateNormals {
		out.RecalculateNormals()
	}
	if opts.RecalculateBounds {
		out.RecalculateBounds()
	} else {
		out.Bounds = sourceBounds
	}
	out.RecalculateTangents()
	return out
}
