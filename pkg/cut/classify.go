package cut

import (
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// classifyVertices copies every vertex into the builder of its side. It
// reports false when all vertices ended up on one side. Vertices on the
// plane count as positive, so a mesh without any vertex strictly in front
// of the plane only touches it and is not split either.
func classifyVertices(src *mesh.Buffer, plane geometry.Plane, pos, neg *builder) bool {
	ahead := false
	for i, v := range src.Vertices {
		d := plane.SignedDistance(v)
		if d >= 0 {
			pos.copyVertex(src, i)
			ahead = ahead || d > 0
		} else {
			neg.copyVertex(src, i)
		}
	}
	return ahead && neg.vertexCount() > 0
}
