package mesh

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// DefaultWeldTolerance is the grid size used when merging coincident
// vertices loaded from triangle soups.
const DefaultWeldTolerance = 1e-6

type weldKey [3]int64

func quantize(v geometry.Vector3, tolerance float64) weldKey {
	return weldKey{
		int64(math.Round(v.X / tolerance)),
		int64(math.Round(v.Y / tolerance)),
		int64(math.Round(v.Z / tolerance)),
	}
}

// Weld merges vertices whose positions fall into the same tolerance cell.
// The first vertex of each cell keeps its attributes; triangles that
// collapse to fewer than three distinct vertices are dropped. Normals are
// recomputed when the input carried any.
func Weld(b *Buffer, tolerance float64) *Buffer {
	if tolerance <= 0 {
		tolerance = DefaultWeldTolerance
	}

	out := New(b.Name)
	index := make(map[weldKey]int, len(b.Vertices))
	remap := make([]int, len(b.Vertices))

	for i, v := range b.Vertices {
		key := quantize(v, tolerance)
		if existing, found := index[key]; found {
			remap[i] = existing
			continue
		}
		remap[i] = len(out.Vertices)
		index[key] = remap[i]
		out.Vertices = append(out.Vertices, v)
		if len(b.UVs) == len(b.Vertices) {
			out.UVs = append(out.UVs, b.UVs[i])
		}
	}

	out.Triangles = make([]int, 0, len(b.Triangles))
	for i := 0; i+2 < len(b.Triangles); i += 3 {
		a, c, d := remap[b.Triangles[i]], remap[b.Triangles[i+1]], remap[b.Triangles[i+2]]
		if a == c || c == d || a == d {
			continue
		}
		out.Triangles = append(out.Triangles, a, c, d)
	}

	if len(b.Normals) > 0 {
		out.RecalculateNormals()
	}
	out.RecalculateBounds()
	return out
}
