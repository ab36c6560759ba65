package cut

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gocut/pkg/geometry"
)

func v2(x, y float64) geometry.Vector2 {
	return geometry.NewVector2(x, y)
}

func reversed(polygon []geometry.Vector2) []geometry.Vector2 {
	out := make([]geometry.Vector2, len(polygon))
	for i, p := range polygon {
		out[len(polygon)-1-i] = p
	}
	return out
}

// requireFills checks that the triangles are counter-clockwise and cover
// exactly the polygon's area
func requireFills(t *testing.T, polygon []geometry.Vector2, triangles [][3]int) {
	t.Helper()
	require.Len(t, triangles, len(polygon)-2)

	total := 0.0
	for _, tri := range triangles {
		a, b, c := polygon[tri[0]], polygon[tri[1]], polygon[tri[2]]
		area := b.Sub(a).Cross(c.Sub(a)) / 2
		require.Greater(t, area, 0.0, "triangle %v is not counter-clockwise", tri)
		total += area
	}
	assert.InDelta(t, math.Abs(signedArea2D(polygon)), total, 1e-12)
}

func TestSignedArea2D(t *testing.T) {
	square := []geometry.Vector2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1)}
	assert.InDelta(t, 1.0, signedArea2D(square), 1e-12)
	assert.InDelta(t, -1.0, signedArea2D(reversed(square)), 1e-12)
}

func TestTriangulateFanConvex(t *testing.T) {
	hexagon := make([]geometry.Vector2, 6)
	for i := range hexagon {
		angle := float64(i) * math.Pi / 3
		hexagon[i] = v2(math.Cos(angle), math.Sin(angle))
	}

	tris := triangulateFan(hexagon)
	requireFills(t, hexagon, tris)
	// cursors alternate between both ends
	assert.Equal(t, [][3]int{{0, 1, 5}, {1, 4, 5}, {1, 2, 4}, {2, 3, 4}}, tris)

	requireFills(t, reversed(hexagon), triangulateFan(reversed(hexagon)))
}

func TestTriangulateEarClipReflex(t *testing.T) {
	shapes := map[string][]geometry.Vector2{
		"L": {v2(0, 0), v2(2, 0), v2(2, 1), v2(1, 1), v2(1, 2), v2(0, 2)},
		"arrow": {
			v2(0, 0), v2(2, 1), v2(4, 0), v2(2, 4),
		},
		"comb": {
			v2(0, 0), v2(5, 0), v2(5, 3), v2(4, 3), v2(4, 1),
			v2(3, 1), v2(3, 3), v2(2, 3), v2(2, 1), v2(1, 1), v2(1, 3), v2(0, 3),
		},
	}

	for name, polygon := range shapes {
		t.Run(name, func(t *testing.T) {
			requireFills(t, polygon, triangulateEarClip(polygon))
			requireFills(t, reversed(polygon), triangulateEarClip(reversed(polygon)))
		})
	}
}

func TestFanFailsOnReflexPolygon(t *testing.T) {
	// the fan's first triangle spans the notch of the L and leaves the polygon
	l := []geometry.Vector2{v2(1, 1), v2(1, 2), v2(0, 2), v2(0, 0), v2(2, 0), v2(2, 1)}

	covered := 0.0
	for _, tri := range triangulateFan(l) {
		a, b, c := l[tri[0]], l[tri[1]], l[tri[2]]
		covered += math.Abs(b.Sub(a).Cross(c.Sub(a)) / 2)
	}
	assert.Greater(t, covered, signedArea2D(l)+1e-9)
}

func TestTriangulateDegenerateInput(t *testing.T) {
	assert.Nil(t, triangulateEarClip([]geometry.Vector2{v2(0, 0), v2(1, 0)}))
	assert.Nil(t, triangulateFan(nil))

	// collinear points have no ears and fall back to a fan
	line := []geometry.Vector2{v2(0, 0), v2(1, 0), v2(2, 0), v2(3, 0)}
	assert.Len(t, triangulateEarClip(line), 2)
}

func TestBuildCapsOrientation(t *testing.T) {
	plane := geometry.NewPlane(geometry.NewVector3(0, 1, 0), 0)
	loop := Loop{Closed: true, Points: []geometry.Vector3{
		v3(-1, 0, -1), v3(1, 0, -1), v3(1, 0, 1), v3(-1, 0, 1),
	}}

	for _, method := range []Triangulation{TriangulateEarClip, TriangulateFan} {
		t.Run(method.String(), func(t *testing.T) {
			pos, neg := newBuilder(8), newBuilder(8)
			pos.reset(0)
			neg.reset(0)
			buildCaps([]Loop{loop}, plane, method.triangulator(), pos, neg)

			require.Equal(t, 2, pos.triangleCount())
			require.Equal(t, 2, neg.triangleCount())
			assert.Zero(t, pos.area, "caps do not count towards surface area")

			for i := 0; i < 2; i++ {
				p := pos.triangles[i*3 : i*3+3]
				n := geometry.FaceNormal(pos.vertices[p[0]], pos.vertices[p[1]], pos.vertices[p[2]])
				assert.InDelta(t, -1.0, n.Y, 1e-12, "positive cap faces against the plane normal")

				q := neg.triangles[i*3 : i*3+3]
				n = geometry.FaceNormal(neg.vertices[q[0]], neg.vertices[q[1]], neg.vertices[q[2]])
				assert.InDelta(t, 1.0, n.Y, 1e-12, "negative cap faces along the plane normal")
			}

			for i := range pos.vertices {
				assert.Equal(t, v3(0, -1, 0), pos.normals[i])
				assert.Equal(t, v3(0, 1, 0), neg.normals[i])
				assert.True(t, pos.uvs[i].X >= 0 && pos.uvs[i].X <= 1)
				assert.True(t, pos.uvs[i].Y >= 0 && pos.uvs[i].Y <= 1)
			}
		})
	}
}
