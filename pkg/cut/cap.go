package cut

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// triangulator fills a simple polygon. Returned triangles index into the
// polygon and wind counter-clockwise in 2D.
type triangulator func(polygon []geometry.Vector2) [][3]int

func (t Triangulation) triangulator() triangulator {
	if t == TriangulateFan {
		return triangulateFan
	}
	return triangulateEarClip
}

// signedArea2D is positive for counter-clockwise polygons
func signedArea2D(polygon []geometry.Vector2) float64 {
	area := 0.0
	for i := range polygon {
		j := (i + 1) % len(polygon)
		area += polygon[i].Cross(polygon[j])
	}
	return area / 2
}

// triangulateFan walks two cursors inward from both ends of the polygon,
// alternating which end advances. This keeps the triangles better shaped
// than a single-apex fan but is only correct for convex or star-shaped
// sections.
func triangulateFan(polygon []geometry.Vector2) [][3]int {
	n := len(polygon)
	if n < 3 {
		return nil
	}

	triangles := make([][3]int, 0, n-2)
	lo, hi := 0, n-1
	front := true
	for hi-lo >= 2 {
		if front {
			triangles = append(triangles, [3]int{lo, lo + 1, hi})
			lo++
		} else {
			triangles = append(triangles, [3]int{lo, hi - 1, hi})
			hi--
		}
		front = !front
	}

	if signedArea2D(polygon) < 0 {
		flipTriangles(triangles)
	}
	return triangles
}

// triangulateEarClip clips convex corners that contain no other polygon
// point until three remain. If no ear can be found the remainder is fanned.
func triangulateEarClip(polygon []geometry.Vector2) [][3]int {
	n := len(polygon)
	if n < 3 {
		return nil
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	clockwise := signedArea2D(polygon) < 0
	if clockwise {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}

	triangles := make([][3]int, 0, n-2)
	for len(indices) > 3 {
		earFound := false
		for i := range indices {
			if isEar(polygon, indices, i) {
				m := len(indices)
				triangles = append(triangles, [3]int{
					indices[(i-1+m)%m], indices[i], indices[(i+1)%m],
				})
				indices = append(indices[:i], indices[i+1:]...)
				earFound = true
				break
			}
		}

		if !earFound {
			for i := 1; i < len(indices)-1; i++ {
				triangles = append(triangles, [3]int{indices[0], indices[i], indices[i+1]})
			}
			indices = indices[:0]
			break
		}
	}

	if len(indices) == 3 {
		triangles = append(triangles, [3]int{indices[0], indices[1], indices[2]})
	}
	return triangles
}

// isEar reports whether the corner at position earIndex is convex and no
// other remaining point lies inside the triangle it forms
func isEar(polygon []geometry.Vector2, indices []int, earIndex int) bool {
	n := len(indices)
	prev := indices[(earIndex-1+n)%n]
	curr := indices[earIndex]
	next := indices[(earIndex+1)%n]

	a, b, c := polygon[prev], polygon[curr], polygon[next]
	if b.Sub(a).Cross(c.Sub(a)) <= 0 {
		return false
	}

	for _, idx := range indices {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		if pointInTriangle2D(polygon[idx], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle2D includes points on the triangle's edges
func pointInTriangle2D(p, a, b, c geometry.Vector2) bool {
	sign := func(p1, p2, p3 geometry.Vector2) float64 {
		return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	}

	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func flipTriangles(triangles [][3]int) {
	for i := range triangles {
		triangles[i][1], triangles[i][2] = triangles[i][2], triangles[i][1]
	}
}

// buildCaps closes both pieces along every loop. Each side gets its own
// copy of the cap vertices with the cap normal and planar UVs. The positive
// piece's cap faces against the plane normal and the negative piece's cap
// along it.
func buildCaps(loops []Loop, plane geometry.Plane, fill triangulator, pos, neg *builder) {
	u, v := plane.Basis()
	inward := plane.Normal.Mul(-1)

	for _, loop := range loops {
		polygon := make([]geometry.Vector2, len(loop.Points))
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for i, p := range loop.Points {
			q := plane.Project(p, u, v)
			polygon[i] = q
			minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
			minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
		}

		width, height := maxX-minX, maxY-minY
		if width <= 0 {
			width = 1
		}
		if height <= 0 {
			height = 1
		}

		posBase := pos.vertexCount()
		negBase := neg.vertexCount()
		for i, p := range loop.Points {
			uv := geometry.NewVector2((polygon[i].X-minX)/width, (polygon[i].Y-minY)/height)
			pos.addVertex(p, inward, uv)
			neg.addVertex(p, plane.Normal, uv)
		}

		for _, t := range fill(polygon) {
			pos.addCapTriangle(posBase+t[0], posBase+t[2], posBase+t[1])
			neg.addCapTriangle(negBase+t[0], negBase+t[1], negBase+t[2])
		}
	}
}
