package cut

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// Segment is where one triangle was cut. A→B runs along the positive-side
// cap, so consecutive segments of a section share B and A.
type Segment struct {
	A, B geometry.Vector3
}

// edgeKey identifies an undirected source edge
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{lo: a, hi: b}
	}
	return edgeKey{lo: b, hi: a}
}

// crossing is the plane intersection on one source edge, shared by the
// two triangles adjacent to that edge
type crossing struct {
	point  geometry.Vector3
	normal geometry.Vector3
	uv     geometry.Vector2
	pos    int
	neg    int
}

// splitter runs the per-triangle pass for one cut invocation
type splitter struct {
	src       *mesh.Buffer
	plane     geometry.Plane
	pos, neg  *builder
	crossings map[edgeKey]int
	points    []crossing
	segments  []Segment
	tolerance float64
}

// lonelyVertex returns the corner whose side differs from the other two.
// Only meaningful when the sides are mixed.
func lonelyVertex(sides [3]bool) int {
	switch {
	case sides[0] == sides[1]:
		return 2
	case sides[0] == sides[2]:
		return 1
	default:
		return 0
	}
}

func (s *splitter) run() {
	tris := s.src.Triangles
	for t := 0; t+2 < len(tris); t += 3 {
		idx := [3]int{tris[t], tris[t+1], tris[t+2]}
		sides := [3]bool{s.pos.contains(idx[0]), s.pos.contains(idx[1]), s.pos.contains(idx[2])}

		if sides[0] == sides[1] && sides[1] == sides[2] {
			if sides[0] {
				s.pos.addOriginalTriangle(idx[0], idx[1], idx[2])
			} else {
				s.neg.addOriginalTriangle(idx[0], idx[1], idx[2])
			}
			continue
		}

		s.splitTriangle(idx, sides)
	}
}

// splitTriangle cuts a triangle whose vertices straddle the plane into one
// triangle on the lonely side and two on the majority side.
func (s *splitter) splitTriangle(idx [3]int, sides [3]bool) {
	l := lonelyVertex(sides)
	lonely := idx[l]
	next := idx[(l+1)%3]
	prev := idx[(l+2)%3]
	lonelyPositive := sides[l]

	ab := s.intersect(lonely, next)
	ac := s.intersect(lonely, prev)

	lonelySide, majoritySide := s.neg, s.pos
	if lonelyPositive {
		lonelySide, majoritySide = s.pos, s.neg
	}

	la := lonelySide.remap[lonely]
	lab := s.vertexOn(ab, lonelyPositive)
	lac := s.vertexOn(ac, lonelyPositive)
	lonelySide.addTriangle(la, lab, lac)

	mb := majoritySide.remap[next]
	mc := majoritySide.remap[prev]
	mab := s.vertexOn(ab, !lonelyPositive)
	mac := s.vertexOn(ac, !lonelyPositive)
	majoritySide.addTriangle(mab, mb, mc)
	majoritySide.addTriangle(mab, mc, mac)

	pab, pac := s.points[ab].point, s.points[ac].point
	if pab.ApproxEqual(pac, s.tolerance) {
		return
	}
	if lonelyPositive {
		s.segments = append(s.segments, Segment{A: pac, B: pab})
	} else {
		s.segments = append(s.segments, Segment{A: pab, B: pac})
	}
}

// intersect returns the crossing on edge from→to, computing it on first
// use. The parameter is bounded to the edge.
func (s *splitter) intersect(from, to int) int {
	key := makeEdgeKey(from, to)
	if i, ok := s.crossings[key]; ok {
		return i
	}

	origin := s.src.Vertices[from]
	edge := s.src.Vertices[to].Sub(origin)
	length := edge.Length()

	t := 0.0
	if length > 0 {
		dist, ok := s.plane.Raycast(origin, edge.Mul(1/length))
		if ok {
			t = math.Min(dist, length) / length
		}
	}

	c := crossing{
		point:  origin.Lerp(s.src.Vertices[to], t),
		normal: s.src.Normals[from].Lerp(s.src.Normals[to], t).Normalize(),
		uv:     s.src.UVs[from].Lerp(s.src.UVs[to], t),
		pos:    -1,
		neg:    -1,
	}
	s.points = append(s.points, c)
	s.crossings[key] = len(s.points) - 1
	return len(s.points) - 1
}

// vertexOn returns the builder index of a crossing on the requested side
func (s *splitter) vertexOn(i int, positive bool) int {
	c := &s.points[i]
	if positive {
		if c.pos < 0 {
			c.pos = s.pos.addVertex(c.point, c.normal, c.uv)
		}
		return c.pos
	}
	if c.neg < 0 {
		c.neg = s.neg.addVertex(c.point, c.normal, c.uv)
	}
	return c.neg
}
