package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// cube builds a closed unit cube from the 0..1 corner grid
func cube() *mesh.Buffer {
	b := mesh.New("cube")
	for i := 0; i < 8; i++ {
		b.Vertices = append(b.Vertices, geometry.NewVector3(
			float64(i&1), float64((i>>1)&1), float64((i>>2)&1),
		))
	}
	b.Triangles = []int{
		0, 2, 3, 0, 3, 1,
		4, 5, 7, 4, 7, 6,
		0, 1, 5, 0, 5, 4,
		2, 6, 7, 2, 7, 3,
		0, 4, 6, 0, 6, 2,
		1, 3, 7, 1, 7, 5,
	}
	b.RecalculateBounds()
	return b
}

func TestAnalyzeMesh(t *testing.T) {
	result := AnalyzeMesh(cube())

	if result.TriangleCount != 12 {
		t.Errorf("expected 12 triangles, got %d", result.TriangleCount)
	}
	if math.Abs(result.SurfaceArea-6) > 1e-10 {
		t.Errorf("expected surface area 6, got %v", result.SurfaceArea)
	}
	if math.Abs(result.Volume-1) > 1e-10 {
		t.Errorf("expected volume 1, got %v", result.Volume)
	}
	if result.Dimensions != geometry.NewVector3(1, 1, 1) {
		t.Errorf("unexpected dimensions %v", result.Dimensions)
	}
	if result.EdgeCount != 36 {
		t.Errorf("expected 36 triangle edges, got %d", result.EdgeCount)
	}
	if math.Abs(result.MaxEdgeLength-math.Sqrt2) > 1e-10 {
		t.Errorf("expected longest edge sqrt(2), got %v", result.MaxEdgeLength)
	}
	if math.Abs(result.MinEdgeLength-1) > 1e-10 {
		t.Errorf("expected shortest edge 1, got %v", result.MinEdgeLength)
	}
}

func TestSignedVolumeFollowsWinding(t *testing.T) {
	b := cube()
	if v := SignedVolume(b); math.Abs(v-1) > 1e-10 {
		t.Fatalf("expected +1 for outward winding, got %v", v)
	}

	for i := 0; i < len(b.Triangles); i += 3 {
		b.Triangles[i+1], b.Triangles[i+2] = b.Triangles[i+2], b.Triangles[i+1]
	}
	if v := SignedVolume(b); math.Abs(v+1) > 1e-10 {
		t.Fatalf("expected -1 for inward winding, got %v", v)
	}
}

func TestTopologyClosedCube(t *testing.T) {
	topo := AnalyzeTopology(cube(), 1e-6)

	if topo.UniqueEdges != 18 {
		t.Errorf("expected 18 unique edges, got %d", topo.UniqueEdges)
	}
	if !topo.Watertight() {
		t.Errorf("expected closed cube to be watertight, got %+v", topo)
	}
}

func TestTopologyOpenAndFlipped(t *testing.T) {
	open := cube()
	open.Triangles = open.Triangles[:len(open.Triangles)-3]

	topo := AnalyzeTopology(open, 1e-6)
	if topo.BoundaryEdges != 3 {
		t.Errorf("expected 3 boundary edges after removing a triangle, got %d", topo.BoundaryEdges)
	}
	if len(OpenEdges(open, 1e-6)) != 3 {
		t.Errorf("expected 3 open edges")
	}

	flipped := cube()
	flipped.Triangles[1], flipped.Triangles[2] = flipped.Triangles[2], flipped.Triangles[1]
	topo = AnalyzeTopology(flipped, 1e-6)
	if topo.FlippedEdges != 3 {
		t.Errorf("expected 3 flipped edges, got %d", topo.FlippedEdges)
	}
	if topo.Watertight() {
		t.Error("inconsistent winding must not count as watertight")
	}
}

func TestTopologyWeldsSoup(t *testing.T) {
	soup := mesh.FromTriangles("soup", cube().ToTriangles())
	if soup.VertexCount() != 36 {
		t.Fatalf("expected unshared vertices, got %d", soup.VertexCount())
	}
	if !AnalyzeTopology(soup, 1e-6).Watertight() {
		t.Error("expected welded soup to be watertight")
	}
}

func TestFindEdges(t *testing.T) {
	result := AnalyzeMesh(cube())

	longest := FindLongestEdges(result, 2)
	if len(longest) != 2 || math.Abs(longest[0].Length-math.Sqrt2) > 1e-10 {
		t.Errorf("unexpected longest edges %v", longest)
	}
	shortest := FindShortestEdges(result, 100)
	if len(shortest) != result.EdgeCount {
		t.Errorf("count should clamp to %d, got %d", result.EdgeCount, len(shortest))
	}
	diagonals := FindEdgesByLength(result, 1.4, 1.5)
	if len(diagonals) != 12 {
		t.Errorf("expected 12 face diagonal edges, got %d", len(diagonals))
	}
}

func TestFormatVector(t *testing.T) {
	got := FormatVector(geometry.NewVector3(1, -2.5, 0))
	if got != "(1.000000, -2.500000, 0.000000)" {
		t.Errorf("unexpected format %q", got)
	}
	if FormatMeasurement(2, "") != "2.000000 units" {
		t.Errorf("unexpected measurement format %q", FormatMeasurement(2, ""))
	}
}
