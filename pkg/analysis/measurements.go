package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	VertexCount   int
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
	Topology      Topology
}

// Topology counts the edge sharing of a mesh after welding coincident
// positions
type Topology struct {
	UniqueEdges int
	// BoundaryEdges are used by a single triangle
	BoundaryEdges int
	// NonManifoldEdges are used by more than two triangles
	NonManifoldEdges int
	// FlippedEdges are traversed twice in the same direction, which means
	// neighbouring triangles disagree on winding
	FlippedEdges int
}

// Watertight reports whether every edge is shared by exactly two
// consistently wound triangles
func (t Topology) Watertight() bool {
	return t.UniqueEdges > 0 && t.BoundaryEdges == 0 && t.NonManifoldEdges == 0 && t.FlippedEdges == 0
}

// AnalyzeMesh performs comprehensive analysis on a mesh
func AnalyzeMesh(b *mesh.Buffer) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   geometry.BoundsOf(b.Vertices),
		SurfaceArea:   b.SurfaceArea(),
		VertexCount:   b.VertexCount(),
		TriangleCount: b.TriangleCount(),
		AllEdges:      make([]EdgeInfo, 0, len(b.Triangles)),
		Topology:      AnalyzeTopology(b, mesh.DefaultWeldTolerance),
	}

	result.Dimensions = result.BoundingBox.Size()
	result.Volume = math.Abs(SignedVolume(b))

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for i := 0; i < b.TriangleCount(); i++ {
		v1, v2, v3 := b.Triangle(i)
		edges := [3]struct {
			start, end geometry.Vector3
		}{
			{v1, v2},
			{v2, v3},
			{v3, v1},
		}

		for _, edge := range edges {
			length := edge.start.Distance(edge.end)
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      edge.start,
				End:        edge.end,
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// SignedVolume returns the volume enclosed by a closed mesh, positive when
// the triangles wind counter-clockwise seen from outside
func SignedVolume(b *mesh.Buffer) float64 {
	volume := 0.0
	for i := 0; i < b.TriangleCount(); i++ {
		v1, v2, v3 := b.Triangle(i)
		volume += v1.Dot(v2.Cross(v3))
	}
	return volume / 6
}

type directedEdge struct {
	from, to int
}

// AnalyzeTopology welds positions within tolerance and counts how every
// edge is shared
func AnalyzeTopology(b *mesh.Buffer, tolerance float64) Topology {
	topo, _ := edgeTopology(b, tolerance)
	return topo
}

// OpenEdges returns the edges used by a single triangle, as welded
// positions
func OpenEdges(b *mesh.Buffer, tolerance float64) [][2]geometry.Vector3 {
	_, open := edgeTopology(b, tolerance)
	return open
}

func edgeTopology(b *mesh.Buffer, tolerance float64) (Topology, [][2]geometry.Vector3) {
	welded := mesh.Weld(b, tolerance)

	directed := make(map[directedEdge]int, len(welded.Triangles))
	for i := 0; i < welded.TriangleCount(); i++ {
		t := welded.Triangles[i*3 : i*3+3]
		for k := 0; k < 3; k++ {
			directed[directedEdge{t[k], t[(k+1)%3]}]++
		}
	}

	var topo Topology
	var open [][2]geometry.Vector3
	seen := make(map[directedEdge]bool, len(directed))
	for e, count := range directed {
		key := e
		if key.from > key.to {
			key = directedEdge{key.to, key.from}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		topo.UniqueEdges++

		reverse := directed[directedEdge{e.to, e.from}]
		total := count + reverse
		switch {
		case total == 1:
			topo.BoundaryEdges++
			open = append(open, [2]geometry.Vector3{welded.Vertices[e.from], welded.Vertices[e.to]})
		case total > 2:
			topo.NonManifoldEdges++
		case count == 2 || reverse == 2:
			topo.FlippedEdges++
		}
	}
	return topo, open
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.Slice(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
