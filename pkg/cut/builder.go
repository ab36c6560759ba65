package cut

import (
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// builder accumulates one side of a cut. The remap table only ever holds
// vertices copied unmodified from the source mesh.
type builder struct {
	vertices  []geometry.Vector3
	normals   []geometry.Vector3
	uvs       []geometry.Vector2
	triangles []int
	remap     []int
	area      float64
}

func newBuilder(capacity int) *builder {
	return &builder{
		vertices:  make([]geometry.Vector3, 0, capacity),
		normals:   make([]geometry.Vector3, 0, capacity),
		uvs:       make([]geometry.Vector2, 0, capacity),
		triangles: make([]int, 0, capacity*3),
		remap:     make([]int, 0, capacity),
	}
}

func (b *builder) reset(sourceVertices int) {
	b.vertices = b.vertices[:0]
	b.normals = b.normals[:0]
	b.uvs = b.uvs[:0]
	b.triangles = b.triangles[:0]
	b.area = 0

	if cap(b.remap) < sourceVertices {
		b.remap = make([]int, sourceVertices)
	}
	b.remap = b.remap[:sourceVertices]
	for i := range b.remap {
		b.remap[i] = -1
	}
}

// copyVertex adds source vertex i unchanged and records it in the remap table
func (b *builder) copyVertex(src *mesh.Buffer, i int) {
	b.remap[i] = len(b.vertices)
	b.vertices = append(b.vertices, src.Vertices[i])
	b.normals = append(b.normals, src.Normals[i])
	b.uvs = append(b.uvs, src.UVs[i])
}

// addVertex adds a vertex that does not exist in the source mesh
func (b *builder) addVertex(position, normal geometry.Vector3, uv geometry.Vector2) int {
	b.vertices = append(b.vertices, position)
	b.normals = append(b.normals, normal)
	b.uvs = append(b.uvs, uv)
	return len(b.vertices) - 1
}

func (b *builder) contains(original int) bool {
	return b.remap[original] >= 0
}

// addOriginalTriangle adds a source triangle whose vertices were all copied
func (b *builder) addOriginalTriangle(i0, i1, i2 int) {
	b.addTriangle(b.remap[i0], b.remap[i1], b.remap[i2])
}

// addTriangle adds a triangle by builder indices and accumulates its area
func (b *builder) addTriangle(a, c, d int) {
	b.triangles = append(b.triangles, a, c, d)
	b.area += geometry.TriangleArea(b.vertices[a], b.vertices[c], b.vertices[d])
}

// addCapTriangle adds a cross-section triangle; caps are excluded from the
// surface-area total
func (b *builder) addCapTriangle(a, c, d int) {
	b.triangles = append(b.triangles, a, c, d)
}

func (b *builder) vertexCount() int {
	return len(b.vertices)
}

func (b *builder) triangleCount() int {
	return len(b.triangles) / 3
}
