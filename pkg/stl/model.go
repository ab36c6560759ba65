package stl

import (
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// ToBuffer welds the triangle soup into an indexed mesh. Coincident corners
// within tolerance become one vertex, so the result can be cut and checked
// for watertightness.
func (m *Model) ToBuffer(tolerance float64) *mesh.Buffer {
	return mesh.Weld(mesh.FromTriangles(m.Name, m.Triangles), tolerance)
}

// FromBuffer expands an indexed mesh into an STL model with face normals
func FromBuffer(b *mesh.Buffer) *Model {
	return &Model{Name: b.Name, Triangles: b.ToTriangles()}
}
