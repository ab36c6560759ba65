package primitive

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 64

// RoundedBox tessellates a box centered on the origin whose edges are
// rounded by radius round
func RoundedBox(size geometry.Vector3, round float64, cells int) (*mesh.Buffer, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, fmt.Errorf("rounded box: %w", err)
	}
	return tessellate("rounded-box", s, cells)
}

// Cylinder tessellates a cylinder along Z centered on the origin
func Cylinder(height, radius float64, cells int) (*mesh.Buffer, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return tessellate("cylinder", s, cells)
}

// DrilledBlock is a cube with a cylindrical hole through it along Z. Cuts
// across the hole produce a cross-section with an inner loop.
func DrilledBlock(size, holeRadius float64, cells int) (*mesh.Buffer, error) {
	if holeRadius <= 0 || holeRadius >= size/2 {
		return nil, fmt.Errorf("drilled block: hole radius %g must be in (0, %g)", holeRadius, size/2)
	}
	box, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	if err != nil {
		return nil, fmt.Errorf("drilled block: %w", err)
	}
	hole, err := sdf.Cylinder3D(size*1.2, holeRadius, 0)
	if err != nil {
		return nil, fmt.Errorf("drilled block: %w", err)
	}
	return tessellate("drilled-block", sdf.Difference3D(box, hole), cells)
}

// tessellate runs marching cubes over s and welds the resulting soup into
// an indexed buffer
func tessellate(name string, s sdf.SDF3, cells int) (*mesh.Buffer, error) {
	if cells <= 0 {
		cells = DefaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%s: tessellation produced no triangles", name)
	}

	soup := make([]geometry.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		n := tri.Normal()
		soup = append(soup, geometry.NewTriangle(
			geometry.NewVector3(n.X, n.Y, n.Z),
			geometry.NewVector3(tri[0].X, tri[0].Y, tri[0].Z),
			geometry.NewVector3(tri[1].X, tri[1].Y, tri[1].Z),
			geometry.NewVector3(tri[2].X, tri[2].Y, tri[2].Z),
		))
	}

	bb := s.BoundingBox()
	extent := math.Max(bb.Max.X-bb.Min.X, math.Max(bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z))
	tolerance := extent * 1e-6
	b := mesh.Weld(mesh.FromTriangles(name, soup), tolerance)
	return finish(b), nil
}
