package primitive

import (
	"math"
	"testing"

	"github.com/philipparndt/gocut/pkg/analysis"
	"github.com/philipparndt/gocut/pkg/geometry"
)

func TestCube(t *testing.T) {
	b := Cube(2)

	if err := b.Validate(); err != nil {
		t.Fatalf("invalid cube: %v", err)
	}
	if b.VertexCount() != 8 || b.TriangleCount() != 12 {
		t.Fatalf("expected 8 vertices and 12 triangles, got %d/%d", b.VertexCount(), b.TriangleCount())
	}
	if v := analysis.SignedVolume(b); math.Abs(v-8) > 1e-10 {
		t.Errorf("expected outward volume 8, got %v", v)
	}
	if !analysis.AnalyzeTopology(b, 1e-6).Watertight() {
		t.Error("cube should be watertight")
	}
	if b.Bounds.Center() != geometry.NewVector3(0, 0, 0) {
		t.Errorf("cube should be centered, got %v", b.Bounds.Center())
	}
	if len(b.Normals) != 8 || len(b.UVs) != 8 {
		t.Errorf("expected normals and uvs per vertex")
	}
}

func TestTetrahedron(t *testing.T) {
	b := Tetrahedron(2)

	if b.TriangleCount() != 4 {
		t.Fatalf("expected 4 faces, got %d", b.TriangleCount())
	}
	// inscribed in a cube of volume 8, the tetrahedron takes a third
	if v := analysis.SignedVolume(b); math.Abs(v-8.0/3) > 1e-10 {
		t.Errorf("expected outward volume 8/3, got %v", v)
	}
	if !analysis.AnalyzeTopology(b, 1e-6).Watertight() {
		t.Error("tetrahedron should be watertight")
	}
}

func TestSignedDistancePrimitives(t *testing.T) {
	if testing.Short() {
		t.Skip("marching cubes in short mode")
	}

	box, err := RoundedBox(geometry.NewVector3(2, 1, 1), 0.1, 24)
	if err != nil {
		t.Fatalf("RoundedBox failed: %v", err)
	}
	if box.IsEmpty() {
		t.Fatal("rounded box is empty")
	}
	size := box.Bounds.Size()
	if math.Abs(size.X-2) > 0.2 || math.Abs(size.Y-1) > 0.2 {
		t.Errorf("unexpected rounded box size %v", size)
	}

	cyl, err := Cylinder(2, 0.5, 24)
	if err != nil {
		t.Fatalf("Cylinder failed: %v", err)
	}
	if v := analysis.SignedVolume(cyl); math.Abs(v-math.Pi*0.25*2) > 0.2 {
		t.Errorf("cylinder volume %v too far from %v", v, math.Pi*0.25*2)
	}

	block, err := DrilledBlock(2, 0.4, 24)
	if err != nil {
		t.Fatalf("DrilledBlock failed: %v", err)
	}
	solid := 8 - math.Pi*0.16*2
	if v := analysis.SignedVolume(block); math.Abs(v-solid) > 0.4 {
		t.Errorf("drilled block volume %v too far from %v", v, solid)
	}

	if _, err := DrilledBlock(2, 1.5, 24); err == nil {
		t.Error("expected error for a hole wider than the block")
	}
}
