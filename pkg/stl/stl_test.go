package stl

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

const asciiTriangle = `solid demo
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid demo
`

func TestParseASCII(t *testing.T) {
	model, err := ParseBytes([]byte(asciiTriangle))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if model.Name != "demo" {
		t.Errorf("expected name demo, got %q", model.Name)
	}
	if model.TriangleCount() != 1 {
		t.Fatalf("expected 1 triangle, got %d", model.TriangleCount())
	}
	if math.Abs(model.SurfaceArea()-0.5) > 1e-10 {
		t.Errorf("expected area 0.5, got %v", model.SurfaceArea())
	}
	if model.Triangles[0].Normal != geometry.NewVector3(0, 0, 1) {
		t.Errorf("unexpected normal %v", model.Triangles[0].Normal)
	}
}

func TestParseASCIIRejectsGarbage(t *testing.T) {
	_, err := ParseBytes([]byte("solid x\nfacet normal 0 0 1\nvertex 0 zero 0\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed vertex")
	}
}

// tetra is a closed soup of four triangles
func tetra() *Model {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(1, 0, 0)
	c := geometry.NewVector3(0, 1, 0)
	d := geometry.NewVector3(0, 0, 1)
	m := NewModel("solid-looking header")
	for _, f := range [][3]geometry.Vector3{{a, c, b}, {a, b, d}, {a, d, c}, {b, c, d}} {
		m.AddTriangle(geometry.NewTriangle(geometry.FaceNormal(f[0], f[1], f[2]), f[0], f[1], f[2]))
	}
	return m
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, tetra()); err != nil {
		t.Fatalf("WriteBinary failed: %v", err)
	}
	if buf.Len() != 84+4*50 {
		t.Fatalf("unexpected binary size %d", buf.Len())
	}

	model, err := ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if model.TriangleCount() != 4 {
		t.Fatalf("expected 4 triangles, got %d", model.TriangleCount())
	}
	if model.Name != "solid-looking header" {
		t.Errorf("header name lost: %q", model.Name)
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASCII(&buf, tetra()); err != nil {
		t.Fatalf("WriteASCII failed: %v", err)
	}
	model, err := ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if math.Abs(model.SurfaceArea()-tetra().SurfaceArea()) > 1e-9 {
		t.Errorf("area changed: %v vs %v", model.SurfaceArea(), tetra().SurfaceArea())
	}
}

func TestToBufferWelds(t *testing.T) {
	b := tetra().ToBuffer(mesh.DefaultWeldTolerance)
	if b.VertexCount() != 4 {
		t.Errorf("expected 4 welded vertices, got %d", b.VertexCount())
	}
	if b.TriangleCount() != 4 {
		t.Errorf("expected 4 triangles, got %d", b.TriangleCount())
	}

	back := FromBuffer(b)
	if back.TriangleCount() != 4 {
		t.Errorf("expected 4 triangles back, got %d", back.TriangleCount())
	}
}

func TestSaveAndLoadMesh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tetra.stl")

	if err := Save(path, tetra().ToBuffer(0), false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	b, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if b.VertexCount() != 4 || b.TriangleCount() != 4 {
		t.Errorf("unexpected mesh %d/%d", b.VertexCount(), b.TriangleCount())
	}

	other := filepath.Join(dir, "tetra.obj")
	if err := os.WriteFile(other, []byte("o tetra"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMesh(other); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
