package openscad

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "main.scad"), `use <lib/shapes.scad>
// include <ignored.scad>
include <./params.scad>
shape();
`)
	write(t, filepath.Join(dir, "lib", "shapes.scad"), "include <../params.scad>\nmodule shape() { cube(size); }\n")
	write(t, filepath.Join(dir, "params.scad"), "size = 2;\n")

	r := NewRenderer(dir)
	deps, err := r.ResolveDependencies("main.scad")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "params.scad"),
	}, deps)
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "main.scad"), "use <gone.scad>\n")

	_, err := NewRenderer(dir).ResolveDependencies("main.scad")
	assert.Error(t, err)
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("part.scad"))
	assert.True(t, IsSource("PART.SCAD"))
	assert.False(t, IsSource("part.stl"))
}

func TestLoad(t *testing.T) {
	if _, err := exec.LookPath("openscad"); err != nil {
		t.Skip("openscad not installed")
	}
	dir := t.TempDir()
	write(t, filepath.Join(dir, "box.scad"), "cube([1, 2, 3]);\n")

	m, err := NewRenderer(dir).Load(context.Background(), "box.scad")
	require.NoError(t, err)
	assert.Equal(t, "box", m.Name)
	assert.Equal(t, 12, m.TriangleCount())
}
