package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/openscad"
	"github.com/philipparndt/gocut/pkg/stl"
)

// loadInput reads an STL file or renders an OpenSCAD file
func loadInput(ctx context.Context, path string) (*mesh.Buffer, error) {
	if openscad.IsSource(path) {
		return openscad.NewRenderer(filepath.Dir(path)).Load(ctx, path)
	}
	return stl.LoadMesh(path)
}

// inputFiles lists path and, for OpenSCAD sources, everything it includes
func inputFiles(path string) ([]string, error) {
	if !openscad.IsSource(path) {
		return []string{path}, nil
	}
	return openscad.NewRenderer(filepath.Dir(path)).ResolveDependencies(path)
}

func vectorFlag(name string, values []float64) (geometry.Vector3, error) {
	if len(values) != 3 {
		return geometry.Vector3{}, fmt.Errorf("--%s needs three comma separated values, got %d", name, len(values))
	}
	return geometry.NewVector3(values[0], values[1], values[2]), nil
}
