package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/viewer"
)

var (
	previewOutput string
	previewWidth  int
	previewHeight int
	previewPitch  float64
	previewYaw    float64
	previewEdges  bool
	previewLabel  string
)

var previewCmd = &cobra.Command{
	Use:   "preview [files...]",
	Short: "Render meshes to a PNG",
	Long:  "Render one or more meshes into a single PNG, each in its own color. Pass the fragments of a session to see how they fit.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	defaults := viewer.DefaultOptions()
	f := previewCmd.Flags()
	f.StringVarP(&previewOutput, "output", "o", "preview.png", "Output PNG")
	f.IntVar(&previewWidth, "width", defaults.Width, "Image width")
	f.IntVar(&previewHeight, "height", defaults.Height, "Image height")
	f.Float64Var(&previewPitch, "pitch", defaults.RotationX*180/math.Pi, "Camera elevation in degrees")
	f.Float64Var(&previewYaw, "yaw", defaults.RotationY*180/math.Pi, "Camera azimuth in degrees")
	f.BoolVar(&previewEdges, "edges", false, "Outline triangles")
	f.StringVar(&previewLabel, "label", "", "Caption (default the file names)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	meshes := make([]*mesh.Buffer, 0, len(args))
	names := make([]string, 0, len(args))
	for _, path := range args {
		m, err := loadInput(cmd.Context(), path)
		if err != nil {
			return err
		}
		meshes = append(meshes, m)
		names = append(names, filepath.Base(path))
	}

	opts := viewer.DefaultOptions()
	opts.Width, opts.Height = previewWidth, previewHeight
	opts.RotationX = previewPitch * math.Pi / 180
	opts.RotationY = previewYaw * math.Pi / 180
	opts.Edges = previewEdges
	opts.Label = previewLabel
	if opts.Label == "" {
		opts.Label = strings.Join(names, ", ")
	}

	img, err := viewer.RenderMeshes(meshes, opts)
	if err != nil {
		return err
	}
	if err := viewer.SavePNG(previewOutput, img); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%dx%d)\n", previewOutput, opts.Width, opts.Height)
	return nil
}
