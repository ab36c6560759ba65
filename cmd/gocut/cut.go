package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gocut/pkg/cut"
	"github.com/philipparndt/gocut/pkg/fragment"
)

var (
	cutPoint         []float64
	cutNormal        []float64
	cutOutput        string
	cutASCII         bool
	cutSeparation    float64
	cutTriangulation string
	cutNoCaps        bool
)

var cutCmd = &cobra.Command{
	Use:   "cut [file]",
	Short: "Cut a mesh once and write both pieces",
	Long: `Cut an STL or OpenSCAD model with the plane through --point with normal
--normal. Both pieces are written to the output directory as STL.`,
	Args: cobra.ExactArgs(1),
	RunE: runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)

	cutCmd.Flags().Float64SliceVarP(&cutPoint, "point", "p", []float64{0, 0, 0}, "A point on the cutting plane (x,y,z)")
	cutCmd.Flags().Float64SliceVarP(&cutNormal, "normal", "n", []float64{0, 1, 0}, "Normal of the cutting plane (x,y,z)")
	cutCmd.Flags().StringVarP(&cutOutput, "output", "o", ".", "Output directory")
	cutCmd.Flags().BoolVar(&cutASCII, "ascii", false, "Write ASCII STL instead of binary")
	cutCmd.Flags().Float64Var(&cutSeparation, "separation", 0, "Move the pieces apart by this distance")
	cutCmd.Flags().StringVarP(&cutTriangulation, "triangulation", "t", "earclip", "Cap triangulation (earclip or fan)")
	cutCmd.Flags().BoolVar(&cutNoCaps, "no-caps", false, "Leave the cross-section open")
}

func runCut(cmd *cobra.Command, args []string) error {
	filename := args[0]

	point, err := vectorFlag("point", cutPoint)
	if err != nil {
		return err
	}
	normal, err := vectorFlag("normal", cutNormal)
	if err != nil {
		return err
	}
	triangulation, err := cut.ParseTriangulation(cutTriangulation)
	if err != nil {
		return err
	}

	src, err := loadInput(cmd.Context(), filename)
	if err != nil {
		return err
	}

	opts := fragment.DefaultOptions()
	opts.Slicer.Triangulation = triangulation
	opts.Slicer.SkipCaps = cutNoCaps
	opts.Logger = newLogger()

	registry := fragment.NewRegistry()
	root := fragment.New(src, mgl64.Ident4())
	registry.Register(root)

	res, err := fragment.NewCutter(registry, &opts).Cut(fragment.Request{Point: point, Normal: normal})
	if err != nil {
		return err
	}
	if len(res.Splits) == 0 {
		side := "positive"
		if len(res.Negative) > 0 {
			side = "negative"
		}
		return fmt.Errorf("the plane does not split %s, the whole mesh lies on the %s side", filename, side)
	}

	exploded := newExplosion(cutSeparation)
	exploded.record(res.Splits)
	fragments := registry.All()
	exploded.apply(fragments)

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	entries, err := exportFragments(cutOutput, base, fragments, cutASCII)
	if err != nil {
		return err
	}

	printManifest(&manifest{Source: filename, Cuts: 1, Fragments: entries})
	return nil
}
