package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gocut/pkg/analysis"
	"github.com/philipparndt/gocut/pkg/cut"
	"github.com/philipparndt/gocut/pkg/geometry"
)

var (
	sectionPoint  []float64
	sectionNormal []float64
)

var sectionCmd = &cobra.Command{
	Use:   "section [file]",
	Short: "Measure the cross-section of a plane through a mesh",
	Long: `Intersect a mesh with a plane and report every closed loop of the
cross-section: point count, perimeter, enclosed area and the best fitting
circle, which gives the diameter of holes and shafts.`,
	Args: cobra.ExactArgs(1),
	RunE: runSection,
}

func init() {
	rootCmd.AddCommand(sectionCmd)

	sectionCmd.Flags().Float64SliceVarP(&sectionPoint, "point", "p", []float64{0, 0, 0}, "A point on the plane (x,y,z)")
	sectionCmd.Flags().Float64SliceVarP(&sectionNormal, "normal", "n", []float64{0, 1, 0}, "Normal of the plane (x,y,z)")
}

func runSection(cmd *cobra.Command, args []string) error {
	point, err := vectorFlag("point", sectionPoint)
	if err != nil {
		return err
	}
	normal, err := vectorFlag("normal", sectionNormal)
	if err != nil {
		return err
	}

	m, err := loadInput(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	opts := cut.DefaultOptions()
	opts.SkipCaps = true
	plane := geometry.PlaneFromPointNormal(point, normal)

	res, err := cut.NewSlicer(&opts).Split(m, plane)
	if err != nil {
		return err
	}

	fmt.Println("Cross-Section")
	fmt.Println("=============")
	fmt.Printf("Plane: point %s, normal %s\n", analysis.FormatVector(point), analysis.FormatVector(plane.Normal))
	fmt.Printf("Outcome: %s\n", res.Outcome)
	fmt.Printf("Loops: %d\n", len(res.Loops))

	for i, loop := range res.Loops {
		s := analysis.MeasureSection(loop.Points, plane)
		fmt.Printf("\nLoop %d", i+1)
		if !loop.Closed {
			fmt.Print(" (open)")
		}
		fmt.Println()
		fmt.Printf("  Points: %d\n", s.Points)
		fmt.Printf("  Perimeter: %.6f units\n", s.Perimeter)
		fmt.Printf("  Area: %.6f square units\n", s.Area)
		if s.Circle != nil {
			fmt.Printf("  Circle: center %s, diameter %.6f (deviation %.6f)\n",
				analysis.FormatVector(s.Circle.Center), s.Circle.Radius*2, s.Circle.StdDev)
		}
	}
	return nil
}
