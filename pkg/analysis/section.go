package analysis

import (
	"math"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// Section describes one closed cross-section loop
type Section struct {
	Points    int
	Perimeter float64
	// Area is the unsigned area enclosed by the loop
	Area float64
	// Circle is the best circle through the loop, nil when it is degenerate
	Circle *geometry.CircleFit
}

// MeasureSection measures a loop lying in plane
func MeasureSection(points []geometry.Vector3, plane geometry.Plane) Section {
	s := Section{Points: len(points)}
	if len(points) < 3 {
		return s
	}

	u, v := plane.Basis()
	signed := 0.0
	for i, p := range points {
		q := points[(i+1)%len(points)]
		s.Perimeter += p.Distance(q)
		signed += plane.Project(p, u, v).Cross(plane.Project(q, u, v))
	}
	s.Area = math.Abs(signed) / 2

	if fit, err := geometry.FitCircle(points, plane); err == nil {
		s.Circle = fit
	}
	return s
}
