package cut

import "fmt"

// Triangulation selects how cross-section caps are filled
type Triangulation int

const (
	// TriangulateEarClip handles any simple polygon, convex or not
	TriangulateEarClip Triangulation = iota
	// TriangulateFan is the alternating two-cursor fan. Only valid for
	// convex and star-shaped sections.
	TriangulateFan
)

func (t Triangulation) String() string {
	switch t {
	case TriangulateEarClip:
		return "earclip"
	case TriangulateFan:
		return "fan"
	default:
		return "unknown"
	}
}

// ParseTriangulation converts a name as printed by String
func ParseTriangulation(name string) (Triangulation, error) {
	switch name {
	case "", "earclip", "ear":
		return TriangulateEarClip, nil
	case "fan":
		return TriangulateFan, nil
	default:
		return 0, fmt.Errorf("unknown triangulation %q (expected earclip or fan)", name)
	}
}

const (
	// DefaultCapacity is the vertex capacity builders are pre-sized to
	DefaultCapacity = 1024
	// DefaultWeldTolerance is the distance under which two boundary points
	// are treated as the same point while stitching loops
	DefaultWeldTolerance = 1e-7
	// DefaultCollinearTolerance is the angle in radians under which a loop
	// point is considered to lie on a straight edge
	DefaultCollinearTolerance = 1e-6
)

// AssembleOptions controls which derived attributes the assembler
// recomputes. Tangents are always recomputed.
type AssembleOptions struct {
	RecalculateNormals bool
	RecalculateBounds  bool
}

// Options configures a Slicer
type Options struct {
	Capacity           int
	WeldTolerance      float64
	CollinearTolerance float64
	Triangulation      Triangulation
	// SkipCaps leaves the cross-section open
	SkipCaps bool
	Assemble AssembleOptions
}

// DefaultOptions returns the options used by NewSlicer(nil)
func DefaultOptions() Options {
	return Options{
		Capacity:           DefaultCapacity,
		WeldTolerance:      DefaultWeldTolerance,
		CollinearTolerance: DefaultCollinearTolerance,
		Triangulation:      TriangulateEarClip,
		Assemble: AssembleOptions{
			RecalculateBounds: true,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.WeldTolerance <= 0 {
		o.WeldTolerance = DefaultWeldTolerance
	}
	if o.CollinearTolerance <= 0 {
		o.CollinearTolerance = DefaultCollinearTolerance
	}
	return o
}
