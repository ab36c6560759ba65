// Package cut splits an indexed triangle mesh along a plane into two closed
// pieces with triangulated cross-section caps.
package cut

import (
	"errors"
	"fmt"
	"sync"

	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
)

// ErrInvalidPlane is returned for planes with a zero normal
var ErrInvalidPlane = errors.New("invalid cutting plane")

// Outcome describes what a Split call did
type Outcome int

const (
	// OutcomeSplit produced two new pieces
	OutcomeSplit Outcome = iota
	// OutcomeNoIntersection means the plane misses the mesh bounds
	OutcomeNoIntersection
	// OutcomeOneSided means every vertex lies on the same side, or the mesh
	// only touches the plane from behind
	OutcomeOneSided
	// OutcomeDegenerate means vertex sides disagree but no triangle produced
	// a boundary segment
	OutcomeDegenerate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSplit:
		return "split"
	case OutcomeNoIntersection:
		return "no-intersection"
	case OutcomeOneSided:
		return "one-sided"
	case OutcomeDegenerate:
		return "degenerate"
	default:
		return "unknown"
	}
}

// Result of a Split. When no split happened, the input buffer itself is
// returned on the side it belongs to and the other side is nil.
type Result struct {
	Outcome  Outcome
	Positive *mesh.Buffer
	Negative *mesh.Buffer
	// PositiveArea and NegativeArea exclude cap triangles
	PositiveArea float64
	NegativeArea float64
	Loops        []Loop
}

// Split reports whether two new pieces were produced
func (r *Result) Split() bool {
	return r.Outcome == OutcomeSplit
}

type workspace struct {
	pos, neg  *builder
	crossings map[edgeKey]int
	points    []crossing
	segments  []Segment
}

// Slicer runs cuts. It is safe for concurrent use; per-call scratch space
// comes from an internal pool.
type Slicer struct {
	opts Options
	pool sync.Pool
}

// NewSlicer creates a slicer. A nil opts uses DefaultOptions.
func NewSlicer(opts *Options) *Slicer {
	o := DefaultOptions()
	if opts != nil {
		o = opts.withDefaults()
	}

	s := &Slicer{opts: o}
	s.pool.New = func() any {
		return &workspace{
			pos:       newBuilder(o.Capacity),
			neg:       newBuilder(o.Capacity),
			crossings: make(map[edgeKey]int, o.Capacity/4),
			points:    make([]crossing, 0, o.Capacity/4),
			segments:  make([]Segment, 0, o.Capacity/4),
		}
	}
	return s
}

// Options returns the effective options
func (s *Slicer) Options() Options {
	return s.opts
}

// Split cuts m by plane. The input buffer is never modified.
func (s *Slicer) Split(m *mesh.Buffer, plane geometry.Plane) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil buffer", mesh.ErrMalformed)
	}
	if !plane.IsValid() {
		return nil, ErrInvalidPlane
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(m.Vertices) == 0 {
		return unsplit(m, OutcomeNoIntersection, true), nil
	}

	bounds := m.Bounds
	if bounds.IsEmpty() {
		bounds = geometry.BoundsOf(m.Vertices)
	}
	if !plane.IntersectsBox(bounds) {
		return unsplit(m, OutcomeNoIntersection, plane.Side(bounds.Center())), nil
	}

	src := withAttributes(m)

	ws := s.pool.Get().(*workspace)
	defer s.release(ws)

	ws.pos.reset(len(src.Vertices))
	ws.neg.reset(len(src.Vertices))

	if !classifyVertices(src, plane, ws.pos, ws.neg) {
		return unsplit(m, OutcomeOneSided, ws.neg.vertexCount() == 0), nil
	}

	sp := &splitter{
		src:       src,
		plane:     plane,
		pos:       ws.pos,
		neg:       ws.neg,
		crossings: ws.crossings,
		points:    ws.points,
		segments:  ws.segments,
		tolerance: s.opts.WeldTolerance,
	}
	sp.run()
	ws.points, ws.segments = sp.points, sp.segments

	if len(sp.segments) == 0 {
		return unsplit(m, OutcomeDegenerate, plane.Side(m.Vertices[0])), nil
	}

	loops := buildLoops(sp.segments, s.opts.WeldTolerance, s.opts.CollinearTolerance)
	if !s.opts.SkipCaps {
		buildCaps(loops, plane, s.opts.Triangulation.triangulator(), ws.pos, ws.neg)
	}

	return &Result{
		Outcome:      OutcomeSplit,
		Positive:     assemble(ws.pos, m.Name, bounds, s.opts.Assemble),
		Negative:     assemble(ws.neg, m.Name, bounds, s.opts.Assemble),
		PositiveArea: ws.pos.area,
		NegativeArea: ws.neg.area,
		Loops:        loops,
	}, nil
}

func (s *Slicer) release(ws *workspace) {
	clear(ws.crossings)
	ws.points = ws.points[:0]
	ws.segments = ws.segments[:0]
	s.pool.Put(ws)
}

func unsplit(m *mesh.Buffer, outcome Outcome, positive bool) *Result {
	r := &Result{Outcome: outcome}
	area := m.SurfaceArea()
	if positive {
		r.Positive, r.PositiveArea = m, area
	} else {
		r.Negative, r.NegativeArea = m, area
	}
	return r
}

// withAttributes returns m, or a shallow copy carrying computed normals and
// zero UVs when m lacks them
func withAttributes(m *mesh.Buffer) *mesh.Buffer {
	n := len(m.Vertices)
	if len(m.Normals) == n && len(m.UVs) == n {
		return m
	}

	work := *m
	if len(m.Normals) != n {
		work.RecalculateNormals()
	}
	if len(m.UVs) != n {
		work.UVs = make([]geometry.Vector2, n)
	}
	return &work
}
