package fragment

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/gocut/pkg/cut"
	"github.com/philipparndt/gocut/pkg/geometry"
)

const areaTieTolerance = 1e-9

// Options configures a Cutter
type Options struct {
	Slicer cut.Options
	// Workers > 1 splits candidates in parallel
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns the options used by NewCutter(registry, nil)
func DefaultOptions() Options {
	return Options{
		Slicer:  cut.DefaultOptions(),
		Workers: 1,
	}
}

// Request describes one cut. The plane is given in world space.
// Candidates are cut in addition to every registered fragment the cut
// reaches: those overlapping Volume, or, without a volume, those whose
// world bounds the plane crosses.
type Request struct {
	Point      geometry.Vector3
	Normal     geometry.Vector3
	Candidates []*Fragment
	Volume     *geometry.BoundingBox
}

// Split records one fragment that was cut in two
type Split struct {
	// Primary kept the larger surface area, its ID and its transform
	Primary *Fragment
	// Secondary is the newly registered smaller piece
	Secondary *Fragment
	// Separation is the unit world direction from primary to secondary
	Separation geometry.Vector3
}

// Result of a Cut. Positive and Negative list every candidate by the side
// of the plane it ended up on, including both pieces of each split.
type Result struct {
	Plane    geometry.Plane
	Splits   []Split
	Positive []*Fragment
	Negative []*Fragment
}

// BeforeCutEvent is delivered before any candidate is processed
type BeforeCutEvent struct {
	Plane      geometry.Plane
	Candidates []*Fragment
}

// CutEvent is delivered once per Cut call after all candidates are done
type CutEvent struct {
	Plane    geometry.Plane
	Splits   []Split
	Affected []*Fragment
}

// Cutter applies cuts to the fragments of a registry
type Cutter struct {
	registry  *Registry
	slicer    *cut.Slicer
	workers   int
	logger    *slog.Logger
	before    []func(BeforeCutEvent)
	completed []func(CutEvent)
}

// NewCutter creates a cutter over registry. A nil opts uses DefaultOptions.
func NewCutter(registry *Registry, opts *Options) *Cutter {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Cutter{
		registry: registry,
		slicer:   cut.NewSlicer(&o.Slicer),
		workers:  o.Workers,
		logger:   o.Logger,
	}
}

// Registry returns the registry the cutter works on
func (c *Cutter) Registry() *Registry {
	return c.registry
}

// OnBeforeCut adds a listener called before each cut
func (c *Cutter) OnBeforeCut(fn func(BeforeCutEvent)) {
	c.before = append(c.before, fn)
}

// OnCutCompleted adds a listener called after each cut
func (c *Cutter) OnCutCompleted(fn func(CutEvent)) {
	c.completed = append(c.completed, fn)
}

// Cut splits every candidate by the plane. Registry changes happen on the
// calling goroutine after all splits finished.
func (c *Cutter) Cut(req Request) (*Result, error) {
	if req.Normal.LengthSquared() == 0 {
		return nil, fmt.Errorf("cut at %v: %w", req.Point, cut.ErrInvalidPlane)
	}
	plane := geometry.PlaneFromPointNormal(req.Point, req.Normal)

	candidates, newcomers, err := c.candidates(req, plane)
	if err != nil {
		return nil, err
	}
	for _, fn := range c.before {
		fn(BeforeCutEvent{Plane: plane, Candidates: candidates})
	}

	c.logger.Debug("cutting", "point", req.Point, "normal", plane.Normal, "candidates", len(candidates))

	results, err := c.splitAll(candidates, plane)
	if err != nil {
		return nil, err
	}
	for _, f := range newcomers {
		c.registry.Register(f)
	}

	out := &Result{Plane: plane}
	affected := make([]*Fragment, 0, len(candidates)*2)
	for i, f := range candidates {
		res := results[i]
		affected = append(affected, f)

		if !res.Split() {
			c.logger.Debug("fragment not split", "id", f.ID, "outcome", res.Outcome)
			if res.Positive != nil {
				out.Positive = append(out.Positive, f)
			} else {
				out.Negative = append(out.Negative, f)
			}
			continue
		}

		split := c.apply(f, res, plane)
		out.Splits = append(out.Splits, split)
		affected = append(affected, split.Secondary)

		primaryPositive := split.Separation.Dot(plane.Normal) < 0
		if primaryPositive {
			out.Positive = append(out.Positive, split.Primary)
			out.Negative = append(out.Negative, split.Secondary)
		} else {
			out.Negative = append(out.Negative, split.Primary)
			out.Positive = append(out.Positive, split.Secondary)
		}
	}

	c.logger.Info("cut complete", "candidates", len(candidates), "splits", len(out.Splits), "fragments", c.registry.Len())

	for _, fn := range c.completed {
		fn(CutEvent{Plane: plane, Splits: out.Splits, Affected: affected})
	}
	return out, nil
}

// candidates merges the explicit candidates with the registered fragments
// the cut reaches. Newcomers are the explicit candidates not registered
// yet; the caller registers them once every split succeeded. Every
// candidate mesh is validated before anything else happens.
func (c *Cutter) candidates(req Request, plane geometry.Plane) (all, newcomers []*Fragment, err error) {
	explicit := lo.Filter(req.Candidates, func(f *Fragment, _ int) bool {
		return f != nil && f.Mesh != nil
	})
	for _, f := range explicit {
		f.prepare()
	}

	var reached []*Fragment
	if req.Volume != nil {
		reached = c.registry.Overlapping(*req.Volume)
	} else {
		reached = c.registry.Intersecting(plane)
	}

	all = lo.UniqBy(append(explicit, reached...), func(f *Fragment) uuid.UUID { return f.ID })
	for _, f := range all {
		if err := f.Mesh.Validate(); err != nil {
			return nil, nil, fmt.Errorf("fragment %s: %w", f.ID, err)
		}
	}

	newcomers = lo.Filter(all, func(f *Fragment, _ int) bool {
		return !c.registry.Contains(f.ID)
	})
	return all, newcomers, nil
}

func (c *Cutter) splitAll(candidates []*Fragment, plane geometry.Plane) ([]*cut.Result, error) {
	results := make([]*cut.Result, len(candidates))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, f := range candidates {
		g.Go(func() error {
			local := plane.Transform(f.Transform.Inv())
			res, err := c.slicer.Split(f.Mesh, local)
			if err != nil {
				return fmt.Errorf("fragment %s: %w", f.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// apply keeps the larger piece on the original fragment and registers the
// smaller one as its child
func (c *Cutter) apply(f *Fragment, res *cut.Result, plane geometry.Plane) Split {
	primaryMesh, secondaryMesh := res.Positive, res.Negative
	separation := plane.Normal.Mul(-1)
	// equal halves differ by rounding only; they stay with the positive side
	if res.NegativeArea > res.PositiveArea*(1+areaTieTolerance) {
		primaryMesh, secondaryMesh = res.Negative, res.Positive
		separation = plane.Normal
	}

	f.Mesh = primaryMesh
	secondary := &Fragment{
		ID:         uuid.New(),
		Parent:     f.ID,
		Generation: f.Generation + 1,
		Mesh:       secondaryMesh,
		Transform:  f.Transform,
	}
	c.registry.Register(secondary)

	c.logger.Debug("fragment split",
		"id", f.ID,
		"child", secondary.ID,
		"primary_area", max(res.PositiveArea, res.NegativeArea),
		"secondary_area", min(res.PositiveArea, res.NegativeArea),
		"loops", len(res.Loops),
	)

	return Split{Primary: f, Secondary: secondary, Separation: separation}
}
