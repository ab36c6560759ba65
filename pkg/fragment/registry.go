package fragment

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/philipparndt/gocut/pkg/geometry"
)

// Registry owns the live fragments of one cutting session. It is not safe
// for concurrent use.
type Registry struct {
	fragments map[uuid.UUID]*Fragment
	order     []uuid.UUID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{fragments: make(map[uuid.UUID]*Fragment)}
}

// Register adds f, assigning an ID if it has none and the identity
// transform if its transform is zero. Registering a fragment twice is a
// no-op.
func (r *Registry) Register(f *Fragment) {
	f.prepare()
	if _, ok := r.fragments[f.ID]; ok {
		return
	}
	r.fragments[f.ID] = f
	r.order = append(r.order, f.ID)
}

// Get looks up a fragment by ID
func (r *Registry) Get(id uuid.UUID) (*Fragment, bool) {
	f, ok := r.fragments[id]
	return f, ok
}

// Contains reports whether id is registered
func (r *Registry) Contains(id uuid.UUID) bool {
	_, ok := r.fragments[id]
	return ok
}

// Destroy removes a fragment. It reports whether the fragment was present.
func (r *Registry) Destroy(id uuid.UUID) bool {
	if _, ok := r.fragments[id]; !ok {
		return false
	}
	delete(r.fragments, id)
	r.order = lo.Without(r.order, id)
	return true
}

// All returns the fragments in registration order
func (r *Registry) All() []*Fragment {
	return lo.Map(r.order, func(id uuid.UUID, _ int) *Fragment {
		return r.fragments[id]
	})
}

// Len returns the number of live fragments
func (r *Registry) Len() int {
	return len(r.order)
}

// Overlapping returns the fragments whose world bounds overlap volume
func (r *Registry) Overlapping(volume geometry.BoundingBox) []*Fragment {
	return lo.Filter(r.All(), func(f *Fragment, _ int) bool {
		return f.WorldBounds().Overlaps(volume)
	})
}

// Intersecting returns the fragments whose world bounds the plane crosses
func (r *Registry) Intersecting(plane geometry.Plane) []*Fragment {
	return lo.Filter(r.All(), func(f *Fragment, _ int) bool {
		return plane.IntersectsBox(f.WorldBounds())
	})
}
