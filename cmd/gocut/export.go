package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/philipparndt/gocut/pkg/analysis"
	"github.com/philipparndt/gocut/pkg/fragment"
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/stl"
)

type manifestEntry struct {
	ID         string  `json:"id"`
	Parent     string  `json:"parent,omitempty"`
	Generation int     `json:"generation"`
	File       string  `json:"file"`
	Triangles  int     `json:"triangles"`
	Area       float64 `json:"area"`
	Volume     float64 `json:"volume"`
}

type manifest struct {
	Source    string          `json:"source"`
	Cuts      int             `json:"cuts"`
	Fragments []manifestEntry `json:"fragments"`
}

// explosion pushes every piece away from the pieces it was split from
type explosion struct {
	distance float64
	offsets  map[uuid.UUID]geometry.Vector3
}

func newExplosion(distance float64) *explosion {
	return &explosion{distance: distance, offsets: make(map[uuid.UUID]geometry.Vector3)}
}

// record gives each secondary piece its parent's offset plus one step
// along its separation direction
func (e *explosion) record(splits []fragment.Split) {
	for _, s := range splits {
		e.offsets[s.Secondary.ID] = e.offsets[s.Primary.ID].Add(s.Separation.Mul(e.distance))
	}
}

func (e *explosion) apply(fragments []*fragment.Fragment) {
	if e.distance == 0 {
		return
	}
	for _, f := range fragments {
		f.Translate(e.offsets[f.ID])
	}
}

// exportFragments writes every fragment in world space to dir
func exportFragments(dir, base string, fragments []*fragment.Fragment, ascii bool) ([]manifestEntry, error) {
	entries := make([]manifestEntry, 0, len(fragments))
	for i, f := range fragments {
		world := f.WorldMesh()
		world.Name = fmt.Sprintf("%s-%02d", base, i+1)
		file := world.Name + ".stl"

		if err := stl.Save(filepath.Join(dir, file), world, ascii); err != nil {
			return nil, err
		}

		entry := manifestEntry{
			ID:         f.ID.String(),
			Generation: f.Generation,
			File:       file,
			Triangles:  world.TriangleCount(),
			Area:       world.SurfaceArea(),
			Volume:     math.Abs(analysis.SignedVolume(world)),
		}
		if f.Parent != uuid.Nil {
			entry.Parent = f.Parent.String()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func writeManifest(path string, m manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
