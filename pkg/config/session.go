// Package config loads scripted cut sessions from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/gocut/pkg/cut"
	"github.com/philipparndt/gocut/pkg/fragment"
	"github.com/philipparndt/gocut/pkg/geometry"
	"github.com/philipparndt/gocut/pkg/mesh"
	"github.com/philipparndt/gocut/pkg/primitive"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid session")

// Output formats
const (
	FormatBinary = "binary"
	FormatASCII  = "ascii"
)

// Vec3 is written as a three element list
type Vec3 [3]float64

// Vector converts to a geometry vector
func (v Vec3) Vector() geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// Volume limits a cut to the fragments overlapping an axis-aligned box
type Volume struct {
	Min Vec3 `yaml:"min" toml:"min"`
	Max Vec3 `yaml:"max" toml:"max"`
}

// Cut is one planar cut in world space
type Cut struct {
	Point  Vec3    `yaml:"point" toml:"point"`
	Normal Vec3    `yaml:"normal" toml:"normal"`
	Volume *Volume `yaml:"volume,omitempty" toml:"volume,omitempty"`
}

// Request converts the cut for a fragment.Cutter
func (c Cut) Request() fragment.Request {
	req := fragment.Request{
		Point:  c.Point.Vector(),
		Normal: c.Normal.Vector(),
	}
	if c.Volume != nil {
		box := geometry.BoundsOf([]geometry.Vector3{c.Volume.Min.Vector(), c.Volume.Max.Vector()})
		req.Volume = &box
	}
	return req
}

// Primitive describes a generated input mesh
type Primitive struct {
	// Shape is one of cube, tetrahedron, rounded-box, cylinder, drilled-block
	Shape  string  `yaml:"shape" toml:"shape"`
	Size   float64 `yaml:"size" toml:"size"`
	Height float64 `yaml:"height,omitempty" toml:"height,omitempty"`
	Radius float64 `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Round  float64 `yaml:"round,omitempty" toml:"round,omitempty"`
	Cells  int     `yaml:"cells,omitempty" toml:"cells,omitempty"`
}

// Shapes lists the primitive names Build accepts
var Shapes = []string{"cube", "tetrahedron", "rounded-box", "cylinder", "drilled-block"}

// Build generates the mesh
func (p Primitive) Build() (*mesh.Buffer, error) {
	size := p.Size
	if size <= 0 {
		size = 1
	}

	switch p.Shape {
	case "cube":
		return primitive.Cube(size), nil
	case "tetrahedron":
		return primitive.Tetrahedron(size), nil
	case "rounded-box":
		return primitive.RoundedBox(geometry.NewVector3(size, size, size), p.Round, p.Cells)
	case "cylinder":
		height, radius := p.Height, p.Radius
		if height <= 0 {
			height = size
		}
		if radius <= 0 {
			radius = size / 2
		}
		return primitive.Cylinder(height, radius, p.Cells)
	case "drilled-block":
		radius := p.Radius
		if radius <= 0 {
			radius = size / 4
		}
		return primitive.DrilledBlock(size, radius, p.Cells)
	default:
		return nil, fmt.Errorf("%w: unknown primitive %q (expected one of %s)", ErrInvalid, p.Shape, strings.Join(Shapes, ", "))
	}
}

// Session is a scripted sequence of cuts over one input mesh
type Session struct {
	// Input is an STL or OpenSCAD file, relative to the session file
	Input     string     `yaml:"input,omitempty" toml:"input,omitempty"`
	Primitive *Primitive `yaml:"primitive,omitempty" toml:"primitive,omitempty"`
	// Output is the directory fragments are written to
	Output string `yaml:"output" toml:"output"`
	Format string `yaml:"format" toml:"format"`
	// Separation moves every fragment this far along the separation
	// directions of the splits that produced it
	Separation    float64 `yaml:"separation" toml:"separation"`
	Triangulation string  `yaml:"triangulation" toml:"triangulation"`
	Workers       int     `yaml:"workers" toml:"workers"`
	// Preview is an optional PNG rendered after the last cut
	Preview string `yaml:"preview,omitempty" toml:"preview,omitempty"`
	Cuts    []Cut  `yaml:"cuts" toml:"cuts"`
}

// Load reads a session, picking the decoder by file extension. Relative
// paths in the session are resolved against the session file's directory.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s *Session
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".toml":
		s, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (expected .yaml, .yml or .toml)", ErrInvalid, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.resolve(filepath.Dir(path))
	return s, nil
}

// ParseYAML decodes and validates a YAML session. Unknown keys are errors.
func ParseYAML(data []byte) (*Session, error) {
	var s Session
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s.finish()
}

// ParseTOML decodes and validates a TOML session. Unknown keys are errors.
func ParseTOML(data []byte) (*Session, error) {
	var s Session
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrInvalid, undecoded[0])
	}
	return s.finish()
}

func (s *Session) finish() (*Session, error) {
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) applyDefaults() {
	if s.Output == "" {
		s.Output = "."
	}
	if s.Format == "" {
		s.Format = FormatBinary
	}
	if s.Triangulation == "" {
		s.Triangulation = cut.TriangulateEarClip.String()
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
}

func (s *Session) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	s.Input = join(s.Input)
	s.Output = join(s.Output)
	s.Preview = join(s.Preview)
}

// Validate checks the session for values the cutter would reject
func (s *Session) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	switch {
	case s.Input == "" && s.Primitive == nil:
		return invalid("one of input or primitive is required")
	case s.Input != "" && s.Primitive != nil:
		return invalid("input and primitive are mutually exclusive")
	}
	if s.Primitive != nil && !lo.Contains(Shapes, s.Primitive.Shape) {
		return invalid("unknown primitive %q", s.Primitive.Shape)
	}
	if s.Format != FormatBinary && s.Format != FormatASCII {
		return invalid("format must be %s or %s, got %q", FormatBinary, FormatASCII, s.Format)
	}
	if _, err := cut.ParseTriangulation(s.Triangulation); err != nil {
		return invalid("%v", err)
	}
	if s.Separation < 0 {
		return invalid("separation must not be negative")
	}
	if len(s.Cuts) == 0 {
		return invalid("no cuts")
	}
	for i, c := range s.Cuts {
		if c.Normal.Vector().LengthSquared() == 0 {
			return invalid("cut %d: normal must not be zero", i+1)
		}
		if v := c.Volume; v != nil && (v.Min[0] > v.Max[0] || v.Min[1] > v.Max[1] || v.Min[2] > v.Max[2]) {
			return invalid("cut %d: volume min exceeds max", i+1)
		}
	}
	return nil
}

// SlicerOptions returns the cut options the session asks for
func (s *Session) SlicerOptions() cut.Options {
	opts := cut.DefaultOptions()
	opts.Triangulation, _ = cut.ParseTriangulation(s.Triangulation)
	return opts
}
