// Package config loads the backdrop scene tunables from YAML.
// The zero-argument Default mirrors the embedded assets/backdrop.yaml.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"gopkg.in/yaml.v3"
)

//go:embed assets/backdrop.yaml
var defaultYAML []byte

var ErrInvalidConfig = errors.New("config: invalid")

// ErrEmptyConfig is returned by Load for a file with no content.
var ErrEmptyConfig = errors.New("config: file is empty")

// Timing selects how per-frame increments relate to wall time.
type Timing string

const (
	// TimingFrame applies every increment once per displayed frame.
	TimingFrame Timing = "frame"
	// TimingElapsed scales every increment by elapsed time against ReferenceHz.
	TimingElapsed Timing = "elapsed"
)

// Shape names a RotatingSolid geometry.
type Shape string

const (
	ShapeTorusKnot   Shape = "torus_knot"
	ShapeIcosahedron Shape = "icosahedron"
	ShapeOctahedron  Shape = "octahedron"
)

// Shapes lists every shape a scene must contain exactly once.
var Shapes = []Shape{ShapeTorusKnot, ShapeIcosahedron, ShapeOctahedron}

type Config struct {
	Timing      Timing         `yaml:"timing"`
	ReferenceHz float64        `yaml:"reference_hz"`
	Particles   ParticleConfig `yaml:"particles"`
	Solids      []SolidConfig  `yaml:"solids"`
	Camera      CameraConfig   `yaml:"camera"`
	Scroll      ScrollConfig   `yaml:"scroll"`
	Lights      LightsConfig   `yaml:"lights"`
	Renderer    RendererConfig `yaml:"renderer"`
}

type ParticleConfig struct {
	Count        int          `yaml:"count"`
	Extent       float32      `yaml:"extent"`
	Size         float32      `yaml:"size"`
	Color        common.Color `yaml:"color"`
	Opacity      float32      `yaml:"opacity"`
	RotationRate [3]float32   `yaml:"rotation_rate"`
}

type SolidConfig struct {
	Name  string `yaml:"name"`
	Shape Shape  `yaml:"shape"`

	// Radius is the torus knot radius or the polyhedron circumradius.
	Radius float32 `yaml:"radius"`
	Detail int     `yaml:"detail"`

	Tube            float32 `yaml:"tube"`
	TubularSegments int     `yaml:"tubular_segments"`
	RadialSegments  int     `yaml:"radial_segments"`
	P               int     `yaml:"p"`
	Q               int     `yaml:"q"`

	Color             common.Color      `yaml:"color"`
	EmissiveIntensity float32           `yaml:"emissive_intensity"`
	Position          [3]float32        `yaml:"position"`
	RotationRate      [3]float32        `yaml:"rotation_rate"`
	Oscillation       OscillationConfig `yaml:"oscillation"`
}

type OscillationConfig struct {
	Axis             string  `yaml:"axis"`
	Amplitude        float32 `yaml:"amplitude"`
	AngularFrequency float64 `yaml:"angular_frequency"`
	Wave             string  `yaml:"wave"`
	Offset           float32 `yaml:"offset"`
}

type CameraConfig struct {
	// Fov is the vertical field of view in degrees.
	Fov          float32 `yaml:"fov"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	Distance     float32 `yaml:"distance"`
	Smoothing    float32 `yaml:"smoothing"`
	PointerScale float32 `yaml:"pointer_scale"`
}

type ScrollConfig struct {
	ReferenceDistance float64 `yaml:"reference_distance"`
	RotationScale     float32 `yaml:"rotation_scale"`
}

type LightsConfig struct {
	Ambient AmbientConfig `yaml:"ambient"`
	Points  []PointConfig `yaml:"points"`
}

type AmbientConfig struct {
	Color     common.Color `yaml:"color"`
	Intensity float32      `yaml:"intensity"`
}

type PointConfig struct {
	Color     common.Color `yaml:"color"`
	Intensity float32      `yaml:"intensity"`
	Range     float32      `yaml:"range"`
	Position  [3]float32   `yaml:"position"`
}

type RendererConfig struct {
	MSAA        int    `yaml:"msaa"`
	PresentMode string `yaml:"present_mode"`
	Software    bool   `yaml:"software"`
}

// Default returns the built-in scene configuration.
//
// Returns:
//   - Config: the defaults decoded from the embedded YAML
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load reads and validates a YAML configuration file. Keys missing from the file keep their
// default values; see Parse for how list entries are completed.
// An empty or whitespace-only file is rejected with ErrEmptyConfig, since that is what a
// reader sees halfway through an editor's truncate-then-write save.
//
// Parameters:
//   - filename: path of the YAML file
//
// Returns:
//   - Config: the decoded configuration
//   - error: a read, decode or validation error
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", filename, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, fmt.Errorf("config: %s: %w", filename, ErrEmptyConfig)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", filename, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
//
// A list given in the document replaces the default list, but each entry starts from a default
// entry so it only needs the keys it changes. A solid starts from the default solid of the same
// shape, or from the default at its index when it names no known shape. A point light starts
// from the default point light at its index. Entries past the end of the defaults start empty.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the decoded configuration
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg := Default()
	if doc.Kind != 0 {
		if err := doc.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal: %w", err)
		}
	}

	defaults := Default()
	if seq := sequenceAt(&doc, "solids"); seq != nil {
		solids, err := overlayList(seq, func(i int, item *yaml.Node) SolidConfig {
			var named struct {
				Shape Shape `yaml:"shape"`
			}
			if item.Decode(&named) == nil && named.Shape != "" {
				for _, d := range defaults.Solids {
					if d.Shape == named.Shape {
						return d
					}
				}
			}
			if i < len(defaults.Solids) {
				return defaults.Solids[i]
			}
			return SolidConfig{}
		})
		if err != nil {
			return Config{}, fmt.Errorf("config: solids: %w", err)
		}
		cfg.Solids = solids
	}
	if seq := sequenceAt(&doc, "lights", "points"); seq != nil {
		points, err := overlayList(seq, func(i int, _ *yaml.Node) PointConfig {
			if i < len(defaults.Lights.Points) {
				return defaults.Lights.Points[i]
			}
			return PointConfig{}
		})
		if err != nil {
			return Config{}, fmt.Errorf("config: lights.points: %w", err)
		}
		cfg.Lights.Points = points
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlayList decodes every entry of seq on top of the base entry chosen for it.
func overlayList[T any](seq *yaml.Node, base func(i int, item *yaml.Node) T) ([]T, error) {
	out := make([]T, len(seq.Content))
	for i, item := range seq.Content {
		out[i] = base(i, item)
		if err := item.Decode(&out[i]); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return out, nil
}

// sequenceAt walks the mapping keys of doc and returns the sequence node at path, or nil.
func sequenceAt(doc *yaml.Node, path ...string) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	for _, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	if n.Kind != yaml.SequenceNode {
		return nil
	}
	return n
}

// Validate checks that the configuration describes the fixed backdrop scene.
//
// Returns:
//   - error: ErrInvalidConfig joined with every problem found, or nil
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch c.Timing {
	case TimingFrame, TimingElapsed:
	default:
		fail("timing %q must be %q or %q", c.Timing, TimingFrame, TimingElapsed)
	}
	if c.Timing == TimingElapsed && c.ReferenceHz <= 0 {
		fail("reference_hz must be positive")
	}
	if c.Particles.Count <= 0 {
		fail("particles.count must be positive")
	}
	if c.Particles.Extent <= 0 {
		fail("particles.extent must be positive")
	}

	seen := map[Shape]int{}
	for i, s := range c.Solids {
		seen[s.Shape]++
		if s.Radius <= 0 {
			fail("solids[%d].radius must be positive", i)
		}
		switch s.Shape {
		case ShapeTorusKnot:
			if s.Tube <= 0 || s.TubularSegments < 3 || s.RadialSegments < 3 {
				fail("solids[%d] torus knot needs tube > 0 and at least 3 segments each way", i)
			}
		case ShapeIcosahedron, ShapeOctahedron:
			if s.Detail < 0 {
				fail("solids[%d].detail must not be negative", i)
			}
		default:
			fail("solids[%d].shape %q is unknown", i, s.Shape)
		}
		if _, err := ParseAxis(s.Oscillation.Axis); err != nil {
			fail("solids[%d].oscillation: %v", i, err)
		}
		switch strings.ToLower(s.Oscillation.Wave) {
		case "sin", "cos":
		default:
			fail("solids[%d].oscillation.wave %q must be sin or cos", i, s.Oscillation.Wave)
		}
	}
	for _, shape := range Shapes {
		if seen[shape] != 1 {
			fail("scene needs exactly one %s, found %d", shape, seen[shape])
		}
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		fail("camera.fov must be in (0, 180)")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		fail("camera needs 0 < near < far")
	}
	if c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1 {
		fail("camera.smoothing must be in (0, 1]")
	}
	if c.Scroll.ReferenceDistance <= 0 {
		fail("scroll.reference_distance must be positive")
	}
	if len(c.Lights.Points) != 3 {
		fail("scene needs exactly 3 point lights, found %d", len(c.Lights.Points))
	}
	switch c.Renderer.MSAA {
	case 1, 4:
	default:
		fail("renderer.msaa must be 1 or 4")
	}

	return errors.Join(errs...)
}

// ParseAxis maps "x", "y" or "z" to 0, 1 or 2.
//
// Parameters:
//   - s: the axis name
//
// Returns:
//   - int: the axis index
//   - error: an error naming the bad axis
func ParseAxis(s string) (int, error) {
	switch strings.ToLower(s) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("axis %q must be x, y or z", s)
}
