package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
)

// PrimitiveKind names a procedural geometry generator.
type PrimitiveKind string

const (
	PrimitivePlane  PrimitiveKind = "plane"
	PrimitiveCube   PrimitiveKind = "cube"
	PrimitiveSphere PrimitiveKind = "sphere"
)

// Config is the contents of a scene file.
type Config struct {
	LogLevel    string `toml:"log_level"`
	OutputDir   string `toml:"output_dir"`
	MetricsAddr string `toml:"metrics_addr"`
	Workers     int    `toml:"workers"`
	Grids       []Grid `toml:"grid"`
}

// Grid is one voxel grid to build.
type Grid struct {
	Name      string    `toml:"name"`
	Divisions [3]uint32 `toml:"divisions"`
	Compress  bool      `toml:"compress"`
	ExportGLB bool      `toml:"export_glb"`
	Scene     Scene     `toml:"scene"`
}

// Scene is a list of primitives merged into one mesh.
type Scene struct {
	Primitives []Primitive `toml:"primitive"`
}

// Primitive places one generated shape in the scene. Unused sizes are ignored
// by the generator of the given kind.
type Primitive struct {
	Kind   PrimitiveKind `toml:"kind"`
	Name   string        `toml:"name"`
	Width  float32       `toml:"width"`
	Height float32       `toml:"height"`
	Depth  float32       `toml:"depth"`
	Radius float32       `toml:"radius"`
	// Segments is the x segment count of a plane or the ring count of a sphere.
	Segments uint32 `toml:"segments"`
	// Slices is the y segment count of a plane or the slice count of a sphere.
	Slices uint32     `toml:"slices"`
	Offset [3]float32 `toml:"offset"`
	Scale  [3]float32 `toml:"scale"`
}

// NumDivisions returns the divisions of the grid, DefaultDivisions when unset.
func (g Grid) NumDivisions(def math.UVec3) math.UVec3 {
	if g.Divisions == [3]uint32{} {
		return def
	}
	return math.UVec3{X: g.Divisions[0], Y: g.Divisions[1], Z: g.Divisions[2]}
}

func (p Primitive) OffsetVec() math.Vec3 {
	return math.NewVec3(p.Offset[0], p.Offset[1], p.Offset[2])
}

// ScaleVec returns the scale with zero components read as 1.
func (p Primitive) ScaleVec() math.Vec3 {
	s := math.NewVec3(p.Scale[0], p.Scale[1], p.Scale[2])
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	if s.Z == 0 {
		s.Z = 1
	}
	return s
}

// Default returns the demo configuration: a unit sphere above a 4x4 plane.
func Default() Config {
	return Config{
		LogLevel:    "info",
		OutputDir:   "out",
		MetricsAddr: ":9090",
		Workers:     2,
		Grids: []Grid{
			{
				Name:      "demo",
				Divisions: [3]uint32{32, 32, 32},
				Compress:  true,
				ExportGLB: true,
				Scene: Scene{Primitives: []Primitive{
					{Kind: PrimitiveSphere, Name: "sphere", Radius: 1, Segments: 16, Slices: 32},
					{Kind: PrimitivePlane, Name: "floor", Width: 4, Height: 4, Segments: 1, Slices: 1, Offset: [3]float32{0, 0, -1}},
				}},
			},
		},
	}
}

// Parse decodes a TOML document over the defaults. Grids listed in the
// document replace the default grids.
func Parse(b []byte) (Config, error) {
	c := Default()
	c.Grids = nil
	d := toml.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	if err := d.Decode(&c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("line %d column %d: %s: %w", row, col, derr.Error(), core.ErrInvalidConfig)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Config{}, fmt.Errorf("%s: %w", serr.String(), core.ErrInvalidConfig)
		}
		return Config{}, fmt.Errorf("%v: %w", err, core.ErrInvalidConfig)
	}
	if len(c.Grids) == 0 {
		c.Grids = Default().Grids
	}
	return c, c.Validate()
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks names, divisions and primitive kinds.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", c.Workers, core.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Grids))
	for i, g := range c.Grids {
		if g.Name == "" {
			return fmt.Errorf("grid %d has no name: %w", i, core.ErrInvalidConfig)
		}
		if seen[g.Name] {
			return fmt.Errorf("grid '%s' is defined twice: %w", g.Name, core.ErrInvalidConfig)
		}
		seen[g.Name] = true
		if g.Divisions != [3]uint32{} && (g.Divisions[0] == 0 || g.Divisions[1] == 0 || g.Divisions[2] == 0) {
			return fmt.Errorf("grid '%s' divisions %v: %w: %w", g.Name, g.Divisions, core.ErrZeroDivisions, core.ErrInvalidConfig)
		}
		for j, p := range g.Scene.Primitives {
			switch p.Kind {
			case PrimitivePlane, PrimitiveCube, PrimitiveSphere:
			default:
				return fmt.Errorf("grid '%s' primitive %d has unknown kind '%s': %w", g.Name, j, p.Kind, core.ErrInvalidConfig)
			}
		}
	}
	return nil
}
