package voxel

import (
	"github.com/spaghettifunk/voxgrid/engine/math"
)

// CellCoord addresses a cell by its integer coordinates. Values returned by
// CellIndexOf may fall outside the grid.
type CellCoord struct {
	X, Y, Z int
}

func (c CellCoord) Axis(axis int) int {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	}
	return c.Z
}

func (c *CellCoord) setAxis(axis, v int) {
	switch axis {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	default:
		c.Z = v
	}
}

// Partition splits a grid box into NumDivisions equal cells.
type Partition struct {
	settings GridSettings
	cellSize math.Vec3
}

// NewPartition validates the settings and computes the cell size.
func NewPartition(settings GridSettings) (Partition, error) {
	if err := settings.Validate(); err != nil {
		return Partition{}, err
	}
	return Partition{
		settings: settings,
		cellSize: settings.GridEnd.Sub(settings.GridStart).Div(settings.NumDivisions.ToVec3()),
	}, nil
}

func (p Partition) Settings() GridSettings {
	return p.settings
}

func (p Partition) CellSize() math.Vec3 {
	return p.cellSize
}

// CellIndexOf returns floor((pos - start) / cellSize) per axis. Results
// outside the grid saturate to -1 or n (NaN gives -1). A zero-size axis maps to 0.
func (p Partition) CellIndexOf(pos math.Vec3) CellCoord {
	var c CellCoord
	for axis := 0; axis < 3; axis++ {
		c.setAxis(axis, p.axisIndex(pos.Axis(axis), axis))
	}
	return c
}

func (p Partition) axisIndex(v float32, axis int) int {
	size := p.cellSize.Axis(axis)
	if size <= 0 {
		return 0
	}
	f := math.Floor((v - p.settings.GridStart.Axis(axis)) / size)
	n := float32(p.settings.NumDivisions.Axis(axis))
	switch {
	case !(f >= 0):
		return -1
	case f >= n:
		return int(n)
	}
	return int(f)
}

// InGrid reports whether c addresses an existing cell.
func (p Partition) InGrid(c CellCoord) bool {
	d := p.settings.NumDivisions
	return c.X >= 0 && c.Y >= 0 && c.Z >= 0 &&
		c.X < int(d.X) && c.Y < int(d.Y) && c.Z < int(d.Z)
}

// ClampCell pulls c into the grid.
func (p Partition) ClampCell(c CellCoord) CellCoord {
	d := p.settings.NumDivisions
	return CellCoord{
		X: math.Clamp(c.X, 0, int(d.X)-1),
		Y: math.Clamp(c.Y, 0, int(d.Y)-1),
		Z: math.Clamp(c.Z, 0, int(d.Z)-1),
	}
}

/**
 * @brief Returns the unpadded box of a cell.
 */
func (p Partition) CellBox(c CellCoord) math.Extents3D {
	start := p.settings.GridStart.Add(p.cellSize.Mul(math.NewVec3(float32(c.X), float32(c.Y), float32(c.Z))))
	return math.Extents3D{Min: start, Max: start.Add(p.cellSize)}
}

/**
 * @brief Returns the cell box grown by CellPadding on every side, so geometry
 * lying exactly on a shared face is seen by both neighbours.
 */
func (p Partition) PaddedCellBox(c CellCoord) math.Extents3D {
	return p.CellBox(c).Expand(CellPadding)
}

// FlatIndex is x + nx*(y + ny*z).
func (p Partition) FlatIndex(c CellCoord) int {
	d := p.settings.NumDivisions
	return c.X + int(d.X)*(c.Y+int(d.Y)*c.Z)
}

// Cell is the inverse of FlatIndex.
func (p Partition) Cell(index int) CellCoord {
	nx, ny := int(p.settings.NumDivisions.X), int(p.settings.NumDivisions.Y)
	return CellCoord{X: index % nx, Y: (index / nx) % ny, Z: index / (nx * ny)}
}

// CandidateRange maps the triangle's tight box through CellIndexOf. Both
// corners use floor, so a triangle whose maximum sits just under a cell face
// is never tested against the padded box of the cell above it.
func (p Partition) CandidateRange(t Triangle) (lo, hi CellCoord) {
	box := t.Bounds()
	return p.ClampCell(p.CellIndexOf(box.Min)), p.ClampCell(p.CellIndexOf(box.Max))
}
