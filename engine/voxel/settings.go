package voxel

import (
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
)

// NoEntry terminates a voxel list. No entry index may ever reach it.
const NoEntry uint32 = ^uint32(0)

// BoundsEpsilon is how far the mesh bounds are pushed out on every side.
const BoundsEpsilon float32 = 32 * math.K_FLOAT_EPSILON

// CellPadding is how far a cell box is grown on every side before the exact test.
const CellPadding float32 = math.K_FLOAT_EPSILON

// MaxVoxelCount caps nx*ny*nz.
const MaxVoxelCount uint64 = 1 << 30

// DefaultDivisions is the grid resolution used when none is configured.
var DefaultDivisions = math.UVec3{X: 32, Y: 32, Z: 32}

/**
 * @brief The spatial extent and resolution of a voxel grid. Field order
 * matches the layout consumed by the traversal shader.
 */
type GridSettings struct {
	/** @brief The minimum corner of the grid. */
	GridStart math.Vec3
	/** @brief The maximum corner of the grid. */
	GridEnd math.Vec3
	/** @brief The number of cells on each axis. */
	NumDivisions math.UVec3
}

// Validate rejects settings that cannot be partitioned.
func (s GridSettings) Validate() error {
	d := s.NumDivisions
	if d.X == 0 || d.Y == 0 || d.Z == 0 {
		return fmt.Errorf("divisions (%d,%d,%d): %w", d.X, d.Y, d.Z, core.ErrZeroDivisions)
	}
	if d.Volume() > MaxVoxelCount {
		return fmt.Errorf("divisions (%d,%d,%d) give %d voxels, limit is %d: %w", d.X, d.Y, d.Z, d.Volume(), MaxVoxelCount, core.ErrGridTooLarge)
	}
	return nil
}

// VoxelCount is nx*ny*nz.
func (s GridSettings) VoxelCount() int {
	return int(s.NumDivisions.Volume())
}

// Bounds returns the grid box.
func (s GridSettings) Bounds() math.Extents3D {
	return math.Extents3D{Min: s.GridStart, Max: s.GridEnd}
}
