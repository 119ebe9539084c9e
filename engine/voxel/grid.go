package voxel

import (
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
)

// VoxelData is a uniform grid over a mesh where every voxel heads a list of
// the triangles intersecting it. It is read-only once built.
type VoxelData struct {
	Settings GridSettings
	// Voxels holds one list head per cell, NoEntry for an empty cell.
	Voxels []uint32
	// Entries holds the list links of all voxels.
	Entries []VoxelEntry
}

/**
 * @brief Builds the voxel grid of a triangle mesh. The grid covers the mesh
 * bounds, and a triangle is listed in every cell whose padded box it
 * intersects.
 *
 * @param positions The vertex positions.
 * @param indices The triangle list, three indices per triangle.
 * @param divisions The number of cells on each axis.
 * @return The voxel data, or an error for zero divisions or bad indices.
 */
func Build(positions []math.Vec3, indices []uint32, divisions math.UVec3) (*VoxelData, error) {
	settings := GridSettings{NumDivisions: divisions}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := checkIndices(positions, indices); err != nil {
		return nil, err
	}

	bounds := ComputeBounds(positions)
	settings.GridStart = bounds.Min
	settings.GridEnd = bounds.Max

	part, err := NewPartition(settings)
	if err != nil {
		return nil, err
	}

	lb := newListBuilder(settings.VoxelCount())
	for i := 2; i < len(indices); i += 3 {
		t := Triangle{
			A: positions[indices[i-2]],
			B: positions[indices[i-1]],
			C: positions[indices[i]],
		}
		if err := rasterizeTriangle(part, t, uint32(i/3), lb); err != nil {
			return nil, err
		}
	}

	return &VoxelData{
		Settings: settings,
		Voxels:   lb.voxels,
		Entries:  lb.entries,
	}, nil
}

func checkIndices(positions []math.Vec3, indices []uint32) error {
	if rest := len(indices) % 3; rest != 0 {
		core.LogWarn("index count %d is not a multiple of 3, ignoring the last %d", len(indices), rest)
	}
	complete := len(indices) - len(indices)%3
	for i, idx := range indices[:complete] {
		if int64(idx) >= int64(len(positions)) {
			return fmt.Errorf("index %d at offset %d, %d vertices: %w", idx, i, len(positions), core.ErrIndexOutOfRange)
		}
	}
	return nil
}

// rasterizeTriangle tests the triangle against the padded box of every cell
// in its candidate range and links it into each one it intersects.
func rasterizeTriangle(part Partition, t Triangle, triangle uint32, lb *listBuilder) error {
	lo, hi := part.CandidateRange(t)
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				cell := CellCoord{X: x, Y: y, Z: z}
				if !TriangleIntersectsBox(t, part.PaddedCellBox(cell)) {
					continue
				}
				if err := lb.append(part.FlatIndex(cell), triangle); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Partition returns the partition of the grid box.
func (d *VoxelData) Partition() (Partition, error) {
	return NewPartition(d.Settings)
}

// Head returns the first entry of a cell's list.
func (d *VoxelData) Head(x, y, z int) uint32 {
	n := d.Settings.NumDivisions
	if x < 0 || y < 0 || z < 0 || x >= int(n.X) || y >= int(n.Y) || z >= int(n.Z) {
		return NoEntry
	}
	return d.Voxels[x+int(n.X)*(y+int(n.Y)*z)]
}

// Triangles walks the list of the cell at the flat index. The most recently
// linked triangle comes first.
func (d *VoxelData) Triangles(cell int) []uint32 {
	if cell < 0 || cell >= len(d.Voxels) {
		return nil
	}
	var out []uint32
	for e := d.Voxels[cell]; e != NoEntry; e = d.Entries[e].Next {
		out = append(out, d.Entries[e].Triangle)
	}
	return out
}

// Each calls fn for every occupied cell in flat index order.
func (d *VoxelData) Each(fn func(cell CellCoord, triangles []uint32)) {
	nx, ny := int(d.Settings.NumDivisions.X), int(d.Settings.NumDivisions.Y)
	for i, head := range d.Voxels {
		if head == NoEntry {
			continue
		}
		fn(CellCoord{X: i % nx, Y: (i / nx) % ny, Z: i / (nx * ny)}, d.Triangles(i))
	}
}

/**
 * @brief Wraps arrays coming back from storage into voxel data, checking the
 * list invariants: one slot per cell, every entry on exactly one list, no
 * dangling links and no cycles.
 */
func FromArrays(settings GridSettings, voxels []uint32, entries []VoxelEntry) (*VoxelData, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(voxels) != settings.VoxelCount() {
		return nil, fmt.Errorf("%d voxel slots for %d cells: %w", len(voxels), settings.VoxelCount(), core.ErrInvalidVoxelData)
	}
	seen := make([]bool, len(entries))
	for cell, head := range voxels {
		for e := head; e != NoEntry; e = entries[e].Next {
			if int64(e) >= int64(len(entries)) {
				return nil, fmt.Errorf("cell %d links to entry %d of %d: %w", cell, e, len(entries), core.ErrInvalidVoxelData)
			}
			if seen[e] {
				return nil, fmt.Errorf("entry %d is linked twice (cell %d): %w", e, cell, core.ErrInvalidVoxelData)
			}
			seen[e] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("entry %d is on no list: %w", i, core.ErrInvalidVoxelData)
		}
	}
	return &VoxelData{Settings: settings, Voxels: voxels, Entries: entries}, nil
}
