package voxel

import (
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/core"
)

// VoxelEntry links one triangle into one voxel list.
type VoxelEntry struct {
	Triangle uint32
	Next     uint32
}

// FirstIndex is the offset of the triangle's first index in the index buffer.
func (e VoxelEntry) FirstIndex() uint32 {
	return 3 * e.Triangle
}

// listBuilder keeps one singly linked list per voxel inside two flat arrays.
// New entries are prepended, so a list reads back in reverse insertion order.
type listBuilder struct {
	voxels  []uint32
	entries []VoxelEntry
}

func newListBuilder(voxelCount int) *listBuilder {
	voxels := make([]uint32, voxelCount)
	for i := range voxels {
		voxels[i] = NoEntry
	}
	return &listBuilder{voxels: voxels}
}

func (lb *listBuilder) append(cell int, triangle uint32) error {
	if uint64(len(lb.entries)) >= uint64(NoEntry) {
		return core.ErrEntryOverflow
	}
	if cell < 0 || cell >= len(lb.voxels) {
		return fmt.Errorf("cell %d outside %d voxels: %w", cell, len(lb.voxels), core.ErrIndexOutOfRange)
	}
	lb.entries = append(lb.entries, VoxelEntry{Triangle: triangle, Next: lb.voxels[cell]})
	lb.voxels[cell] = uint32(len(lb.entries) - 1)
	return nil
}
