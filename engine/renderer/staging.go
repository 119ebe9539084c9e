package renderer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
)

// StorageAlignment is the offset alignment of each block inside a staging buffer.
const StorageAlignment uint64 = 256

// StagedGrid is one grid packed into a single staging buffer.
type StagedGrid struct {
	Name string
	// Buffer holds the three blocks at the offsets in Ranges.
	Buffer []byte
	// Ranges are the settings, voxel and entry blocks, in that order.
	Ranges [3]metadata.MemoryRange
}

func (g StagedGrid) Block(i int) []byte {
	r := g.Ranges[i]
	return g.Buffer[r.Offset : r.Offset+r.Size]
}

// StagingUploader keeps the last upload of every grid in memory.
type StagingUploader struct {
	mu    sync.RWMutex
	grids map[string]StagedGrid
}

func NewStagingUploader() *StagingUploader {
	return &StagingUploader{grids: make(map[string]StagedGrid)}
}

func (s *StagingUploader) UploadVoxelGrid(name string, settings, voxels, entries []byte) error {
	if name == "" {
		return fmt.Errorf("voxel grid upload without a name: %w", core.ErrInvalidConfig)
	}
	if len(settings) != metadata.GPUGridSettingsSize {
		return fmt.Errorf("settings block of %d bytes: %w", len(settings), core.ErrCorruptResource)
	}

	blocks := [3][]byte{settings, voxels, entries}
	var staged StagedGrid
	staged.Name = name
	offset := uint64(0)
	for i, b := range blocks {
		r := metadata.GetAlignedRange(offset, uint64(len(b)), StorageAlignment)
		staged.Ranges[i] = metadata.MemoryRange{Offset: r.Offset, Size: uint64(len(b))}
		offset = r.Offset + r.Size
	}
	staged.Buffer = make([]byte, offset)
	for i, b := range blocks {
		copy(staged.Buffer[staged.Ranges[i].Offset:], b)
	}

	s.mu.Lock()
	s.grids[name] = staged
	s.mu.Unlock()
	return nil
}

// Get returns the staged grid with the given name.
func (s *StagingUploader) Get(name string) (StagedGrid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grids[name]
	return g, ok
}

// Names lists the staged grids in sorted order.
func (s *StagingUploader) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.grids))
	for n := range s.grids {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Release drops a staged grid.
func (s *StagingUploader) Release(name string) {
	s.mu.Lock()
	delete(s.grids, name)
	s.mu.Unlock()
}
