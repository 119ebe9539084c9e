package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

const (
	/** @brief The size in bytes of GPUGridSettings. */
	GPUGridSettingsSize int = 48
	/** @brief The size in bytes of one voxel list head. */
	GPUVoxelSize int = 4
	/** @brief The size in bytes of one voxel entry. */
	GPUVoxelEntrySize int = 8
)

/**
 * @brief The grid settings as the traversal shader reads them. Every vec3
 * occupies a 16 byte slot.
 */
type GPUGridSettings struct {
	GridStart    [3]float32
	_            float32
	GridEnd      [3]float32
	_            float32
	NumDivisions [3]uint32
	_            uint32
}

func NewGPUGridSettings(s voxel.GridSettings) GPUGridSettings {
	return GPUGridSettings{
		GridStart:    [3]float32{s.GridStart.X, s.GridStart.Y, s.GridStart.Z},
		GridEnd:      [3]float32{s.GridEnd.X, s.GridEnd.Y, s.GridEnd.Z},
		NumDivisions: [3]uint32{s.NumDivisions.X, s.NumDivisions.Y, s.NumDivisions.Z},
	}
}

func (g GPUGridSettings) GridSettings() voxel.GridSettings {
	return voxel.GridSettings{
		GridStart:    math.NewVec3(g.GridStart[0], g.GridStart[1], g.GridStart[2]),
		GridEnd:      math.NewVec3(g.GridEnd[0], g.GridEnd[1], g.GridEnd[2]),
		NumDivisions: math.UVec3{X: g.NumDivisions[0], Y: g.NumDivisions[1], Z: g.NumDivisions[2]},
	}
}

// EncodeSettings writes the padded little-endian settings block.
func EncodeSettings(s voxel.GridSettings) []byte {
	var buf bytes.Buffer
	buf.Grow(GPUGridSettingsSize)
	_ = binary.Write(&buf, binary.LittleEndian, NewGPUGridSettings(s))
	return buf.Bytes()
}

func DecodeSettings(b []byte) (voxel.GridSettings, error) {
	if len(b) != GPUGridSettingsSize {
		return voxel.GridSettings{}, fmt.Errorf("settings block is %d bytes, want %d: %w", len(b), GPUGridSettingsSize, core.ErrCorruptResource)
	}
	var g GPUGridSettings
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &g); err != nil {
		return voxel.GridSettings{}, fmt.Errorf("%v: %w", err, core.ErrCorruptResource)
	}
	return g.GridSettings(), nil
}

func EncodeVoxels(voxels []uint32) []byte {
	b := make([]byte, 0, len(voxels)*GPUVoxelSize)
	for _, v := range voxels {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func DecodeVoxels(b []byte) ([]uint32, error) {
	if len(b)%GPUVoxelSize != 0 {
		return nil, fmt.Errorf("voxel block of %d bytes: %w", len(b), core.ErrCorruptResource)
	}
	voxels := make([]uint32, len(b)/GPUVoxelSize)
	for i := range voxels {
		voxels[i] = binary.LittleEndian.Uint32(b[i*GPUVoxelSize:])
	}
	return voxels, nil
}

// EncodeEntries writes {triangle, next} pairs.
func EncodeEntries(entries []voxel.VoxelEntry) []byte {
	b := make([]byte, 0, len(entries)*GPUVoxelEntrySize)
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, e.Triangle)
		b = binary.LittleEndian.AppendUint32(b, e.Next)
	}
	return b
}

func DecodeEntries(b []byte) ([]voxel.VoxelEntry, error) {
	if len(b)%GPUVoxelEntrySize != 0 {
		return nil, fmt.Errorf("entry block of %d bytes: %w", len(b), core.ErrCorruptResource)
	}
	entries := make([]voxel.VoxelEntry, len(b)/GPUVoxelEntrySize)
	for i := range entries {
		off := i * GPUVoxelEntrySize
		entries[i] = voxel.VoxelEntry{
			Triangle: binary.LittleEndian.Uint32(b[off:]),
			Next:     binary.LittleEndian.Uint32(b[off+4:]),
		}
	}
	return entries, nil
}
