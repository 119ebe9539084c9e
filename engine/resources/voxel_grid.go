package resources

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

/** @brief The file extension of voxel grid resources. */
const VoxelGridExtension = ".vxg"

// EncodeVoxelGrid serialises the grid as header + payload. The payload is the
// settings block followed by the voxel and entry counts and both arrays.
func EncodeVoxelGrid(data *voxel.VoxelData, compression Compression) ([]byte, error) {
	var payload bytes.Buffer
	payload.Write(metadata.EncodeSettings(data.Settings))
	_ = binary.Write(&payload, binary.LittleEndian, uint32(len(data.Voxels)))
	_ = binary.Write(&payload, binary.LittleEndian, uint32(len(data.Entries)))
	payload.Write(metadata.EncodeVoxels(data.Voxels))
	payload.Write(metadata.EncodeEntries(data.Entries))

	raw := payload.Bytes()
	header := ResourceHeader{
		MagicNumber:  ResourceMagic,
		ResourceType: ResourceTypeVoxelGrid,
		Version:      VoxelGridVersion,
		Compression:  compression,
		Checksum:     xxhash.Sum64(raw),
	}

	body := raw
	switch compression {
	case CompressionNone:
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(raw, make([]byte, 0, len(raw)/2))
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("unknown compression %d", compression)
	}

	var out bytes.Buffer
	out.Grow(ResourceHeaderSize + len(body))
	_ = binary.Write(&out, binary.LittleEndian, header)
	out.Write(body)
	return out.Bytes(), nil
}

// ParseResourceHeader reads and checks the fixed header.
func ParseResourceHeader(b []byte) (ResourceHeader, []byte, error) {
	var h ResourceHeader
	if len(b) < ResourceHeaderSize {
		return h, nil, fmt.Errorf("%d bytes is shorter than a header: %w", len(b), core.ErrCorruptResource)
	}
	if err := binary.Read(bytes.NewReader(b[:ResourceHeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, nil, fmt.Errorf("%v: %w", err, core.ErrCorruptResource)
	}
	if h.MagicNumber != ResourceMagic {
		return h, nil, fmt.Errorf("magic 0x%08x: %w", h.MagicNumber, core.ErrInvalidMagic)
	}
	return h, b[ResourceHeaderSize:], nil
}

// DecodeVoxelGrid is the inverse of EncodeVoxelGrid. The lists are checked
// before the grid is returned.
func DecodeVoxelGrid(b []byte) (*voxel.VoxelData, ResourceHeader, error) {
	h, body, err := ParseResourceHeader(b)
	if err != nil {
		return nil, h, err
	}
	if h.ResourceType != ResourceTypeVoxelGrid {
		return nil, h, fmt.Errorf("resource type %d is not a voxel grid: %w", h.ResourceType, core.ErrCorruptResource)
	}
	if h.Version != VoxelGridVersion {
		return nil, h, fmt.Errorf("version %d: %w", h.Version, core.ErrUnsupportedVersion)
	}

	raw := body
	switch h.Compression {
	case CompressionNone:
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, h, err
		}
		defer dec.Close()
		if raw, err = dec.DecodeAll(body, nil); err != nil {
			return nil, h, fmt.Errorf("zstd: %v: %w", err, core.ErrCorruptResource)
		}
	default:
		return nil, h, fmt.Errorf("compression %d: %w", h.Compression, core.ErrCorruptResource)
	}

	if sum := xxhash.Sum64(raw); sum != h.Checksum {
		return nil, h, fmt.Errorf("payload hash %016x, header says %016x: %w", sum, h.Checksum, core.ErrChecksumMismatch)
	}

	if len(raw) < metadata.GPUGridSettingsSize+8 {
		return nil, h, fmt.Errorf("payload of %d bytes: %w", len(raw), core.ErrCorruptResource)
	}
	settings, err := metadata.DecodeSettings(raw[:metadata.GPUGridSettingsSize])
	if err != nil {
		return nil, h, err
	}
	raw = raw[metadata.GPUGridSettingsSize:]
	voxelCount := uint64(binary.LittleEndian.Uint32(raw))
	entryCount := uint64(binary.LittleEndian.Uint32(raw[4:]))
	raw = raw[8:]

	voxelBytes := voxelCount * uint64(metadata.GPUVoxelSize)
	entryBytes := entryCount * uint64(metadata.GPUVoxelEntrySize)
	if uint64(len(raw)) != voxelBytes+entryBytes {
		return nil, h, fmt.Errorf("%d voxels and %d entries need %d bytes, have %d: %w", voxelCount, entryCount, voxelBytes+entryBytes, len(raw), core.ErrCorruptResource)
	}
	voxels, err := metadata.DecodeVoxels(raw[:voxelBytes])
	if err != nil {
		return nil, h, err
	}
	entries, err := metadata.DecodeEntries(raw[voxelBytes:])
	if err != nil {
		return nil, h, err
	}

	data, err := voxel.FromArrays(settings, voxels, entries)
	if err != nil {
		return nil, h, fmt.Errorf("%w: %w", err, core.ErrCorruptResource)
	}
	return data, h, nil
}

/**
 * @brief Writes the grid to path.
 *
 * @param path The destination file.
 * @param data The grid.
 * @param compression How to store the payload.
 * @return The number of bytes written, or an error.
 */
func WriteVoxelGrid(path string, data *voxel.VoxelData, compression Compression) (int, error) {
	b, err := EncodeVoxelGrid(data, compression)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return 0, err
	}
	return len(b), nil
}

// ReadVoxelGrid reads a grid written by WriteVoxelGrid.
func ReadVoxelGrid(path string) (*voxel.VoxelData, ResourceHeader, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ResourceHeader{}, err
	}
	return DecodeVoxelGrid(b)
}
