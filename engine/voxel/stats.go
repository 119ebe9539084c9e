package voxel

import (
	"encoding/binary"
	stdmath "math"

	"github.com/cespare/xxhash/v2"
)

// Stats summarises the occupancy of a grid.
type Stats struct {
	Voxels         int     `json:"voxels"`
	OccupiedVoxels int     `json:"occupied_voxels"`
	Entries        int     `json:"entries"`
	MaxListLength  int     `json:"max_list_length"`
	MeanListLength float64 `json:"mean_list_length"`
}

func (d *VoxelData) Stats() Stats {
	s := Stats{Voxels: len(d.Voxels), Entries: len(d.Entries)}
	for _, head := range d.Voxels {
		if head == NoEntry {
			continue
		}
		s.OccupiedVoxels++
		n := 0
		for e := head; e != NoEntry; e = d.Entries[e].Next {
			n++
		}
		if n > s.MaxListLength {
			s.MaxListLength = n
		}
	}
	if s.OccupiedVoxels > 0 {
		s.MeanListLength = float64(s.Entries) / float64(s.OccupiedVoxels)
	}
	return s
}

// Checksum hashes the settings and both arrays in their little-endian layout.
func (d *VoxelData) Checksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 4096)
	flush := func(force bool) {
		if force || len(buf) > cap(buf)-8 {
			_, _ = h.Write(buf)
			buf = buf[:0]
		}
	}
	for _, f := range []float32{
		d.Settings.GridStart.X, d.Settings.GridStart.Y, d.Settings.GridStart.Z,
		d.Settings.GridEnd.X, d.Settings.GridEnd.Y, d.Settings.GridEnd.Z,
	} {
		buf = binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(f))
	}
	buf = binary.LittleEndian.AppendUint32(buf, d.Settings.NumDivisions.X)
	buf = binary.LittleEndian.AppendUint32(buf, d.Settings.NumDivisions.Y)
	buf = binary.LittleEndian.AppendUint32(buf, d.Settings.NumDivisions.Z)
	for _, v := range d.Voxels {
		flush(false)
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	for _, e := range d.Entries {
		flush(false)
		buf = binary.LittleEndian.AppendUint32(buf, e.Triangle)
		buf = binary.LittleEndian.AppendUint32(buf, e.Next)
	}
	flush(true)
	return h.Sum64()
}
