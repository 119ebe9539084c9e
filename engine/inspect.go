package engine

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/spaghettifunk/voxgrid/engine/resources"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

// Inspection summarises a voxel grid resource on disk.
type Inspection struct {
	Path        string      `json:"path"`
	Version     uint8       `json:"version"`
	Compression string      `json:"compression"`
	Checksum    string      `json:"checksum"`
	DataHash    string      `json:"data_hash"`
	Divisions   [3]uint32   `json:"divisions"`
	GridStart   [3]float32  `json:"grid_start"`
	GridEnd     [3]float32  `json:"grid_end"`
	Stats       voxel.Stats `json:"stats"`
}

// Inspect reads the resource at path, verifying it completely.
func Inspect(path string) (Inspection, error) {
	data, header, err := resources.ReadVoxelGrid(path)
	if err != nil {
		return Inspection{}, err
	}
	s := data.Settings
	return Inspection{
		Path:        path,
		Version:     header.Version,
		Compression: header.Compression.String(),
		Checksum:    fmt.Sprintf("%016x", header.Checksum),
		DataHash:    fmt.Sprintf("%016x", data.Checksum()),
		Divisions:   [3]uint32{s.NumDivisions.X, s.NumDivisions.Y, s.NumDivisions.Z},
		GridStart:   [3]float32{s.GridStart.X, s.GridStart.Y, s.GridStart.Z},
		GridEnd:     [3]float32{s.GridEnd.X, s.GridEnd.Y, s.GridEnd.Z},
		Stats:       data.Stats(),
	}, nil
}

// WriteInspection writes Inspect's result as indented JSON.
func WriteInspection(w io.Writer, path string) error {
	in, err := Inspect(path)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
