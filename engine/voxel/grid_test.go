package voxel

import (
	"bytes"
	"os"
	"testing"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleTriangle(t *testing.T) {
	positions := []math.Vec3{
		math.NewVec3(0, 0, 0),
		math.NewVec3(1, 0, 0),
		math.NewVec3(0, 1, 0),
	}
	data, err := Build(positions, []uint32{0, 1, 2}, math.UVec3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)

	require.Equal(t, []uint32{0}, data.Voxels)
	require.Equal(t, []VoxelEntry{{Triangle: 0, Next: NoEntry}}, data.Entries)
	require.Equal(t, ComputeBounds(positions), data.Settings.Bounds())
}

func TestBuildSplitSquare(t *testing.T) {
	positions, indices := unitSquare()
	data, err := Build(positions, indices, math.UVec3{X: 2, Y: 2, Z: 1})
	require.NoError(t, err)
	part, err := data.Partition()
	require.NoError(t, err)

	t.Run("cells on the diagonal hold both triangles", func(t *testing.T) {
		for _, c := range []CellCoord{{0, 0, 0}, {1, 1, 0}} {
			require.ElementsMatch(t, []uint32{0, 1}, data.Triangles(part.FlatIndex(c)), "cell %+v", c)
		}
	})

	t.Run("corner cells touch both triangles at the centre", func(t *testing.T) {
		own := map[CellCoord]uint32{{1, 0, 0}: 0, {0, 1, 0}: 1}
		for c, tri := range own {
			require.ElementsMatch(t, []uint32{0, 1}, data.Triangles(part.FlatIndex(c)), "cell %+v", c)

			// Away from the centre corner only the own triangle reaches the cell.
			inset := part.CellBox(c)
			inset.Min.X += 0.01
			inset.Min.Y += 0.01
			inset.Max.X -= 0.01
			inset.Max.Y -= 0.01
			for other := uint32(0); other < 2; other++ {
				require.Equal(t, other == tri, TriangleIntersectsBox(TriangleAt(positions, indices, other), inset))
			}
		}
	})
}

func TestBuildEmptyMesh(t *testing.T) {
	data, err := Build(nil, nil, math.UVec3{X: 4, Y: 3, Z: 2})
	require.NoError(t, err)

	require.Empty(t, data.Entries)
	require.Len(t, data.Voxels, 24)
	for _, v := range data.Voxels {
		require.Equal(t, NoEntry, v)
	}
	require.Equal(t, math.Extents3D{}, data.Settings.Bounds())

	_, ok := data.Raycast(math.NewVec3(0, 0, -1), math.NewVec3(0, 0, 1), nil, nil)
	require.False(t, ok)
}

func TestBuildRejectsZeroDivisions(t *testing.T) {
	positions, indices := unitSquare()
	data, err := Build(positions, indices, math.UVec3{X: 2, Y: 0, Z: 2})
	require.ErrorIs(t, err, core.ErrZeroDivisions)
	require.Nil(t, data)
}

func TestBuildRejectsBadIndices(t *testing.T) {
	positions, _ := unitSquare()
	_, err := Build(positions, []uint32{0, 1, 4}, DefaultDivisions)
	require.ErrorIs(t, err, core.ErrIndexOutOfRange)
}

func TestBuildIgnoresTrailingIndices(t *testing.T) {
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	defer core.SetLogOutput(os.Stderr)

	positions, indices := unitSquare()
	data, err := Build(positions, append(indices, 0, 1), math.UVec3{X: 2, Y: 2, Z: 1})
	require.NoError(t, err)
	for _, e := range data.Entries {
		require.Less(t, e.Triangle, uint32(2))
	}
	require.Contains(t, buf.String(), "not a multiple of 3")
}

func TestVoxelCountMatchesDivisions(t *testing.T) {
	positions, indices := demoScene()
	for _, d := range []math.UVec3{{X: 1, Y: 1, Z: 1}, {X: 3, Y: 5, Z: 7}, {X: 16, Y: 16, Z: 4}} {
		data, err := Build(positions, indices, d)
		require.NoError(t, err)
		require.Len(t, data.Voxels, int(d.X*d.Y*d.Z))
		_, err = FromArrays(data.Settings, data.Voxels, data.Entries)
		require.NoError(t, err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	positions, indices := demoScene()
	a, err := Build(positions, indices, math.UVec3{X: 12, Y: 12, Z: 12})
	require.NoError(t, err)
	b, err := Build(positions, indices, math.UVec3{X: 12, Y: 12, Z: 12})
	require.NoError(t, err)

	require.Equal(t, a.Voxels, b.Voxels)
	require.Equal(t, a.Entries, b.Entries)
	require.Equal(t, a.Checksum(), b.Checksum())
}

// A triangle is listed in a cell exactly when the intersector accepts the
// padded cell box and the cell lies in the triangle's candidate range.
func TestMembershipMatchesIntersector(t *testing.T) {
	positions, indices := demoScene()
	data, err := Build(positions, indices, math.UVec3{X: 8, Y: 8, Z: 6})
	require.NoError(t, err)
	part, err := data.Partition()
	require.NoError(t, err)

	listed := make(map[[2]int]int)
	for cell := range data.Voxels {
		for _, tri := range data.Triangles(cell) {
			listed[[2]int{cell, int(tri)}]++
		}
	}

	underCovered := 0
	triangles := len(indices) / 3
	for tri := 0; tri < triangles; tri++ {
		tr := TriangleAt(positions, indices, uint32(tri))
		lo, hi := part.CandidateRange(tr)
		for cell := range data.Voxels {
			c := part.Cell(cell)
			hit := TriangleIntersectsBox(tr, part.PaddedCellBox(c))
			inRange := c.X >= lo.X && c.X <= hi.X && c.Y >= lo.Y && c.Y <= hi.Y && c.Z >= lo.Z && c.Z <= hi.Z
			n := listed[[2]int{cell, tri}]

			require.LessOrEqual(t, n, 1, "triangle %d listed twice in cell %d", tri, cell)
			if n == 1 {
				require.True(t, hit, "triangle %d cell %d", tri, cell)
				require.True(t, inRange, "triangle %d cell %d", tri, cell)
			}
			if hit && inRange {
				require.Equal(t, 1, n, "triangle %d missing from cell %d", tri, cell)
			}
			if hit && !inRange {
				underCovered++
			}
		}
	}
	t.Logf("%d padded cell hits outside the floor candidate range", underCovered)
}

func TestListedCellsOverlapTriangleBounds(t *testing.T) {
	positions, indices := demoScene()
	data, err := Build(positions, indices, math.UVec3{X: 10, Y: 10, Z: 10})
	require.NoError(t, err)
	part, err := data.Partition()
	require.NoError(t, err)

	data.Each(func(cell CellCoord, triangles []uint32) {
		for _, tri := range triangles {
			bounds := TriangleAt(positions, indices, tri).Bounds().Expand(1e-5)
			require.True(t, part.CellBox(cell).Overlaps(bounds), "triangle %d cell %+v", tri, cell)
		}
	})
}

func TestListBuilderPrepends(t *testing.T) {
	lb := newListBuilder(3)
	require.NoError(t, lb.append(1, 5))
	require.NoError(t, lb.append(1, 7))
	require.NoError(t, lb.append(2, 9))
	require.ErrorIs(t, lb.append(3, 1), core.ErrIndexOutOfRange)

	require.Equal(t, []uint32{NoEntry, 1, 2}, lb.voxels)
	require.Equal(t, []VoxelEntry{{5, NoEntry}, {7, 0}, {9, NoEntry}}, lb.entries)

	data := &VoxelData{Settings: GridSettings{NumDivisions: math.UVec3{X: 3, Y: 1, Z: 1}}, Voxels: lb.voxels, Entries: lb.entries}
	require.Equal(t, []uint32{7, 5}, data.Triangles(1))
	require.Nil(t, data.Triangles(0))
	require.Equal(t, uint32(2), data.Head(2, 0, 0))
	require.Equal(t, NoEntry, data.Head(3, 0, 0))
	require.Equal(t, uint32(21), data.Entries[1].FirstIndex())
}

func TestFromArrays(t *testing.T) {
	settings := GridSettings{NumDivisions: math.UVec3{X: 2, Y: 1, Z: 1}}

	tests := []struct {
		name    string
		voxels  []uint32
		entries []VoxelEntry
		wantErr error
	}{
		{"valid", []uint32{1, NoEntry}, []VoxelEntry{{0, NoEntry}, {1, 0}}, nil},
		{"wrong length", []uint32{NoEntry}, nil, core.ErrInvalidVoxelData},
		{"dangling head", []uint32{3, NoEntry}, []VoxelEntry{{0, NoEntry}}, core.ErrInvalidVoxelData},
		{"dangling next", []uint32{0, NoEntry}, []VoxelEntry{{0, 4}}, core.ErrInvalidVoxelData},
		{"shared entry", []uint32{0, 0}, []VoxelEntry{{0, NoEntry}}, core.ErrInvalidVoxelData},
		{"cycle", []uint32{0, NoEntry}, []VoxelEntry{{0, 0}}, core.ErrInvalidVoxelData},
		{"orphan", []uint32{0, NoEntry}, []VoxelEntry{{0, NoEntry}, {1, NoEntry}}, core.ErrInvalidVoxelData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := FromArrays(settings, tt.voxels, tt.entries)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []uint32{1, 0}, data.Triangles(0))
		})
	}

	_, err := FromArrays(GridSettings{}, nil, nil)
	require.ErrorIs(t, err, core.ErrZeroDivisions)
}

func TestStatsAndChecksum(t *testing.T) {
	positions, indices := unitSquare()
	data, err := Build(positions, indices, math.UVec3{X: 2, Y: 2, Z: 1})
	require.NoError(t, err)

	s := data.Stats()
	require.Equal(t, 4, s.Voxels)
	require.Equal(t, 4, s.OccupiedVoxels)
	require.Equal(t, len(data.Entries), s.Entries)
	require.Equal(t, 2, s.MaxListLength)
	require.InDelta(t, float64(s.Entries)/4, s.MeanListLength, 1e-9)

	sum := data.Checksum()
	changed := *data
	changed.Entries = append([]VoxelEntry(nil), data.Entries...)
	changed.Entries[0].Triangle ^= 1
	require.NotEqual(t, sum, changed.Checksum())
}
