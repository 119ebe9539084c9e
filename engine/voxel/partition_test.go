package voxel

import (
	"testing"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/stretchr/testify/require"
)

func testPartition(t *testing.T) Partition {
	t.Helper()
	p, err := NewPartition(GridSettings{
		GridStart:    math.NewVec3(0, 0, 0),
		GridEnd:      math.NewVec3(4, 2, 1),
		NumDivisions: math.UVec3{X: 4, Y: 2, Z: 2},
	})
	require.NoError(t, err)
	return p
}

func TestNewPartitionRejectsZeroDivisions(t *testing.T) {
	for _, d := range []math.UVec3{{X: 0, Y: 1, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 0}} {
		_, err := NewPartition(GridSettings{GridEnd: math.NewVec3One(), NumDivisions: d})
		require.ErrorIs(t, err, core.ErrZeroDivisions)
	}
}

func TestNewPartitionRejectsHugeGrids(t *testing.T) {
	_, err := NewPartition(GridSettings{NumDivisions: math.UVec3{X: 4096, Y: 4096, Z: 4096}})
	require.ErrorIs(t, err, core.ErrGridTooLarge)
}

func TestPartitionCellSize(t *testing.T) {
	require.Equal(t, math.NewVec3(1, 1, 0.5), testPartition(t).CellSize())
}

func TestCellIndexOf(t *testing.T) {
	p := testPartition(t)

	tests := []struct {
		name string
		pos  math.Vec3
		want CellCoord
	}{
		{"origin", math.NewVec3(0, 0, 0), CellCoord{0, 0, 0}},
		{"interior", math.NewVec3(2.5, 1.5, 0.75), CellCoord{2, 1, 1}},
		{"on a face", math.NewVec3(1, 1, 0.5), CellCoord{1, 1, 1}},
		{"far corner", math.NewVec3(4, 2, 1), CellCoord{4, 2, 2}},
		{"below", math.NewVec3(-3, 0, 0), CellCoord{-1, 0, 0}},
		{"above", math.NewVec3(100, 0, 0), CellCoord{4, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, p.CellIndexOf(tt.pos))
		})
	}
}

func TestFlatIndex(t *testing.T) {
	p := testPartition(t)
	require.Equal(t, 0, p.FlatIndex(CellCoord{0, 0, 0}))
	require.Equal(t, 3, p.FlatIndex(CellCoord{3, 0, 0}))
	require.Equal(t, 4, p.FlatIndex(CellCoord{0, 1, 0}))
	require.Equal(t, 8, p.FlatIndex(CellCoord{0, 0, 1}))
	require.Equal(t, 15, p.FlatIndex(CellCoord{3, 1, 1}))

	for i := 0; i < 16; i++ {
		require.Equal(t, i, p.FlatIndex(p.Cell(i)))
	}
}

func TestCellBoxes(t *testing.T) {
	p := testPartition(t)
	box := p.CellBox(CellCoord{1, 1, 1})
	require.Equal(t, math.NewVec3(1, 1, 0.5), box.Min)
	require.Equal(t, math.NewVec3(2, 2, 1), box.Max)

	padded := p.PaddedCellBox(CellCoord{1, 1, 1})
	require.Less(t, padded.Min.X, box.Min.X)
	require.Greater(t, padded.Max.Z, box.Max.Z)
}

func TestCandidateRangeIsClamped(t *testing.T) {
	p := testPartition(t)
	lo, hi := p.CandidateRange(tri([3]float32{-1, -1, -1}, [3]float32{10, 0.5, 0.2}, [3]float32{0.5, 10, 10}))
	require.Equal(t, CellCoord{0, 0, 0}, lo)
	require.Equal(t, CellCoord{3, 1, 1}, hi)
}

// Both ends of the candidate range use floor. A triangle whose maximum sits
// a hair below a cell face touches the padded box of the next cell, but that
// cell is never a candidate.
func TestCandidateRangeFloorUnderCover(t *testing.T) {
	p, err := NewPartition(GridSettings{
		GridStart:    math.NewVec3(0, 0, 0),
		GridEnd:      math.NewVec3(2, 1, 1),
		NumDivisions: math.UVec3{X: 2, Y: 1, Z: 1},
	})
	require.NoError(t, err)

	under := float32(0.99999994) // 1 - 2^-24
	tr := tri([3]float32{0.2, 0.2, 0.5}, [3]float32{under, 0.2, 0.5}, [3]float32{0.5, 0.8, 0.5})

	_, hi := p.CandidateRange(tr)
	require.Equal(t, 0, hi.X)
	require.True(t, TriangleIntersectsBox(tr, p.PaddedCellBox(CellCoord{1, 0, 0})))

	lb := newListBuilder(2)
	require.NoError(t, rasterizeTriangle(p, tr, 0, lb))
	require.Equal(t, NoEntry, lb.voxels[1])
	require.NotEqual(t, NoEntry, lb.voxels[0])
}

func TestComputeBounds(t *testing.T) {
	require.Equal(t, math.Extents3D{}, ComputeBounds(nil))

	b := ComputeBounds([]math.Vec3{math.NewVec3(1, -2, 0), math.NewVec3(-1, 3, 0.5)})
	require.Equal(t, math.NewVec3(-1, -2, 0).AddScalar(-BoundsEpsilon), b.Min)
	require.Equal(t, math.NewVec3(1, 3, 0.5).AddScalar(BoundsEpsilon), b.Max)

	t.Run("large coordinates still grow", func(t *testing.T) {
		b := ComputeBounds([]math.Vec3{
			math.NewVec3(1e6, 1e6, 100),
			math.NewVec3(1e6+1, 1e6, 100),
			math.NewVec3(1e6, 1e6+1, 100),
		})
		require.Less(t, b.Min.X, float32(1e6))
		require.Less(t, b.Min.Y, float32(1e6))
		require.Less(t, b.Min.Z, float32(100))
		require.Greater(t, b.Max.X, float32(1e6+1))
		require.Greater(t, b.Max.Y, float32(1e6+1))
		require.Greater(t, b.Max.Z, float32(100))
		require.Equal(t, math.NextDown(1e6), b.Min.X)
		require.Equal(t, math.NextUp(100), b.Max.Z)
	})

	t.Run("grid of a flat far mesh has depth", func(t *testing.T) {
		positions := []math.Vec3{
			math.NewVec3(1e6, 1e6, 100),
			math.NewVec3(1e6+1, 1e6, 100),
			math.NewVec3(1e6, 1e6+1, 100),
		}
		data, err := Build(positions, []uint32{0, 1, 2}, math.UVec3{X: 4, Y: 4, Z: 4})
		require.NoError(t, err)
		start, end := data.Settings.GridStart, data.Settings.GridEnd
		require.Less(t, start.X, end.X)
		require.Less(t, start.Y, end.Y)
		require.Less(t, start.Z, end.Z)
		require.Less(t, start.X, float32(1e6))
		require.Less(t, start.Z, float32(100))
	})
}
