package systems

import (
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/resources"
	"github.com/spaghettifunk/voxgrid/engine/resources/loaders"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
	"github.com/stretchr/testify/require"
)

func newTestResourceSystem(t *testing.T, base string) *ResourceSystem {
	t.Helper()
	rs, err := NewResourceSystem(&ResourceSystemConfig{MaxLoaderCount: 4, AssetBasePath: base})
	require.NoError(t, err)
	return rs
}

func TestNewResourceSystemNeedsLoaders(t *testing.T) {
	_, err := NewResourceSystem(&ResourceSystemConfig{})
	require.Error(t, err)
}

func TestResourceSystemRegisterLoader(t *testing.T) {
	rs := newTestResourceSystem(t, t.TempDir())

	// The voxel grid loader is registered on creation.
	require.False(t, rs.RegisterLoader(loaders.NewVoxelGridLoader("elsewhere")))

	custom := loaders.NewVoxelGridLoader("elsewhere")
	custom.ResourceType = resources.ResourceTypeCustom
	custom.CustomType = "grid-copy"
	require.True(t, rs.RegisterLoader(custom))
	require.False(t, rs.RegisterLoader(custom))

	_, err := rs.Load("x", resources.ResourceTypeText, nil)
	require.Error(t, err)
	_, err = rs.LoadCustom("x", "unknown", nil)
	require.Error(t, err)

	require.NoError(t, rs.Shutdown())
	for _, l := range rs.RegisteredLoaders {
		require.Equal(t, loaders.InvalidID, l.ID)
	}
}

func TestResourceSystemLoadVoxelGrid(t *testing.T) {
	dir := t.TempDir()
	data, err := voxel.Build(
		[]math.Vec3{math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)},
		[]uint32{0, 1, 2},
		voxel.DefaultDivisions,
	)
	require.NoError(t, err)
	_, err = resources.WriteVoxelGrid(filepath.Join(dir, "tri.vxg"), data, resources.CompressionZstd)
	require.NoError(t, err)

	rs := newTestResourceSystem(t, dir)
	res, err := rs.Load("tri", resources.ResourceTypeVoxelGrid, nil)
	require.NoError(t, err)
	require.NotEqual(t, loaders.InvalidID, res.LoaderID)

	grid := res.Data.(*loaders.VoxelGridResourceData).Grid
	require.Equal(t, data.Voxels, grid.Voxels)
	require.Equal(t, data.Entries, grid.Entries)

	require.NoError(t, rs.Unload(res))
	require.Nil(t, res.Data)
	require.NoError(t, rs.Unload(res))

	_, err = rs.Load("missing", resources.ResourceTypeVoxelGrid, nil)
	require.Error(t, err)
}
