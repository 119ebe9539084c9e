package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/resources"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

// VoxelGridResourceData is the Data of a loaded voxel grid resource.
type VoxelGridResourceData struct {
	Header resources.ResourceHeader
	Grid   *voxel.VoxelData
}

// VoxelGridLoader loads .vxg files from BasePath.
type VoxelGridLoader struct {
	BasePath string
}

// NewVoxelGridLoader returns a loader ready to be registered with the resource system.
func NewVoxelGridLoader(basePath string) ResourceLoader {
	return ResourceLoader{
		ResourceType:            resources.ResourceTypeVoxelGrid,
		TypePath:                "grids",
		ResourceLoaderInterface: &VoxelGridLoader{BasePath: basePath},
	}
}

func (l *VoxelGridLoader) Load(name string, params interface{}) (*resources.Resource, error) {
	if name == "" {
		return nil, fmt.Errorf("voxel grid loader: empty name")
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.BasePath, name)
	}
	if !strings.HasSuffix(path, resources.VoxelGridExtension) {
		path += resources.VoxelGridExtension
	}

	grid, header, err := resources.ReadVoxelGrid(path)
	if err != nil {
		err = fmt.Errorf("voxel grid loader: failed to load '%s': %w", path, err)
		core.LogError(err.Error())
		return nil, err
	}

	return &resources.Resource{
		Name:     name,
		FullPath: path,
		DataSize: uint64(len(grid.Voxels)*4 + len(grid.Entries)*8),
		Data:     &VoxelGridResourceData{Header: header, Grid: grid},
	}, nil
}

func (l *VoxelGridLoader) Unload(resource *resources.Resource) error {
	if resource == nil {
		return fmt.Errorf("voxel grid loader: unload called with nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	resource.LoaderID = InvalidID
	return nil
}
