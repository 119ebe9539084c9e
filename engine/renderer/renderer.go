package renderer

import (
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

/**
 * @brief Encodes the grid in its GPU layout and hands it to the uploader.
 *
 * @param u The uploader.
 * @param name The name the grid is stored under.
 * @param data The grid.
 * @return An error if the upload failed.
 */
func UploadVoxelData(u Uploader, name string, data *voxel.VoxelData) error {
	settings := metadata.EncodeSettings(data.Settings)
	voxels := metadata.EncodeVoxels(data.Voxels)
	entries := metadata.EncodeEntries(data.Entries)
	if err := u.UploadVoxelGrid(name, settings, voxels, entries); err != nil {
		err = fmt.Errorf("failed to upload voxel grid '%s': %w", name, err)
		core.LogError(err.Error())
		return err
	}
	core.LogDebug("uploaded voxel grid '%s' (%d voxel bytes, %d entry bytes)", name, len(voxels), len(entries))
	return nil
}
