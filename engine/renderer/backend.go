package renderer

// Uploader copies encoded voxel grid arrays into GPU-visible storage. The
// three blocks use the layouts of metadata.EncodeSettings, EncodeVoxels and
// EncodeEntries.
type Uploader interface {
	UploadVoxelGrid(name string, settings, voxels, entries []byte) error
}
