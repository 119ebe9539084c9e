package resources

type ResourceType uint8

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type. */
	ResourceTypeText ResourceType = iota
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief Voxel grid resource type. */
	ResourceTypeVoxelGrid
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

/** @brief A magic number indicating the file as a voxgrid binary file. */
const ResourceMagic uint32 = 0xdaaaadd1

/** @brief The current voxel grid format version. */
const VoxelGridVersion uint8 = 1

/** @brief The size in bytes of ResourceHeader on disk. */
const ResourceHeaderSize int = 16

/** @brief How the payload following the header is stored. */
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	}
	return "unknown"
}

/**
 * @brief The header data for binary resource types.
 */
type ResourceHeader struct {
	/** @brief A magic number indicating the file as a voxgrid binary file. */
	MagicNumber uint32
	/** @brief The resource type. */
	ResourceType ResourceType
	/** @brief The format version this resource uses. */
	Version uint8
	/** @brief How the payload is compressed. */
	Compression Compression
	/** @brief Reserved for future header data. */
	Reserved uint8
	/** @brief xxhash of the uncompressed payload. */
	Checksum uint64
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The identifier of the loader which handles this resource. */
	LoaderID uint32
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
