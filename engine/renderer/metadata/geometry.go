package metadata

import (
	"github.com/spaghettifunk/voxgrid/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief Represents the configuration for a geometry.
 */
type GeometryConfig struct {
	/** @brief An array of Vertices. */
	Vertices []math.Vertex3D
	/** @brief An array of Indices, three per triangle. */
	Indices []uint32
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief The Name of the geometry. */
	Name string
}

// Positions returns the vertex positions in order.
func (g GeometryConfig) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(g.Vertices))
	for i, v := range g.Vertices {
		out[i] = v.Position
	}
	return out
}

// TriangleCount is the number of complete triangles.
func (g GeometryConfig) TriangleCount() int {
	return len(g.Indices) / 3
}
