package systems

import (
	"fmt"

	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
)

// GeneratePrimitive runs the generator for the primitive's kind, in local space.
func GeneratePrimitive(p config.Primitive) (*metadata.GeometryConfig, error) {
	switch p.Kind {
	case config.PrimitivePlane:
		return GeneratePlaneConfig(p.Width, p.Height, p.Segments, p.Slices, p.Name), nil
	case config.PrimitiveCube:
		return GenerateCubeConfig(p.Width, p.Height, p.Depth, p.Name), nil
	case config.PrimitiveSphere:
		return GenerateSphereConfig(p.Radius, p.Segments, p.Slices, p.Name), nil
	}
	return nil, fmt.Errorf("unknown primitive kind '%s': %w", p.Kind, core.ErrInvalidConfig)
}

/**
 * @brief Merges the scene primitives into one mesh. Each primitive is scaled,
 * then moved by its offset, and its indices are rebased onto the vertices
 * already in the mesh.
 *
 * @param name The name of the merged geometry.
 * @param scene The scene.
 * @return The merged geometry.
 */
func AssembleScene(name string, scene config.Scene) (*metadata.GeometryConfig, error) {
	out := &metadata.GeometryConfig{}
	for i, p := range scene.Primitives {
		g, err := GeneratePrimitive(p)
		if err != nil {
			return nil, fmt.Errorf("scene '%s' primitive %d: %w", name, i, err)
		}

		scale := p.ScaleVec()
		transform := math.NewMat4Scale(scale).Mul(math.NewMat4Translation(p.OffsetVec()))
		for j := range g.Vertices {
			g.Vertices[j].Position = g.Vertices[j].Position.Transform(transform)
		}
		if scale != math.NewVec3One() {
			math.GeometryGenerateNormals(g.Vertices, g.Indices)
		}

		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, g.Vertices...)
		for _, idx := range g.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
		core.LogDebug("scene '%s': added %s '%s' (%d triangles)", name, p.Kind, g.Name, g.TriangleCount())
	}
	finishConfig(out, name)
	return out, nil
}
