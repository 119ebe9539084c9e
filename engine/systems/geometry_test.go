package systems

import (
	"testing"

	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/stretchr/testify/require"
)

func requireNoDegenerate(t *testing.T, g *metadata.GeometryConfig) {
	t.Helper()
	for i := 2; i < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i-2]].Position
		b := g.Vertices[g.Indices[i-1]].Position
		c := g.Vertices[g.Indices[i]].Position
		require.Greater(t, b.Sub(a).Cross(c.Sub(a)).Length(), float32(1e-6), "triangle %d", i/3)
	}
}

func TestGeneratePlaneConfig(t *testing.T) {
	g := GeneratePlaneConfig(4, 2, 4, 2, "floor")
	require.Equal(t, "floor", g.Name)
	require.Len(t, g.Vertices, 5*3)
	require.Equal(t, 4*2*2, g.TriangleCount())
	require.Equal(t, math.NewVec3(-2, -1, 0), g.Extents.Min)
	require.Equal(t, math.NewVec3(2, 1, 0), g.Extents.Max)
	requireNoDegenerate(t, g)

	t.Run("zero sizes fall back to one", func(t *testing.T) {
		g := GeneratePlaneConfig(0, 0, 0, 0, "")
		require.Equal(t, metadata.DefaultGeometryName, g.Name)
		require.Equal(t, 2, g.TriangleCount())
		require.Equal(t, math.NewVec3(0.5, 0.5, 0), g.Extents.Max)
	})
}

func TestGenerateCubeConfig(t *testing.T) {
	g := GenerateCubeConfig(2, 4, 6, "box")
	require.Len(t, g.Vertices, 24)
	require.Equal(t, 12, g.TriangleCount())
	require.Equal(t, math.NewVec3(-1, -2, -3), g.Extents.Min)
	require.Equal(t, math.NewVec3(1, 2, 3), g.Extents.Max)
	require.Equal(t, math.NewVec3Zero(), g.Center)
	requireNoDegenerate(t, g)

	// Every face normal points away from the centre.
	for _, v := range g.Vertices {
		require.Positive(t, v.Position.Dot(v.Normal))
	}
}

func TestGenerateSphereConfig(t *testing.T) {
	g := GenerateSphereConfig(2, 8, 12, "ball")
	require.Len(t, g.Vertices, 9*13)
	require.Equal(t, 2*8*12-2*12, g.TriangleCount())
	requireNoDegenerate(t, g)
	for _, v := range g.Vertices {
		require.InDelta(t, 2, v.Position.Length(), 1e-5)
	}
	require.InDelta(t, 2, g.Extents.Max.Z, 1e-6)
	require.InDelta(t, -2, g.Extents.Min.Z, 1e-6)
}
