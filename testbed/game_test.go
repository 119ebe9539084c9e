package testbed

import (
	"context"
	"testing"

	"github.com/spaghettifunk/voxgrid/engine"
	"github.com/stretchr/testify/require"
)

func TestDemoScene(t *testing.T) {
	tg := NewTestGame(&engine.ApplicationConfig{
		Name:        "testbed",
		OutputDir:   t.TempDir(),
		MetricsAddr: engine.MetricsDisabled,
		LogLevel:    "warn",
	})
	e, err := engine.New(tg.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	builds, err := e.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 1)

	res, ok := tg.Probe("demo")
	require.True(t, ok)
	require.True(t, res.Verified)
	require.Equal(t, ProbesPerAxis*ProbesPerAxis, res.Rays)
	// The floor spans the whole grid, so every probe lands somewhere.
	require.Equal(t, res.Rays, res.Hits)
	// The faceted sphere top sits just under the top of the grid.
	require.Greater(t, res.Nearest, float32(0))
	require.Less(t, res.Nearest, float32(0.2))

	require.NoError(t, e.Shutdown())
}
