package engine

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/systems"
)

const engineScene = `
log_level = "warn"
workers = 2

[[grid]]
name = "box"
divisions = [6, 6, 6]
compress = true

[[grid.scene.primitive]]
kind = "cube"
width = 1
height = 1
depth = 1
`

const engineSceneReloaded = `
log_level = "warn"
workers = 2

[[grid]]
name = "ball"
divisions = [4, 4, 4]

[[grid.scene.primitive]]
kind = "sphere"
radius = 1
segments = 6
slices = 8
`

func newTestEngine(t *testing.T, scene string, g *Game) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "voxgrid.toml")
	require.NoError(t, os.WriteFile(path, []byte(scene), 0o644))

	if g == nil {
		g = &Game{}
	}
	g.ApplicationConfig = &ApplicationConfig{
		Name:        "test",
		ConfigPath:  path,
		OutputDir:   filepath.Join(dir, "out"),
		MetricsAddr: "127.0.0.1:0",
	}
	e, err := New(g)
	require.NoError(t, err)
	return e, path
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, core.ErrInvalidConfig)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 0\n"), 0o644))
	_, err = New(&Game{ApplicationConfig: &ApplicationConfig{ConfigPath: path}})
	require.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestEngineBuild(t *testing.T) {
	initialized := false
	var seen []*systems.GridBuild
	e, _ := newTestEngine(t, engineScene, &Game{
		FnInitialize: func() error { initialized = true; return nil },
		FnOnBuild: func(builds []*systems.GridBuild, err error) error {
			seen = builds
			return err
		},
	})
	require.Equal(t, EngineStageUninitialized, e.Stage())

	_, err := e.Build(context.Background())
	require.ErrorIs(t, err, ErrWrongStage)

	require.NoError(t, e.Initialize())
	require.True(t, initialized)
	require.Equal(t, EngineStageInitialized, e.Stage())
	require.ErrorIs(t, e.Initialize(), ErrWrongStage)

	builds, err := e.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 1)
	require.Equal(t, builds, seen)
	require.Equal(t, []string{"box"}, e.Staging().Names())
	require.Equal(t, EngineStageInitialized, e.Stage())

	history := e.History()
	require.Len(t, history, 1)
	require.Equal(t, []string{"box"}, history[0].Built)
	require.Zero(t, history[0].Failed)
	require.NoError(t, history[0].Err)

	resp, err := http.Get("http://" + e.MetricsAddr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), `voxgrid_build_total{grid="box"}`)

	var out bytes.Buffer
	require.NoError(t, WriteInspection(&out, builds[0].Report.ResourcePath))
	var in Inspection
	require.NoError(t, json.Unmarshal(out.Bytes(), &in))
	require.Equal(t, "zstd", in.Compression)
	require.Equal(t, builds[0].Report.Checksum, in.DataHash)
	require.Equal(t, [3]uint32{6, 6, 6}, in.Divisions)
	require.Equal(t, builds[0].Report.Stats, in.Stats)

	require.NoError(t, e.Shutdown())
	require.Equal(t, EngineStageShutdown, e.Stage())
	require.NoError(t, e.Shutdown())
}

func TestEngineWatch(t *testing.T) {
	built := make(chan []string, 4)
	reloaded := make(chan struct{}, 4)
	e, path := newTestEngine(t, engineScene, &Game{
		FnOnBuild: func(builds []*systems.GridBuild, err error) error {
			names := make([]string, 0, len(builds))
			for _, b := range builds {
				names = append(names, b.Name)
			}
			built <- names
			return nil
		},
		FnOnReload: func(previous, next *config.Config) error {
			reloaded <- struct{}{}
			return nil
		},
	})
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Watch(ctx) }()

	wait := func() []string {
		select {
		case names := <-built:
			return names
		case <-time.After(10 * time.Second):
			require.FailNow(t, "no build")
		}
		return nil
	}
	require.Equal(t, []string{"box"}, wait())

	// A broken file keeps the running configuration.
	require.NoError(t, os.WriteFile(path, []byte("workers = \n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	require.Equal(t, "box", e.Config().Grids[0].Name)

	require.NoError(t, os.WriteFile(path, []byte(engineSceneReloaded), 0o644))
	require.Equal(t, []string{"ball"}, wait())
	require.NotEmpty(t, reloaded)
	require.Equal(t, "ball", e.Config().Grids[0].Name)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		require.FailNow(t, "watch did not return")
	}
	require.Equal(t, EngineStageInitialized, e.Stage())
	require.GreaterOrEqual(t, len(e.History()), 2)
}

func TestWatchNeedsConfigFile(t *testing.T) {
	e, err := New(&Game{ApplicationConfig: &ApplicationConfig{MetricsAddr: MetricsDisabled, OutputDir: t.TempDir()}})
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()
	require.ErrorIs(t, e.Watch(context.Background()), core.ErrInvalidConfig)
}
