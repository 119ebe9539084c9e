package testbed

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/voxgrid/engine"
	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/systems"
)

// ProbesPerAxis is the side of the square of rays cast down onto every grid.
const ProbesPerAxis = 8

type TestGame struct {
	*engine.Game
}

// ProbeResult is the outcome of casting the probe rays onto one grid.
type ProbeResult struct {
	Grid string
	Rays int
	Hits int
	// Nearest is how far below the top of the grid the shallowest hit lies.
	Nearest  float32
	Verified bool
}

type gameState struct {
	mu      sync.Mutex
	builds  int
	reloads int
	probes  map[string]ProbeResult
}

func NewTestGame(app *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State: &gameState{
				probes: make(map[string]ProbeResult),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnOnBuild = tg.OnBuild
	tg.FnOnReload = tg.OnReload
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	return nil
}

/**
 * @brief Checks every finished grid: the resource is read back and compared,
 * then a square of rays is cast straight down through the grid.
 */
func (g *TestGame) OnBuild(builds []*systems.GridBuild, err error) error {
	state := g.State.(*gameState)
	if err != nil {
		core.LogWarn("testbed: some grids failed: %s", err)
	}

	for _, b := range builds {
		loaded, lerr := g.SystemManager.VoxelGrids().Load(b.Name)
		verified := lerr == nil && loaded.Grid.Checksum() == b.Data.Checksum()
		if !verified {
			core.LogError("testbed: grid '%s' did not survive the round trip", b.Name)
		}

		res := probe(b)
		res.Verified = verified
		core.LogInfo("testbed: grid '%s' %d/%d probe rays hit, nearest at %.3f", b.Name, res.Hits, res.Rays, res.Nearest)

		state.mu.Lock()
		state.probes[b.Name] = res
		state.mu.Unlock()
	}

	state.mu.Lock()
	state.builds++
	state.mu.Unlock()
	return nil
}

func probe(b *systems.GridBuild) ProbeResult {
	res := ProbeResult{Grid: b.Name, Nearest: math.K_INFINITY}
	bounds := b.Data.Settings.Bounds()
	size := bounds.Size()
	positions := b.Geometry.Positions()
	down := math.NewVec3(0, 0, -1)
	top := bounds.Max.Z + 1

	for j := 0; j < ProbesPerAxis; j++ {
		for i := 0; i < ProbesPerAxis; i++ {
			origin := math.NewVec3(
				bounds.Min.X+size.X*(float32(i)+0.5)/ProbesPerAxis,
				bounds.Min.Y+size.Y*(float32(j)+0.25)/ProbesPerAxis,
				top,
			)
			res.Rays++
			hit, ok := b.Data.Raycast(origin, down, positions, b.Geometry.Indices)
			if !ok {
				continue
			}
			res.Hits++
			if d := hit.Distance - 1; d < res.Nearest {
				res.Nearest = d
			}
		}
	}
	return res
}

func (g *TestGame) OnReload(previous, next *config.Config) error {
	state := g.State.(*gameState)
	core.LogInfo("testbed: configuration changed from %d to %d grid(s)", len(previous.Grids), len(next.Grids))
	state.mu.Lock()
	state.reloads++
	state.mu.Unlock()
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	state.mu.Lock()
	defer state.mu.Unlock()
	core.LogInfo("testbed: %d build round(s), %d reload(s)", state.builds, state.reloads)
	return nil
}

// Probe returns the probe result of the named grid from the last build.
func (g *TestGame) Probe(name string) (ProbeResult, bool) {
	state := g.State.(*gameState)
	state.mu.Lock()
	defer state.mu.Unlock()
	r, ok := state.probes[name]
	return r, ok
}
