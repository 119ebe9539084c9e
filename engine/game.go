package engine

import (
	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/systems"
)

// Game is the application driving the engine. Every hook is optional.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnOnBuild         OnBuild
	FnOnReload        OnReload
	FnShutdown        Shutdown
}

type Initialize func() error
type OnBuild func(builds []*systems.GridBuild, err error) error
type OnReload func(previous, next *config.Config) error
type Shutdown func() error
