package systems

import (
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer"
)

/** @brief The configuration of all systems. */
type SystemManagerConfig struct {
	Workers          int
	OutputDir        string
	DefaultDivisions math.UVec3
}

type SystemManager struct {
	jobSystem       *JobSystem
	resourceSystem  *ResourceSystem
	voxelGridSystem *VoxelGridSystem
}

func NewSystemManager(config SystemManagerConfig, uploader renderer.Uploader) (*SystemManager, error) {
	js, err := NewJobSystem(config.Workers, config.Workers)
	if err != nil {
		return nil, err
	}
	rs, err := NewResourceSystem(&ResourceSystemConfig{
		MaxLoaderCount: 16,
		AssetBasePath:  config.OutputDir,
	})
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	vgs, err := NewVoxelGridSystem(&VoxelGridSystemConfig{
		OutputDir:        config.OutputDir,
		DefaultDivisions: config.DefaultDivisions,
	}, js, rs, uploader)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		jobSystem:       js,
		resourceSystem:  rs,
		voxelGridSystem: vgs,
	}, nil
}

func (sm *SystemManager) VoxelGrids() *VoxelGridSystem {
	return sm.voxelGridSystem
}

func (sm *SystemManager) Resources() *ResourceSystem {
	return sm.resourceSystem
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.voxelGridSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.resourceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
