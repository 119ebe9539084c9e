package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/resources"
	"github.com/spaghettifunk/voxgrid/engine/resources/loaders"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of loaders that can be registered with this system. */
	MaxLoaderCount uint32
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

type ResourceSystem struct {
	Config            *ResourceSystemConfig
	RegisteredLoaders []loaders.ResourceLoader
	mu                sync.RWMutex
}

func NewResourceSystem(config *ResourceSystemConfig) (*ResourceSystem, error) {
	if config.MaxLoaderCount == 0 {
		err := fmt.Errorf("failed to run NewResourceSystem because config.MaxLoaderCount==0")
		core.LogError(err.Error())
		return nil, err
	}

	rs := &ResourceSystem{
		Config:            config,
		RegisteredLoaders: make([]loaders.ResourceLoader, config.MaxLoaderCount),
	}

	// Invalidate all loaders
	for i := uint32(0); i < config.MaxLoaderCount; i++ {
		rs.RegisteredLoaders[i].ID = loaders.InvalidID
	}

	// NOTE: Auto-register known loader types here.
	if !rs.RegisterLoader(loaders.NewVoxelGridLoader(config.AssetBasePath)) {
		return nil, fmt.Errorf("failed to register the voxel grid loader")
	}

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)

	return rs, nil
}

func (rs *ResourceSystem) Shutdown() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i := range rs.RegisteredLoaders {
		rs.RegisteredLoaders[i] = loaders.ResourceLoader{ID: loaders.InvalidID}
	}
	return nil
}

func (rs *ResourceSystem) RegisterLoader(loader loaders.ResourceLoader) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	// Ensure no loaders for the given type already exist
	for _, l := range rs.RegisteredLoaders {
		if l.ID == loaders.InvalidID {
			continue
		}
		if loader.ResourceType != resources.ResourceTypeCustom && l.ResourceType == loader.ResourceType {
			core.LogError("RegisterLoader - Loader of type %d already exists and will not be registered.", loader.ResourceType)
			return false
		} else if len(loader.CustomType) > 0 && l.CustomType == loader.CustomType {
			core.LogError("RegisterLoader - Loader of custom type %s already exists and will not be registered.", loader.CustomType)
			return false
		}
	}
	for i := range rs.RegisteredLoaders {
		if rs.RegisteredLoaders[i].ID == loaders.InvalidID {
			rs.RegisteredLoaders[i] = loader
			rs.RegisteredLoaders[i].ID = uint32(i)
			core.LogDebug("Loader registered.")
			return true
		}
	}

	return false
}

func (rs *ResourceSystem) Load(name string, resourceType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if resourceType != resources.ResourceTypeCustom {
		for _, l := range rs.RegisteredLoaders {
			if l.ID != loaders.InvalidID && l.ResourceType == resourceType {
				return rs.load(name, l, params)
			}
		}
	}
	err := fmt.Errorf("Load - No loader for type %d was found", resourceType)
	core.LogError(err.Error())
	return nil, err
}

func (rs *ResourceSystem) LoadCustom(name, customType string, params interface{}) (*resources.Resource, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if len(customType) > 0 {
		for _, l := range rs.RegisteredLoaders {
			if l.ID != loaders.InvalidID && l.ResourceType == resources.ResourceTypeCustom && l.CustomType == customType {
				return rs.load(name, l, params)
			}
		}
	}
	err := fmt.Errorf("LoadCustom - No loader for type %s was found", customType)
	core.LogError(err.Error())
	return nil, err
}

func (rs *ResourceSystem) Unload(resource *resources.Resource) error {
	if resource == nil || resource.LoaderID == loaders.InvalidID {
		return nil
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if int(resource.LoaderID) >= len(rs.RegisteredLoaders) {
		return fmt.Errorf("Unload - loader %d is not registered", resource.LoaderID)
	}
	l := rs.RegisteredLoaders[resource.LoaderID]
	if l.ID == loaders.InvalidID {
		return nil
	}
	return l.Unload(resource)
}

func (rs *ResourceSystem) load(name string, loader loaders.ResourceLoader, params interface{}) (*resources.Resource, error) {
	res, err := loader.Load(name, params)
	if err != nil {
		return nil, err
	}
	res.LoaderID = loader.ID
	return res, nil
}
