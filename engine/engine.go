package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spaghettifunk/voxgrid/engine/assets"
	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/containers"
	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer"
	"github.com/spaghettifunk/voxgrid/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is building grids
	EngineStageBuilding
	// Engine is waiting for configuration changes
	EngineStageWatching
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageShutdown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageBuilding:
		return "building"
	case EngineStageWatching:
		return "watching"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageShutdown:
		return "shutdown"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

var ErrWrongStage = errors.New("engine is not in the right stage")

// HistorySize is the number of build rounds the engine remembers.
const HistorySize = 16

// BuildRound summarises one call to Build.
type BuildRound struct {
	At       time.Time
	Duration time.Duration
	Built    []string
	Failed   int
	Err      error
}

type Engine struct {
	mu            sync.RWMutex
	currentStage  Stage
	gameInstance  *Game
	config        config.Config
	systemManager *systems.SystemManager
	staging       *renderer.StagingUploader
	metrics       *http.Server
	metricsAddr   string
	clock         *core.Clock
	history       *containers.RingQueue[BuildRound]
}

/**
 * @brief Creates the engine for the given game. The configuration is read
 * here so that a broken file fails before anything is started.
 */
func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine needs a game with an application config: %w", core.ErrInvalidConfig)
	}
	cfg, err := loadConfig(g.ApplicationConfig)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		staging:      renderer.NewStagingUploader(),
		clock:        core.NewClock(),
		history:      containers.NewRingQueue[BuildRound](HistorySize),
	}, nil
}

func loadConfig(ac *ApplicationConfig) (config.Config, error) {
	cfg := config.Default()
	if ac.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(ac.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}
	if ac.OutputDir != "" {
		cfg.OutputDir = ac.OutputDir
	}
	if ac.MetricsAddr != "" {
		cfg.MetricsAddr = ac.MetricsAddr
	}
	cfg.LogLevel = ac.logLevel(cfg.LogLevel)
	return cfg, nil
}

func (e *Engine) Stage() Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentStage
}

func (e *Engine) setStage(s Stage) {
	e.mu.Lock()
	e.currentStage = s
	e.mu.Unlock()
}

// Config returns the configuration in use.
func (e *Engine) Config() config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// Staging returns the uploader every finished grid is staged into.
func (e *Engine) Staging() *renderer.StagingUploader {
	return e.staging
}

// MetricsAddr is the address the metrics endpoint listens on, empty when disabled.
func (e *Engine) MetricsAddr() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metricsAddr
}

// History returns the most recent build rounds, oldest first.
func (e *Engine) History() []BuildRound {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Items()
}

func (e *Engine) Initialize() error {
	if e.Stage() != EngineStageUninitialized {
		return fmt.Errorf("initialize while %s: %w", e.Stage(), ErrWrongStage)
	}
	e.setStage(EngineStageInitializing)

	if err := core.SetLogLevel(e.config.LogLevel); err != nil {
		return fmt.Errorf("log level '%s': %w", e.config.LogLevel, core.ErrInvalidConfig)
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		Workers:          e.config.Workers,
		OutputDir:        e.config.OutputDir,
		DefaultDivisions: math.UVec3{},
	}, e.staging)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if err := e.startMetrics(); err != nil {
		_ = sm.Shutdown()
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.setStage(EngineStageInitialized)
	core.LogInfo("%s initialized: %d grid(s), %d worker(s), output in '%s'",
		e.gameInstance.ApplicationConfig.Name, len(e.config.Grids), e.config.Workers, e.config.OutputDir)
	return nil
}

func (e *Engine) startMetrics() error {
	if e.config.MetricsAddr == "" || e.config.MetricsAddr == MetricsDisabled {
		return nil
	}
	ln, err := net.Listen("tcp", e.config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("metrics endpoint: %w", err)
	}

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	e.metrics = &http.Server{Handler: &admin, ReadHeaderTimeout: 5 * time.Second}
	e.mu.Lock()
	e.metricsAddr = ln.Addr().String()
	e.mu.Unlock()

	go func() {
		if err := e.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			core.LogError("metrics endpoint: %s", err)
		}
	}()
	core.LogInfo("serving metrics on http://%s/metrics", e.metricsAddr)
	return nil
}

/**
 * @brief Builds every configured grid once.
 *
 * @param ctx Stops queuing further grids when done.
 * @return The successful builds and the joined errors of the failed ones.
 */
func (e *Engine) Build(ctx context.Context) ([]*systems.GridBuild, error) {
	switch e.Stage() {
	case EngineStageInitialized, EngineStageWatching:
	default:
		return nil, fmt.Errorf("build while %s: %w", e.Stage(), ErrWrongStage)
	}
	previous := e.Stage()
	e.setStage(EngineStageBuilding)
	defer e.setStage(previous)

	grids := e.Config().Grids
	round := BuildRound{At: time.Now()}
	e.clock.Start()
	builds, err := e.systemManager.VoxelGrids().BuildAll(ctx, grids)
	e.clock.Stop()
	round.Duration = e.clock.Elapsed()
	round.Failed = len(grids) - len(builds)
	round.Err = err
	for _, b := range builds {
		round.Built = append(round.Built, b.Name)
	}
	e.mu.Lock()
	e.history.Push(round)
	e.mu.Unlock()
	core.LogInfo("built %d of %d grid(s) in %s", len(builds), len(grids), round.Duration)

	if e.gameInstance.FnOnBuild != nil {
		if herr := e.gameInstance.FnOnBuild(builds, err); herr != nil {
			return builds, errors.Join(err, herr)
		}
	}
	return builds, err
}

/**
 * @brief Builds once, then rebuilds every time the configuration file
 * changes, until ctx is done. A configuration that fails to load keeps the
 * previous one in place.
 */
func (e *Engine) Watch(ctx context.Context) error {
	path := e.gameInstance.ApplicationConfig.ConfigPath
	if path == "" {
		return fmt.Errorf("watch needs a configuration file: %w", core.ErrInvalidConfig)
	}
	watcher, err := assets.NewConfigWatcher(path, assets.DefaultDebounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := e.Build(ctx); err != nil {
		core.LogWarn("initial build: %s", err)
	}
	e.setStage(EngineStageWatching)
	defer e.setStage(EngineStageInitialized)

	for {
		select {
		case <-ctx.Done():
			return nil
		case werr, ok := <-watcher.Errors():
			if ok {
				core.LogWarn("config watcher: %s", werr)
			}
		case _, ok := <-watcher.Reloads():
			if !ok {
				return nil
			}
			if err := e.reload(); err != nil {
				core.LogError("keeping the previous configuration: %s", err)
				continue
			}
			if _, err := e.Build(ctx); err != nil {
				core.LogWarn("rebuild: %s", err)
			}
		}
	}
}

func (e *Engine) reload() error {
	next, err := loadConfig(e.gameInstance.ApplicationConfig)
	if err != nil {
		return err
	}
	previous := e.Config()
	if e.gameInstance.FnOnReload != nil {
		if err := e.gameInstance.FnOnReload(&previous, &next); err != nil {
			return err
		}
	}
	if next.LogLevel != previous.LogLevel {
		if err := core.SetLogLevel(next.LogLevel); err != nil {
			return err
		}
	}
	if next.Workers != previous.Workers || next.OutputDir != previous.OutputDir || next.MetricsAddr != previous.MetricsAddr {
		core.LogWarn("workers, output_dir and metrics_addr changes need a restart")
		next.Workers = previous.Workers
		next.OutputDir = previous.OutputDir
		next.MetricsAddr = previous.MetricsAddr
	}

	e.mu.Lock()
	e.config = next
	e.mu.Unlock()
	core.LogInfo("configuration reloaded: %d grid(s)", len(next.Grids))
	return nil
}

func (e *Engine) Shutdown() error {
	if e.Stage() == EngineStageShutdown {
		return nil
	}
	e.setStage(EngineStageShuttingDown)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, e.metrics.Shutdown(ctx))
		cancel()
	}
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
	}

	e.setStage(EngineStageShutdown)
	return errors.Join(errs...)
}
