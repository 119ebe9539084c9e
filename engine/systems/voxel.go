package systems

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/spaghettifunk/voxgrid/engine/config"
	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/export"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
	"github.com/spaghettifunk/voxgrid/engine/resources"
	"github.com/spaghettifunk/voxgrid/engine/resources/loaders"
	"github.com/spaghettifunk/voxgrid/engine/voxel"
)

/** @brief The configuration for the voxel grid system. */
type VoxelGridSystemConfig struct {
	/** @brief Where resources, debug exports and reports are written. */
	OutputDir string
	/** @brief Divisions used by grids that do not set their own. */
	DefaultDivisions math.UVec3
}

// Report describes one finished build. It is written next to the resource as JSON.
type Report struct {
	BuildID       string      `json:"build_id"`
	Grid          string      `json:"grid"`
	BuiltAt       time.Time   `json:"built_at"`
	DurationMS    float64     `json:"duration_ms"`
	Vertices      int         `json:"vertices"`
	Triangles     int         `json:"triangles"`
	Divisions     [3]uint32   `json:"divisions"`
	GridStart     [3]float32  `json:"grid_start"`
	GridEnd       [3]float32  `json:"grid_end"`
	Stats         voxel.Stats `json:"stats"`
	Checksum      string      `json:"checksum"`
	Compression   string      `json:"compression"`
	ResourcePath  string      `json:"resource_path"`
	ResourceBytes int         `json:"resource_bytes"`
	GLBPath       string      `json:"glb_path,omitempty"`
}

// GridBuild is the outcome of building one configured grid.
type GridBuild struct {
	Name     string
	Geometry *metadata.GeometryConfig
	Data     *voxel.VoxelData
	Report   Report
}

type VoxelGridSystem struct {
	config    *VoxelGridSystemConfig
	jobs      *JobSystem
	resources *ResourceSystem
	uploader  renderer.Uploader

	mu     sync.RWMutex
	builds map[string]*GridBuild
}

func NewVoxelGridSystem(config *VoxelGridSystemConfig, js *JobSystem, rs *ResourceSystem, uploader renderer.Uploader) (*VoxelGridSystem, error) {
	if config.DefaultDivisions == (math.UVec3{}) {
		config.DefaultDivisions = voxel.DefaultDivisions
	}
	if err := (voxel.GridSettings{NumDivisions: config.DefaultDivisions}).Validate(); err != nil {
		return nil, err
	}
	if config.OutputDir == "" {
		return nil, fmt.Errorf("voxel grid system needs an output directory: %w", core.ErrInvalidConfig)
	}
	return &VoxelGridSystem{
		config:    config,
		jobs:      js,
		resources: rs,
		uploader:  uploader,
		builds:    make(map[string]*GridBuild),
	}, nil
}

func (vs *VoxelGridSystem) Shutdown() error {
	vs.mu.Lock()
	vs.builds = make(map[string]*GridBuild)
	vs.mu.Unlock()
	return nil
}

/**
 * @brief Builds one grid: assembles its scene, voxelizes it, writes the
 * resource, the optional glTF export and the report, then uploads it.
 *
 * @param grid The grid configuration.
 * @return The build, or an error. Failures are counted in the build error metric.
 */
func (vs *VoxelGridSystem) Build(grid config.Grid) (*GridBuild, error) {
	b, err := vs.build(grid)
	if err != nil {
		core.MetricsRecordBuildError(grid.Name)
		err = fmt.Errorf("grid '%s': %w", grid.Name, err)
		core.LogError(err.Error())
		return nil, err
	}
	vs.mu.Lock()
	vs.builds[grid.Name] = b
	vs.mu.Unlock()
	return b, nil
}

func (vs *VoxelGridSystem) build(grid config.Grid) (*GridBuild, error) {
	clock := core.NewClock()
	clock.Start()

	geometry, err := AssembleScene(grid.Name, grid.Scene)
	if err != nil {
		return nil, err
	}
	divisions := grid.NumDivisions(vs.config.DefaultDivisions)
	data, err := voxel.Build(geometry.Positions(), geometry.Indices, divisions)
	if err != nil {
		return nil, err
	}
	clock.Stop()
	elapsed := clock.Elapsed()

	stats := data.Stats()
	core.MetricsRecordBuild(grid.Name, core.BuildMetrics{
		Duration:       elapsed,
		Triangles:      geometry.TriangleCount(),
		Entries:        stats.Entries,
		OccupiedVoxels: stats.OccupiedVoxels,
	})
	core.LogInfo("grid '%s': %d triangles into %dx%dx%d voxels, %d occupied, %d entries in %s",
		grid.Name, geometry.TriangleCount(), divisions.X, divisions.Y, divisions.Z, stats.OccupiedVoxels, stats.Entries, elapsed)

	if err := os.MkdirAll(vs.config.OutputDir, 0o755); err != nil {
		return nil, err
	}

	compression := resources.CompressionNone
	if grid.Compress {
		compression = resources.CompressionZstd
	}
	resourcePath := filepath.Join(vs.config.OutputDir, grid.Name+resources.VoxelGridExtension)
	n, err := resources.WriteVoxelGrid(resourcePath, data, compression)
	if err != nil {
		return nil, err
	}

	report := Report{
		BuildID:       uuid.NewString(),
		Grid:          grid.Name,
		BuiltAt:       time.Now().UTC(),
		DurationMS:    float64(elapsed.Microseconds()) / 1000,
		Vertices:      len(geometry.Vertices),
		Triangles:     geometry.TriangleCount(),
		Divisions:     [3]uint32{divisions.X, divisions.Y, divisions.Z},
		GridStart:     [3]float32{data.Settings.GridStart.X, data.Settings.GridStart.Y, data.Settings.GridStart.Z},
		GridEnd:       [3]float32{data.Settings.GridEnd.X, data.Settings.GridEnd.Y, data.Settings.GridEnd.Z},
		Stats:         stats,
		Checksum:      fmt.Sprintf("%016x", data.Checksum()),
		Compression:   compression.String(),
		ResourcePath:  resourcePath,
		ResourceBytes: n,
	}

	if grid.ExportGLB {
		report.GLBPath = filepath.Join(vs.config.OutputDir, grid.Name+".glb")
		if err := export.WriteGLB(report.GLBPath, grid.Name, data, geometry); err != nil {
			return nil, err
		}
	}

	if err := writeReport(filepath.Join(vs.config.OutputDir, grid.Name+".json"), report); err != nil {
		return nil, err
	}

	if vs.uploader != nil {
		if err := renderer.UploadVoxelData(vs.uploader, grid.Name, data); err != nil {
			return nil, err
		}
	}

	return &GridBuild{Name: grid.Name, Geometry: geometry, Data: data, Report: report}, nil
}

func writeReport(path string, report Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// ReadReport reads a report written by Build.
func ReadReport(path string) (Report, error) {
	var r Report
	b, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	err = json.Unmarshal(b, &r)
	return r, err
}

/**
 * @brief Builds every grid as a job on the job system and waits for all of
 * them. Grids not yet queued when ctx is done are skipped.
 *
 * @param ctx Cancels the submission of further grids.
 * @param grids The grids to build.
 * @return The successful builds in input order, and the joined errors.
 */
func (vs *VoxelGridSystem) BuildAll(ctx context.Context, grids []config.Grid) ([]*GridBuild, error) {
	results := make([]*GridBuild, len(grids))
	errs := make([]error, len(grids))

	var wg sync.WaitGroup
	for i, g := range grids {
		i, g := i, g
		wg.Add(1)
		err := vs.jobs.SubmitContext(ctx, metadata.JobTask{
			InputParams: g,
			OnStart: func(params interface{}, out chan interface{}) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				b, err := vs.Build(params.(config.Grid))
				if err != nil {
					return err
				}
				out <- b
				return nil
			},
			OnComplete: func(out chan interface{}) {
				results[i] = (<-out).(*GridBuild)
			},
			OnFailure: func(err error) {
				errs[i] = err
			},
			OnCompletionCallback: wg.Done,
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("grid '%s' not built: %w", g.Name, err)
		}
	}
	wg.Wait()

	built := make([]*GridBuild, 0, len(grids))
	for _, b := range results {
		if b != nil {
			built = append(built, b)
		}
	}
	return built, errors.Join(errs...)
}

// Get returns the last successful build of the named grid.
func (vs *VoxelGridSystem) Get(name string) (*GridBuild, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	b, ok := vs.builds[name]
	return b, ok
}

// Load reads a grid resource back through the resource system.
func (vs *VoxelGridSystem) Load(name string) (*loaders.VoxelGridResourceData, error) {
	res, err := vs.resources.Load(name, resources.ResourceTypeVoxelGrid, nil)
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*loaders.VoxelGridResourceData)
	if !ok {
		return nil, fmt.Errorf("resource '%s' is not a voxel grid: %w", name, core.ErrCorruptResource)
	}
	return data, nil
}
