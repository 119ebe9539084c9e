package systems

import (
	stdmath "math"

	"github.com/spaghettifunk/voxgrid/engine/core"
	"github.com/spaghettifunk/voxgrid/engine/math"
	"github.com/spaghettifunk/voxgrid/engine/renderer/metadata"
)

/**
 * @brief Generates configuration for a plane in the xy plane, facing +z.
 *
 * @param width The overall width of the plane. Must be non-zero.
 * @param height The overall height of the plane. Must be non-zero.
 * @param xSegmentCount The number of segments along the x-axis in the plane. Must be non-zero.
 * @param ySegmentCount The number of segments along the y-axis in the plane. Must be non-zero.
 * @param name The name of the generated geometry.
 * @return A geometry configuration.
 */
func GeneratePlaneConfig(width, height float32, xSegmentCount, ySegmentCount uint32, name string) *metadata.GeometryConfig {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if xSegmentCount < 1 {
		core.LogWarn("xSegmentCount must be a positive number. Defaulting to one.")
		xSegmentCount = 1
	}
	if ySegmentCount < 1 {
		core.LogWarn("ySegmentCount must be a positive number. Defaulting to one.")
		ySegmentCount = 1
	}

	config := &metadata.GeometryConfig{
		Vertices: make([]math.Vertex3D, 0, (xSegmentCount+1)*(ySegmentCount+1)),
		Indices:  make([]uint32, 0, xSegmentCount*ySegmentCount*6),
	}

	segWidth := width / float32(xSegmentCount)
	segHeight := height / float32(ySegmentCount)
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	for y := uint32(0); y <= ySegmentCount; y++ {
		for x := uint32(0); x <= xSegmentCount; x++ {
			config.Vertices = append(config.Vertices, math.Vertex3D{
				Position: math.NewVec3(float32(x)*segWidth-halfWidth, float32(y)*segHeight-halfHeight, 0),
				Normal:   math.NewVec3(0, 0, 1),
				Colour:   math.NewVec4(1, 1, 1, 1),
			})
		}
	}

	row := xSegmentCount + 1
	for y := uint32(0); y < ySegmentCount; y++ {
		for x := uint32(0); x < xSegmentCount; x++ {
			v0 := y*row + x
			v1 := v0 + 1
			v2 := v0 + row
			v3 := v2 + 1
			config.Indices = append(config.Indices, v0, v1, v3, v0, v3, v2)
		}
	}

	finishConfig(config, name)
	return config
}

// cubeFaces lists each face as its normal and the two in-plane axes spanning it.
var cubeFaces = [6]struct {
	normal, u, v math.Vec3
}{
	{math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)},
	{math.NewVec3(0, 0, -1), math.NewVec3(-1, 0, 0), math.NewVec3(0, 1, 0)},
	{math.NewVec3(-1, 0, 0), math.NewVec3(0, 0, 1), math.NewVec3(0, 1, 0)},
	{math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1), math.NewVec3(0, 1, 0)},
	{math.NewVec3(0, -1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, 1)},
	{math.NewVec3(0, 1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1)},
}

/**
 * @brief Generates configuration for a box centred on the origin, four
 * vertices per face.
 *
 * @param width The width of the box on the x axis. Must be non-zero.
 * @param height The height of the box on the y axis. Must be non-zero.
 * @param depth The depth of the box on the z axis. Must be non-zero.
 * @param name The name of the generated geometry.
 * @return A geometry configuration.
 */
func GenerateCubeConfig(width, height, depth float32, name string) *metadata.GeometryConfig {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1
	}

	half := math.NewVec3(width*0.5, height*0.5, depth*0.5)
	config := &metadata.GeometryConfig{
		Vertices: make([]math.Vertex3D, 0, 4*6),
		Indices:  make([]uint32, 0, 6*6),
	}
	for i, f := range cubeFaces {
		centre := f.normal.Mul(half)
		u := f.u.Mul(half)
		v := f.v.Mul(half)
		corners := [4]math.Vec3{
			centre.Sub(u).Sub(v),
			centre.Add(u).Sub(v),
			centre.Add(u).Add(v),
			centre.Sub(u).Add(v),
		}
		for _, c := range corners {
			config.Vertices = append(config.Vertices, math.Vertex3D{Position: c, Normal: f.normal, Colour: math.NewVec4(1, 1, 1, 1)})
		}
		base := uint32(i * 4)
		config.Indices = append(config.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	finishConfig(config, name)
	return config
}

/**
 * @brief Generates configuration for a UV sphere centred on the origin. The
 * poles lie on the z axis.
 *
 * @param radius The sphere radius. Must be non-zero.
 * @param rings The number of latitude bands. At least 2.
 * @param slices The number of longitude bands. At least 3.
 * @param name The name of the generated geometry.
 * @return A geometry configuration.
 */
func GenerateSphereConfig(radius float32, rings, slices uint32, name string) *metadata.GeometryConfig {
	if radius == 0 {
		core.LogWarn("Radius must be nonzero. Defaulting to one.")
		radius = 1
	}
	if rings < 2 {
		core.LogWarn("rings must be at least 2. Defaulting to 2.")
		rings = 2
	}
	if slices < 3 {
		core.LogWarn("slices must be at least 3. Defaulting to 3.")
		slices = 3
	}

	config := &metadata.GeometryConfig{
		Vertices: make([]math.Vertex3D, 0, (rings+1)*(slices+1)),
		Indices:  make([]uint32, 0, rings*slices*6),
	}
	for r := uint32(0); r <= rings; r++ {
		phi := stdmath.Pi * float64(r) / float64(rings)
		for s := uint32(0); s <= slices; s++ {
			theta := 2 * stdmath.Pi * float64(s) / float64(slices)
			n := math.NewVec3(
				float32(stdmath.Sin(phi)*stdmath.Cos(theta)),
				float32(stdmath.Sin(phi)*stdmath.Sin(theta)),
				float32(stdmath.Cos(phi)),
			)
			config.Vertices = append(config.Vertices, math.Vertex3D{Position: n.MulScalar(radius), Normal: n, Colour: math.NewVec4(1, 1, 1, 1)})
		}
	}

	row := slices + 1
	for r := uint32(0); r < rings; r++ {
		for s := uint32(0); s < slices; s++ {
			a := r*row + s
			b := a + row
			// The first and last rings collapse to a pole, skip their zero-area half.
			if r != 0 {
				config.Indices = append(config.Indices, a, b, a+1)
			}
			if r != rings-1 {
				config.Indices = append(config.Indices, a+1, b, b+1)
			}
		}
	}

	finishConfig(config, name)
	return config
}

func finishConfig(config *metadata.GeometryConfig, name string) {
	config.Extents = math.GeometryExtents(config.Vertices)
	config.Center = config.Extents.Min.Add(config.Extents.Max).MulScalar(0.5)
	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
}
