package voxel

import (
	stdmath "math"

	"github.com/spaghettifunk/voxgrid/engine/math"
)

func uvSphere(rings, segments int, radius float32) ([]math.Vec3, []uint32) {
	var positions []math.Vec3
	for r := 0; r <= rings; r++ {
		phi := stdmath.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * stdmath.Pi * float64(s) / float64(segments)
			positions = append(positions, math.NewVec3(
				radius*float32(stdmath.Sin(phi)*stdmath.Cos(theta)),
				radius*float32(stdmath.Sin(phi)*stdmath.Sin(theta)),
				radius*float32(stdmath.Cos(phi)),
			))
		}
	}
	var indices []uint32
	row := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*row + uint32(s)
			b := a + row
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return positions, indices
}

// demoScene is a unit sphere above a 4x4 plane at z = -1.
func demoScene() ([]math.Vec3, []uint32) {
	positions, indices := uvSphere(12, 16, 1)
	base := uint32(len(positions))
	positions = append(positions,
		math.NewVec3(-2, -2, -1),
		math.NewVec3(2, -2, -1),
		math.NewVec3(2, 2, -1),
		math.NewVec3(-2, 2, -1),
	)
	indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	return positions, indices
}

func unitSquare() ([]math.Vec3, []uint32) {
	positions := []math.Vec3{
		math.NewVec3(0, 0, 0),
		math.NewVec3(1, 0, 0),
		math.NewVec3(1, 1, 0),
		math.NewVec3(0, 1, 0),
	}
	// triangle 0 is below the diagonal (y <= x), triangle 1 above it
	return positions, []uint32{0, 1, 2, 0, 2, 3}
}

func unitBox() math.Extents3D {
	return math.Extents3D{Min: math.NewVec3Zero(), Max: math.NewVec3One()}
}
