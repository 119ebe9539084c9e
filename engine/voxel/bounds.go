package voxel

import "github.com/spaghettifunk/voxgrid/engine/math"

/**
 * @brief Computes the box enclosing all positions, grown by BoundsEpsilon on
 * every side. Where the coordinates are too large for BoundsEpsilon to move
 * them, the side is stepped to the next representable float instead, so the
 * box always strictly contains the positions. An empty input gives a
 * zero-size box at the origin.
 *
 * @param positions The vertex positions.
 * @return The expanded extents.
 */
func ComputeBounds(positions []math.Vec3) math.Extents3D {
	if len(positions) == 0 {
		return math.Extents3D{}
	}
	tight := tightBounds(positions...)
	grown := tight.Expand(BoundsEpsilon)
	return math.Extents3D{
		Min: math.NewVec3(below(tight.Min.X, grown.Min.X), below(tight.Min.Y, grown.Min.Y), below(tight.Min.Z, grown.Min.Z)),
		Max: math.NewVec3(above(tight.Max.X, grown.Max.X), above(tight.Max.Y, grown.Max.Y), above(tight.Max.Z, grown.Max.Z)),
	}
}

// below returns grown if it lies under tight, else the float just under tight.
func below(tight, grown float32) float32 {
	if grown < tight {
		return grown
	}
	return math.NextDown(tight)
}

func above(tight, grown float32) float32 {
	if grown > tight {
		return grown
	}
	return math.NextUp(tight)
}

func tightBounds(points ...math.Vec3) math.Extents3D {
	e := math.Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		e.Min = e.Min.Min(p)
		e.Max = e.Max.Max(p)
	}
	return e
}
