package voxel

import (
	"github.com/spaghettifunk/voxgrid/engine/math"
)

const rayEpsilon float32 = 1e-12

// Hit describes where a ray met the mesh.
type Hit struct {
	Triangle uint32
	Distance float32
	Point    math.Vec3
	Cell     CellCoord
}

/**
 * @brief Walks the grid cell by cell along the ray and returns the closest
 * triangle hit. A hit only counts in the cell that contains its point, so
 * the walk can stop at the first cell with a hit.
 *
 * @param origin The ray origin.
 * @param dir The ray direction. Distances are in multiples of it.
 * @param positions The vertex positions the grid was built from.
 * @param indices The triangle list the grid was built from.
 * @return The hit and true, or false when the ray misses.
 */
func (d *VoxelData) Raycast(origin, dir math.Vec3, positions []math.Vec3, indices []uint32) (Hit, bool) {
	if len(d.Entries) == 0 || dir.LengthSquared() == 0 {
		return Hit{}, false
	}
	part, err := d.Partition()
	if err != nil {
		return Hit{}, false
	}
	tEnter, tExit, ok := rayBox(origin, dir, d.Settings.Bounds())
	if !ok {
		return Hit{}, false
	}
	if tEnter < 0 {
		tEnter = 0
	}

	cell := part.ClampCell(part.CellIndexOf(origin.Add(dir.MulScalar(tEnter))))
	size := part.CellSize()
	start := d.Settings.GridStart

	var step [3]int
	var tMax, tDelta [3]float32
	for axis := 0; axis < 3; axis++ {
		dv := dir.Axis(axis)
		c := float32(cell.Axis(axis))
		switch {
		case dv > 0:
			step[axis] = 1
			tMax[axis] = (start.Axis(axis) + size.Axis(axis)*(c+1) - origin.Axis(axis)) / dv
			tDelta[axis] = size.Axis(axis) / dv
		case dv < 0:
			step[axis] = -1
			tMax[axis] = (start.Axis(axis) + size.Axis(axis)*c - origin.Axis(axis)) / dv
			tDelta[axis] = -size.Axis(axis) / dv
		default:
			tMax[axis] = math.K_INFINITY
			tDelta[axis] = math.K_INFINITY
		}
	}

	for {
		if hit, ok := d.closestInCell(part, cell, origin, dir, positions, indices); ok {
			return hit, true
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if tMax[axis] > tExit {
			break
		}
		cell.setAxis(axis, cell.Axis(axis)+step[axis])
		if !part.InGrid(cell) {
			break
		}
		tMax[axis] += tDelta[axis]
	}
	return Hit{}, false
}

func (d *VoxelData) closestInCell(part Partition, cell CellCoord, origin, dir math.Vec3, positions []math.Vec3, indices []uint32) (Hit, bool) {
	box := part.PaddedCellBox(cell)
	best := Hit{Distance: math.K_INFINITY}
	found := false
	for e := d.Voxels[part.FlatIndex(cell)]; e != NoEntry; e = d.Entries[e].Next {
		tri := d.Entries[e].Triangle
		t, ok := RayTriangle(origin, dir, TriangleAt(positions, indices, tri))
		if !ok || t >= best.Distance {
			continue
		}
		p := origin.Add(dir.MulScalar(t))
		if !box.Contains(p) {
			continue
		}
		best = Hit{Triangle: tri, Distance: t, Point: p, Cell: cell}
		found = true
	}
	return best, found
}

// TriangleAt returns the positions of the numbered triangle.
func TriangleAt(positions []math.Vec3, indices []uint32, triangle uint32) Triangle {
	i := 3 * int(triangle)
	return Triangle{A: positions[indices[i]], B: positions[indices[i+1]], C: positions[indices[i+2]]}
}

// RayTriangle is the Möller-Trumbore test. It returns the ray parameter of
// the hit, ignoring hits behind the origin and rays parallel to the plane.
func RayTriangle(origin, dir math.Vec3, t Triangle) (float32, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(t.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist := e2.Dot(q) * inv
	if dist < 0 {
		return 0, false
	}
	return dist, true
}

// rayBox is the slab test. Axes the ray is parallel to only check the origin.
func rayBox(origin, dir math.Vec3, box math.Extents3D) (tEnter, tExit float32, ok bool) {
	tEnter, tExit = -math.K_INFINITY, math.K_INFINITY
	for axis := 0; axis < 3; axis++ {
		o, dv := origin.Axis(axis), dir.Axis(axis)
		lo, hi := box.Min.Axis(axis), box.Max.Axis(axis)
		if dv == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t0, t1 := (lo-o)/dv, (hi-o)/dv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tEnter = max(tEnter, t0)
		tExit = min(tExit, t1)
	}
	return tEnter, tExit, tEnter <= tExit && tExit >= 0
}
