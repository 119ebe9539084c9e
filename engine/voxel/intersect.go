package voxel

import (
	"github.com/spaghettifunk/voxgrid/engine/math"
)

// Triangle is three vertex positions.
type Triangle struct {
	A, B, C math.Vec3
}

// Bounds is the tight, unexpanded box of the triangle.
func (t Triangle) Bounds() math.Extents3D {
	return tightBounds(t.A, t.B, t.C)
}

// clipAxes is the slab order used by the clipper: z, x, y.
var clipAxes = [3]int{2, 0, 1}

// crossingEpsilon is the smallest coordinate span crossPoint divides by.
const crossingEpsilon float32 = 1e-20

/**
 * @brief Tells if the triangle and the closed box share at least one point.
 * The triangle is clipped against the box slab by slab; it intersects when
 * something survives all three slabs.
 *
 * @param t The triangle.
 * @param box The box.
 * @return True on intersection.
 */
func TriangleIntersectsBox(t Triangle, box math.Extents3D) bool {
	return clipTriangle(0, t.A, t.B, t.C, box)
}

func clipTriangle(depth int, a, b, c math.Vec3, box math.Extents3D) bool {
	if depth == len(clipAxes) {
		return true
	}
	axis := clipAxes[depth]
	a, b, c = sortAlongAxis(a, b, c, axis)

	av, bv, cv := a.Axis(axis), b.Axis(axis), c.Axis(axis)
	s, e := box.Min.Axis(axis), box.Max.Axis(axis)
	if cv < s || av > e {
		return false
	}

	next := depth + 1

	if av <= s {
		asc := crossPoint(a, c, av, cv, s)
		switch {
		case bv <= s && cv <= e:
			bsc := crossPoint(b, c, bv, cv, s)
			return clipTriangle(next, asc, bsc, c, box)
		case bv <= s:
			bsc := crossPoint(b, c, bv, cv, s)
			bec := crossPoint(b, c, bv, cv, e)
			aec := crossPoint(a, c, av, cv, e)
			return clipTriangle(next, bsc, bec, asc, box) ||
				clipTriangle(next, asc, bec, aec, box)
		case bv <= e && cv <= e:
			asb := crossPoint(a, b, av, bv, s)
			return clipTriangle(next, asc, b, c, box) ||
				clipTriangle(next, asc, asb, b, box)
		case bv <= e:
			// One vertex on each side of the slab: a pentagon.
			asb := crossPoint(a, b, av, bv, s)
			bec := crossPoint(b, c, bv, cv, e)
			aec := crossPoint(a, c, av, cv, e)
			return clipTriangle(next, asb, b, bec, box) ||
				clipTriangle(next, asc, asb, bec, box) ||
				clipTriangle(next, asc, bec, aec, box)
		default:
			asb := crossPoint(a, b, av, bv, s)
			aeb := crossPoint(a, b, av, bv, e)
			aec := crossPoint(a, c, av, cv, e)
			return clipTriangle(next, asc, asb, aeb, box) ||
				clipTriangle(next, asc, aeb, aec, box)
		}
	}

	switch {
	case cv <= e:
		return clipTriangle(next, a, b, c, box)
	case bv <= e:
		bec := crossPoint(b, c, bv, cv, e)
		aec := crossPoint(a, c, av, cv, e)
		return clipTriangle(next, a, b, bec, box) ||
			clipTriangle(next, a, aec, bec, box)
	default:
		aeb := crossPoint(a, b, av, bv, e)
		aec := crossPoint(a, c, av, cv, e)
		return clipTriangle(next, a, aeb, aec, box)
	}
}

// sortAlongAxis orders three points ascending on one axis. Ties keep their input order.
func sortAlongAxis(a, b, c math.Vec3, axis int) (math.Vec3, math.Vec3, math.Vec3) {
	if a.Axis(axis) > b.Axis(axis) {
		a, b = b, a
	}
	if b.Axis(axis) > c.Axis(axis) {
		b, c = c, b
	}
	if a.Axis(axis) > b.Axis(axis) {
		a, b = b, a
	}
	return a, b, c
}

// crossPoint is where the edge from -> to crosses the plane at barrier.
// Edges (nearly) parallel to the plane give from.
func crossPoint(from, to math.Vec3, fromV, toV, barrier float32) math.Vec3 {
	span := toV - fromV
	if math.Abs(span) < crossingEpsilon {
		return from
	}
	t := math.Clamp((barrier-fromV)/span, 0, 1)
	return from.Add(to.Sub(from).MulScalar(t))
}
