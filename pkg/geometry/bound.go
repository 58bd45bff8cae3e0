package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ToPoint converts v to an orb point.
func (v Vector2D) ToPoint() orb.Point {
	return orb.Point{v.X, v.Y}
}

// FromPoint converts an orb point to a vector.
func FromPoint(p orb.Point) Vector2D {
	return Vector2D{X: p.X(), Y: p.Y()}
}

// BoxBound returns the axis aligned bound of a box centred on c.
func BoxBound(c Vector2D, halfW, halfH float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.X - halfW, c.Y - halfH},
		Max: orb.Point{c.X + halfW, c.Y + halfH},
	}
}

// ClosestPoint clamps p into b.
func ClosestPoint(b orb.Bound, p Vector2D) Vector2D {
	return Vector2D{
		X: math.Max(b.Left(), math.Min(p.X, b.Right())),
		Y: math.Max(b.Bottom(), math.Min(p.Y, b.Top())),
	}
}

// CircleIntersectsBound reports whether a circle touches or overlaps b.
func CircleIntersectsBound(c Vector2D, r float64, b orb.Bound) bool {
	closest := ClosestPoint(b, c)
	return planar.DistanceSquared(closest.ToPoint(), c.ToPoint()) <= r*r
}

// CirclesIntersect reports whether two circles touch or overlap.
func CirclesIntersect(c1 Vector2D, r1 float64, c2 Vector2D, r2 float64) bool {
	rr := r1 + r2
	return planar.DistanceSquared(c1.ToPoint(), c2.ToPoint()) <= rr*rr
}

// SegmentBound returns the first fraction t in [0, 1] along from->to at which
// the segment enters b, using the slab method. A segment starting inside b
// reports t = 0.
func SegmentBound(from, to Vector2D, b orb.Bound) (float64, bool) {
	if b.Contains(from.ToPoint()) {
		return 0, true
	}
	d := to.Sub(from)
	tMin, tMax := 0.0, 1.0

	slabs := [2]struct{ o, d, lo, hi float64 }{
		{from.X, d.X, b.Left(), b.Right()},
		{from.Y, d.Y, b.Bottom(), b.Top()},
	}
	for _, s := range slabs {
		if math.Abs(s.d) < Epsilon {
			if s.o < s.lo || s.o > s.hi {
				return 0, false
			}
			continue
		}
		t1 := (s.lo - s.o) / s.d
		t2 := (s.hi - s.o) / s.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// SegmentCircle returns the first fraction t in [0, 1] along from->to at which
// the segment touches the circle.
func SegmentCircle(from, to, c Vector2D, r float64) (float64, bool) {
	d := to.Sub(from)
	f := from.Sub(c)
	if f.LenSqr() <= r*r {
		return 0, true
	}
	a := d.LenSqr()
	if a < Epsilon {
		return 0, false
	}
	b := 2 * f.Dot(d)
	disc := b*b - 4*a*(f.LenSqr()-r*r)
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
