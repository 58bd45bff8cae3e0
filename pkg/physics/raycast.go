package physics

import (
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// RayHit is the closest fixture found by RayCast.
type RayHit struct {
	Fixture  *Fixture
	Point    geometry.Vector2D
	Fraction float64
}

// RayCast returns the closest fixture crossed by the segment from->to that
// passes filter. Sensors are never reported.
func (w *World) RayCast(from, to geometry.Vector2D, filter func(*Fixture) bool) (RayHit, bool) {
	var best RayHit
	found := false
	w.Each(func(b *Body) {
		for _, f := range b.fixtures {
			if f.Sensor || (filter != nil && !filter(f)) {
				continue
			}
			var (
				t   float64
				hit bool
			)
			if f.Shape == ShapeCircle {
				t, hit = geometry.SegmentCircle(from, to, f.Center(), f.Radius)
			} else {
				t, hit = geometry.SegmentBound(from, to, f.Bound())
			}
			if hit && (!found || t < best.Fraction) {
				found = true
				best = RayHit{Fixture: f, Fraction: t, Point: from.Add(to.Sub(from).Mul(t))}
			}
		}
	})
	return best, found
}

// Blocked reports whether any solid fixture lies between from and to, as
// seen by the body of caster. The caster's own fixtures and every fixture
// sharing one of its non-zero groups are ignored.
func (w *World) Blocked(caster entity.Handle, from, to geometry.Vector2D) bool {
	var groups []int16
	if b, ok := w.bodies[caster]; ok {
		for _, f := range b.fixtures {
			if f.Group != 0 {
				groups = append(groups, f.Group)
			}
		}
	}
	_, hit := w.RayCast(from, to, func(f *Fixture) bool {
		if f.body.Handle == caster {
			return false
		}
		for _, g := range groups {
			if f.Group == g {
				return false
			}
		}
		return true
	})
	return hit
}
