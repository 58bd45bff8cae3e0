package entity

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

func TestRegistry_AddGetRemove(t *testing.T) {
	r := NewRegistry()
	a := r.Add(NewAgent(geometry.Vector2D{X: 1, Y: 1}, 0, 3, 0.1, 0.2))
	o := r.Add(NewObstacle(KindObstacle, geometry.Vector2D{X: 5, Y: 5}, 1, 1))

	if a == NoHandle || o == NoHandle || a == o {
		t.Fatalf("expected two distinct non-zero handles, got %d and %d", a, o)
	}
	if got, ok := r.Get(a); !ok || got.Kind != KindAgent {
		t.Errorf("Get(%d) = %v, %v; want agent", a, got, ok)
	}
	if r.Count(KindAgent) != 1 || r.Count(KindObstacle) != 1 || r.Len() != 2 {
		t.Errorf("counts = %d agents, %d obstacles, %d total; want 1, 1, 2",
			r.Count(KindAgent), r.Count(KindObstacle), r.Len())
	}

	r.Remove(a)
	if _, ok := r.Get(a); ok {
		t.Error("removed handle should not resolve")
	}
	r.Remove(a) // no-op

	b := r.Add(NewAgent(geometry.Vector2D{}, 0, 3, 0.1, 0.2))
	if b == a {
		t.Error("handles must not be reused")
	}
}

func TestRegistry_EachOrder(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Add(NewAgent(geometry.Vector2D{X: float64(i)}, 0, 1, 0.1, 0.1))
	}
	var last Handle
	r.Each(KindAgent, func(e *Entity) {
		if e.Handle <= last {
			t.Errorf("Each visited %d after %d", e.Handle, last)
		}
		last = e.Handle
	})
}

func TestEntity_Velocity(t *testing.T) {
	e := NewAgent(geometry.Vector2D{}, 90, 3, 0.1, 0.2)
	if v := e.Velocity(); !v.Eq(geometry.Vector2D{X: 0, Y: 3}) {
		t.Errorf("Velocity = %v; want (0, 3)", v)
	}
	if math.Abs(e.HeadingDeg()-90) > 1e-9 {
		t.Errorf("HeadingDeg = %v; want 90", e.HeadingDeg())
	}

	e.SetHeading(geometry.Zero)
	if math.Abs(e.HeadingDeg()-90) > 1e-9 {
		t.Error("SetHeading(zero) must keep the current heading")
	}
	e.SetHeading(geometry.Vector2D{X: -4, Y: 0})
	if !e.Heading.Eq(geometry.Vector2D{X: -1, Y: 0}) {
		t.Errorf("SetHeading normalises; got %v", e.Heading)
	}
}
