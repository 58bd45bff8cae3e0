package behavior

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// coneProber blocks every probe whose direction falls inside one of the
// listed [lo, hi] degree ranges.
type coneProber struct {
	cones   [][2]float64
	casters []entity.Handle
}

func (c *coneProber) Blocked(caster entity.Handle, from, to geometry.Vector2D) bool {
	c.casters = append(c.casters, caster)
	deg := to.Sub(from).AngleDeg()
	for _, cone := range c.cones {
		if deg >= cone[0]-1e-6 && deg <= cone[1]+1e-6 {
			return true
		}
	}
	return false
}

func perceivingObstacle() *Perception {
	p := NewPerception()
	p.Enter(99, entity.KindObstacle)
	return p
}

func TestEscapeAngles(t *testing.T) {
	got := EscapeAngles(15, 6)
	want := []float64{15, 42.5, 70, 97.5, 125, 152.5}
	if len(got) != len(want) {
		t.Fatalf("EscapeAngles = %v; want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tolerance {
			t.Errorf("EscapeAngles[%d] = %v; want %v", i, got[i], want[i])
		}
	}
	if EscapeAngles(15, 0) != nil {
		t.Error("zero steps should yield no angles")
	}
}

func TestTryAvoid(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name     string
		cones    [][2]float64
		required bool
		found    bool
		heading  float64
	}{
		{"clear", nil, false, false, 0},
		{"blocked ahead picks first clear left", [][2]float64{{-20, 20}}, true, true, 42.5},
		{"left blocked falls back to right", [][2]float64{{-20, 90}}, true, true, -42.5},
		{"only side probe blocked", [][2]float64{{10, 16}}, true, true, -15},
		{"boxed in", [][2]float64{{-180, 180}}, true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &coneProber{cones: tt.cones}
			self := agentAt(7, 2, 2, 0)
			esc := Avoidance{Probe: probe}.TryAvoid(self, perceivingObstacle(), &p)
			if esc.Required != tt.required || esc.Found != tt.found {
				t.Fatalf("TryAvoid = required %v found %v; want %v %v", esc.Required, esc.Found, tt.required, tt.found)
			}
			if tt.found {
				want := geometry.FromDegrees(tt.heading)
				if !esc.Heading.Eq(want) {
					t.Errorf("escape heading = %v (%.2f deg); want %.2f deg", esc.Heading, esc.Heading.AngleDeg(), tt.heading)
				}
			} else if !esc.Heading.IsZero() {
				t.Errorf("escape heading = %v; want zero", esc.Heading)
			}
			for _, c := range probe.casters {
				if c != self.Handle {
					t.Errorf("probe cast for %d; want %d", c, self.Handle)
				}
			}
		})
	}
}

func TestTryAvoid_NoObstaclePerceivedSkipsProbes(t *testing.T) {
	p := DefaultParams()
	probe := &coneProber{cones: [][2]float64{{-180, 180}}}
	perceived := NewPerception()
	perceived.Enter(3, entity.KindAgent)

	esc := Avoidance{Probe: probe}.TryAvoid(agentAt(1, 0, 0, 0), perceived, &p)
	if esc.Required {
		t.Error("avoidance should not be required without a perceived obstacle")
	}
	if len(probe.casters) != 0 {
		t.Errorf("cast %d probes; want 0", len(probe.casters))
	}
}

func TestTryAvoid_RecordsRaysWhenDrawing(t *testing.T) {
	p := DefaultParams()
	p.DrawAvoidance = true
	probe := &coneProber{cones: [][2]float64{{-20, 20}}}
	esc := Avoidance{Probe: probe}.TryAvoid(agentAt(1, 0, 0, 0), perceivingObstacle(), &p)
	// forward, two initial side probes, then 15 left, 15 right, 42.5 left
	if len(esc.Rays) != 6 {
		t.Fatalf("recorded %d rays; want 6", len(esc.Rays))
	}
	if !esc.Rays[0].Blocked || esc.Rays[5].Blocked {
		t.Errorf("rays = %+v", esc.Rays)
	}
	if l := esc.Rays[0].To.Sub(esc.Rays[0].From).Len(); math.Abs(l-p.SenseRadius) > tolerance {
		t.Errorf("probe length = %v; want sense radius %v", l, p.SenseRadius)
	}
}
