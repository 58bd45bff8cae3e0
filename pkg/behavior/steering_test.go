package behavior

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

const tolerance = 1e-9

func agentAt(h entity.Handle, x, y, headingDeg float64) *entity.Entity {
	e := entity.NewAgent(geometry.NewVector(x, y), headingDeg, 3, 0.1, 0.2)
	e.Handle = h
	return e
}

func TestSeparationForce_AtMinDistance(t *testing.T) {
	p := DefaultParams()
	self := agentAt(1, 0, 0, 90)
	other := agentAt(2, 0.2, 0, 90)

	got := SeparationForce(self, []*entity.Entity{other}, &p)
	if math.Abs(got.Len()-p.SeparationForceAtMinDist) > tolerance {
		t.Errorf("|separation| = %v; want %v", got.Len(), p.SeparationForceAtMinDist)
	}
	if got.X >= 0 || math.Abs(got.Y) > tolerance {
		t.Errorf("separation = %v; want it along -x", got)
	}
}

func TestSeparationForce(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"inside min distance", 0.1, 0, 2},
		{"decays beyond min distance", 0.5, 0, 2 * 0.25 / 0.5},
		{"at sense radius", 0, 1, 2 * 0.25},
		{"outside sense radius", 1.5, 0, 0},
		{"overlapping", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := agentAt(1, 0, 0, 0)
			other := agentAt(2, tt.x, tt.y, 0)
			got := SeparationForce(self, []*entity.Entity{other}, &p)
			if math.Abs(got.Len()-tt.want) > tolerance {
				t.Errorf("|separation| = %v; want %v", got.Len(), tt.want)
			}
		})
	}
}

func TestSeparationForce_Clustering(t *testing.T) {
	p := DefaultParams()
	self := agentAt(1, 0, 0, 0)

	// 1. A tight symmetric square cancels out
	square := []*entity.Entity{
		agentAt(2, 0.1, 0.1, 0),
		agentAt(3, 0.1, -0.1, 0),
		agentAt(4, -0.1, 0.1, 0),
		agentAt(5, -0.1, -0.1, 0),
	}
	if got := SeparationForce(self, square, &p); got.Len() > tolerance {
		t.Errorf("symmetric square = %v; want zero", got)
	}

	// 2. Breaking the symmetry pushes away from the remaining three
	got := SeparationForce(self, square[:3], &p)
	if got.X >= 0 || got.Y >= 0 {
		t.Errorf("separation = %v; want it pointing away from (0.1, 0.1)", got)
	}
	if math.Abs(got.Len()-p.SeparationForceAtMinDist) > tolerance {
		t.Errorf("|separation| = %v; want %v", got.Len(), p.SeparationForceAtMinDist)
	}
}

func TestSeparationForce_Weight(t *testing.T) {
	p := DefaultParams()
	p.SeparationWeight = 0.5
	self := agentAt(1, 0, 0, 0)
	got := SeparationForce(self, []*entity.Entity{agentAt(2, 0, 0.1, 0)}, &p)
	if !got.Eq(geometry.NewVector(0, -1)) {
		t.Errorf("separation = %v; want (0, -1)", got)
	}
}

func TestDesiredHeading_NoNeighboursHoldsCourse(t *testing.T) {
	p := DefaultParams()
	for _, deg := range []float64{0, 37, 90, 180, -135} {
		self := agentAt(1, 4, 4, deg)
		got := Flocking{}.DesiredHeading(self, nil, &p)
		if !got.Eq(self.Velocity().Normalize()) {
			t.Errorf("heading %v: DesiredHeading = %v; want %v", deg, got, self.Velocity().Normalize())
		}
	}
}

func TestDesiredHeading_IsUnit(t *testing.T) {
	p := DefaultParams()
	self := agentAt(1, 0, 0, 90)
	neighbours := []*entity.Entity{
		agentAt(2, 0.2, 0, 90),
		agentAt(3, -0.4, 0.3, 45),
		agentAt(4, 0.1, -0.6, 180),
	}
	got := Flocking{}.DesiredHeading(self, neighbours, &p)
	if math.Abs(got.Len()-1) > tolerance {
		t.Errorf("|DesiredHeading| = %v; want 1", got.Len())
	}
}

func TestVelocityMatchAndCohesion(t *testing.T) {
	p := DefaultParams()
	self := agentAt(1, 0, 0, 0)
	other := agentAt(2, 0, 0.5, 90)

	vm := VelocityMatchForce(self, []*entity.Entity{other}, &p)
	want := geometry.NewVector(1, 1).Normalize()
	if !vm.Eq(want) {
		t.Errorf("velocity match = %v; want %v", vm, want)
	}

	co := CohesionForce(self, []*entity.Entity{other}, &p)
	if !co.Eq(geometry.NewVector(0, 1)) {
		t.Errorf("cohesion = %v; want (0, 1)", co)
	}

	if got := CohesionForce(self, nil, &p); !got.Eq(geometry.Zero) {
		t.Errorf("cohesion alone = %v; want zero", got)
	}
}

func TestComputeForces_SelfInNeighboursIgnored(t *testing.T) {
	p := DefaultParams()
	self := agentAt(1, 1, 1, 30)
	with := ComputeForces(self, []*entity.Entity{self}, &p)
	without := ComputeForces(self, nil, &p)
	if !with.Sum().Eq(without.Sum()) {
		t.Errorf("self counted as neighbour: %v vs %v", with.Sum(), without.Sum())
	}
}

func BenchmarkDesiredHeading(b *testing.B) {
	p := DefaultParams()
	self := agentAt(1, 0, 0, 0)
	neighbours := make([]*entity.Entity, 0, 20)
	for i := 0; i < 20; i++ {
		a := float64(i) * 18
		v := geometry.FromDegrees(a).Mul(0.8)
		neighbours = append(neighbours, agentAt(entity.Handle(i+2), v.X, v.Y, a))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Flocking{}.DesiredHeading(self, neighbours, &p)
	}
}
