package behavior

import (
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// Steerer turns a neighbourhood into a desired heading.
// The result is a unit vector, or zero when nothing pulls the agent.
type Steerer interface {
	DesiredHeading(self *entity.Entity, neighbours []*entity.Entity, p *Params) geometry.Vector2D
}

// ForceSteerer is a Steerer that also reports the terms behind its heading.
type ForceSteerer interface {
	Steerer
	Steer(self *entity.Entity, neighbours []*entity.Entity, p *Params) (Forces, geometry.Vector2D)
}

// Forces are the three weighted flocking terms, kept apart for debug drawing.
type Forces struct {
	Separation    geometry.Vector2D
	VelocityMatch geometry.Vector2D
	Cohesion      geometry.Vector2D
}

// Sum adds the three terms.
func (f Forces) Sum() geometry.Vector2D {
	return f.Separation.Add(f.VelocityMatch).Add(f.Cohesion)
}

// Flocking is the classic separation / velocity match / cohesion steerer.
type Flocking struct{}

// DesiredHeading implements Steerer.
func (f Flocking) DesiredHeading(self *entity.Entity, neighbours []*entity.Entity, p *Params) geometry.Vector2D {
	_, h := f.Steer(self, neighbours, p)
	return h
}

// Steer implements ForceSteerer.
func (Flocking) Steer(self *entity.Entity, neighbours []*entity.Entity, p *Params) (Forces, geometry.Vector2D) {
	f := ComputeForces(self, neighbours, p)
	return f, f.Sum().Normalize()
}

// ComputeForces evaluates the three terms for self.
func ComputeForces(self *entity.Entity, neighbours []*entity.Entity, p *Params) Forces {
	return Forces{
		Separation:    SeparationForce(self, neighbours, p),
		VelocityMatch: VelocityMatchForce(self, neighbours, p),
		Cohesion:      CohesionForce(self, neighbours, p),
	}
}

// SeparationForce pushes self away from neighbours inside the sense radius.
// Each neighbour contributes SeparationForceAtMinDist when closer than
// MinSeparationDist, and a force decaying as 1/d beyond it.
func SeparationForce(self *entity.Entity, neighbours []*entity.Entity, p *Params) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, n := range neighbours {
		if n == self {
			continue
		}
		offset := n.Pos.Sub(self.Pos)
		dist := offset.Len()
		if dist < geometry.Epsilon || dist > p.SenseRadius {
			continue
		}
		scalar := p.SeparationForceAtMinDist
		if dist >= p.MinSeparationDist {
			scalar = p.SeparationForceAtMinDist * p.MinSeparationDist / dist
		}
		sum = sum.Add(offset.Mul(scalar / dist))
	}
	return sum.Mul(-p.SeparationWeight)
}

// VelocityMatchForce is the direction of the group's mean velocity, self
// included. An agent alone gets its own heading back.
func VelocityMatchForce(self *entity.Entity, neighbours []*entity.Entity, p *Params) geometry.Vector2D {
	sum := self.Velocity()
	count := 1
	for _, n := range neighbours {
		if n == self {
			continue
		}
		sum = sum.Add(n.Velocity())
		count++
	}
	return sum.Mul(1 / float64(count)).Normalize().Mul(p.VelocityMatchWeight)
}

// CohesionForce points self at the group's centre, self included.
func CohesionForce(self *entity.Entity, neighbours []*entity.Entity, p *Params) geometry.Vector2D {
	sum := self.Pos
	count := 1
	for _, n := range neighbours {
		if n == self {
			continue
		}
		sum = sum.Add(n.Pos)
		count++
	}
	centre := sum.Mul(1 / float64(count))
	return centre.Sub(self.Pos).Normalize().Mul(p.CohesionWeight)
}
