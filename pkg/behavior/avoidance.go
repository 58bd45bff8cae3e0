package behavior

import (
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// Prober answers visibility probes against the world.
// Implementations must ignore sensors, the caster's own body and any fixture
// sharing one of the caster's collision groups.
type Prober interface {
	Blocked(caster entity.Handle, from, to geometry.Vector2D) bool
}

// Avoider decides whether an agent must swerve this tick.
type Avoider interface {
	TryAvoid(self *entity.Entity, perceived *Perception, p *Params) Escape
}

// Ray is one probe, kept for debug drawing.
type Ray struct {
	From    geometry.Vector2D
	To      geometry.Vector2D
	Blocked bool
}

// Escape is the outcome of an avoidance check.
// Required without Found means every swept heading was blocked; the agent
// then keeps its committed heading and Heading is zero.
type Escape struct {
	Required bool
	Found    bool
	Heading  geometry.Vector2D
	Rays     []Ray
}

// Avoidance sweeps probes around the heading to find a clear path.
type Avoidance struct {
	Probe Prober
}

// TryAvoid implements Avoider. Probes are only cast while an obstacle is
// perceived; rays are recorded when DrawAvoidance is set.
func (a Avoidance) TryAvoid(self *entity.Entity, perceived *Perception, p *Params) Escape {
	var esc Escape
	if a.Probe == nil || perceived == nil || !perceived.Any(entity.KindObstacle) {
		return esc
	}
	heading := self.Heading
	if heading.IsZero() {
		return esc
	}

	cast := func(dir geometry.Vector2D) bool {
		to := self.Pos.Add(dir.Mul(p.SenseRadius))
		blocked := a.Probe.Blocked(self.Handle, self.Pos, to)
		if p.DrawAvoidance {
			esc.Rays = append(esc.Rays, Ray{From: self.Pos, To: to, Blocked: blocked})
		}
		return blocked
	}

	forward := cast(heading)
	left := cast(heading.RotateDeg(p.InitialEscapeAngle))
	right := cast(heading.RotateDeg(-p.InitialEscapeAngle))
	if !forward && !left && !right {
		return esc
	}
	esc.Required = true

	for _, angle := range EscapeAngles(p.InitialEscapeAngle, p.EscapeSteps) {
		for _, dir := range [2]geometry.Vector2D{heading.RotateDeg(angle), heading.RotateDeg(-angle)} {
			if !cast(dir) {
				esc.Found = true
				esc.Heading = dir.Normalize()
				return esc
			}
		}
	}
	return esc
}

// EscapeAngles lists the sweep angles in probe order, starting at initial
// and stepping by (180 - initial) / steps.
func EscapeAngles(initial float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	step := (180 - initial) / float64(steps)
	out := make([]float64, steps)
	for i := range out {
		out[i] = initial + float64(i)*step
	}
	return out
}
