package behavior

import (
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// Decision is what one agent wants to do this tick.
type Decision struct {
	Heading geometry.Vector2D
	Escape  Escape
	// Steered is false when avoidance took over and flocking was skipped.
	Steered bool
	// Forces are the flocking terms behind Heading, zero unless the steerer
	// is a ForceSteerer.
	Forces Forces
}

// Pilot combines avoidance and flocking. Avoidance wins whenever it is
// required, including when it failed to find a clear heading.
type Pilot struct {
	Steering  Steerer
	Avoidance Avoider
}

// Decide computes the desired heading for self without mutating anything.
func (pl Pilot) Decide(self *entity.Entity, perceived *Perception, neighbours []*entity.Entity, p *Params) Decision {
	var esc Escape
	if pl.Avoidance != nil {
		esc = pl.Avoidance.TryAvoid(self, perceived, p)
		if esc.Required {
			return Decision{Heading: esc.Heading, Escape: esc}
		}
	}
	d := Decision{Escape: esc}
	switch s := pl.Steering.(type) {
	case nil:
	case ForceSteerer:
		d.Forces, d.Heading = s.Steer(self, neighbours, p)
		d.Steered = true
	default:
		d.Heading = s.DesiredHeading(self, neighbours, p)
		d.Steered = true
	}
	return d
}
