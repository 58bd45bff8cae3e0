package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// ApplyDesiredHeading rotates agent towards desired by at most TurnRate*dt
// degrees along the shortest arc and sets its speed to CruiseSpeed.
// A zero desired leaves heading and speed untouched. It returns the signed
// rotation applied, in degrees.
func ApplyDesiredHeading(agent *entity.Entity, desired geometry.Vector2D, p *Params, dt float64) float64 {
	if desired.IsZero() {
		return 0
	}
	diff := agent.Heading.SignedAngleDegTo(desired)
	limit := p.TurnRate * dt
	turn := math.Max(-limit, math.Min(diff, limit))

	agent.Heading = agent.Heading.RotateDeg(turn).Normalize()
	agent.Speed = p.CruiseSpeed
	return turn
}
