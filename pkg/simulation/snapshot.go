package simulation

import (
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// AgentView is the read-only render state of one agent.
type AgentView struct {
	Handle     entity.Handle
	Pos        geometry.Vector2D
	HeadingDeg float64
	Width      float64
	Height     float64
	Perceived  int
	Avoiding   bool
	// Forces and Rays come from the last decision and are only filled when
	// the matching draw toggle is on. Forces stay zero while avoiding.
	Forces behavior.Forces
	Rays   []behavior.Ray
}

// BoxView is the render state of an obstacle or an edge.
type BoxView struct {
	Handle entity.Handle
	Kind   entity.Kind
	Pos    geometry.Vector2D
	Width  float64
	Height float64
}

// Snapshot is everything the renderer needs for one frame.
type Snapshot struct {
	Tick        uint64
	WorldWidth  float64
	WorldHeight float64
	Agents      []AgentView
	Obstacles   []BoxView
	Edges       []BoxView
	Params      behavior.Params
	Totals      Totals
}

// Snapshot copies the current state out of the arena. The result shares no
// memory with the simulation.
func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:        s.tick,
		WorldWidth:  s.cfg.WorldWidth,
		WorldHeight: s.cfg.WorldHeight,
		Agents:      make([]AgentView, 0, len(s.perception)),
		Params:      s.params,
		Totals:      s.totals,
	}
	drawForces := s.params.DrawSeparation || s.params.DrawVelocityMatch || s.params.DrawCohesion

	s.registry.Each(entity.KindUnknown, func(e *entity.Entity) {
		switch e.Kind {
		case entity.KindAgent:
			v := AgentView{
				Handle:     e.Handle,
				Pos:        e.Pos,
				HeadingDeg: e.HeadingDeg(),
				Width:      e.Width,
				Height:     e.Height,
			}
			if p, ok := s.perception[e.Handle]; ok {
				v.Perceived = p.Count(entity.KindUnknown)
			}
			d := s.decisions[e.Handle]
			v.Avoiding = d.Escape.Required
			if s.params.DrawAvoidance && len(d.Escape.Rays) > 0 {
				v.Rays = append([]behavior.Ray(nil), d.Escape.Rays...)
			}
			if drawForces {
				v.Forces = d.Forces
			}
			snap.Agents = append(snap.Agents, v)
		case entity.KindObstacle:
			snap.Obstacles = append(snap.Obstacles, boxView(e))
		case entity.KindBoundary:
			snap.Edges = append(snap.Edges, boxView(e))
		}
	})
	return snap
}

func boxView(e *entity.Entity) BoxView {
	return BoxView{Handle: e.Handle, Kind: e.Kind, Pos: e.Pos, Width: e.Width, Height: e.Height}
}
