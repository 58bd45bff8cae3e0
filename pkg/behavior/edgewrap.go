package behavior

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// DefaultCooldown is ten ticks at 60 Hz, in seconds.
const DefaultCooldown = 10.0 / 60.0

// Edge indices, clockwise from the top.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
	edgeCount
)

// Boundary is one map edge. Agents touching it reappear next to the paired
// opposite edge.
type Boundary struct {
	Index  int
	Handle entity.Handle
	// Extent is the world size along the reflected axis.
	Extent float64

	paired   *Boundary
	cooldown map[entity.Handle]float64
	pending  []entity.Handle
	// touching holds agents whose footprint overlaps the edge right now.
	touching map[entity.Handle]struct{}
}

// Horizontal reports whether the edge runs along x (top and bottom).
func (b *Boundary) Horizontal() bool {
	return b.Index%2 == 0
}

// Paired returns the opposite edge.
func (b *Boundary) Paired() *Boundary {
	return b.paired
}

// Reflect mirrors pos across the world centre on the axis perpendicular to
// the edge.
func (b *Boundary) Reflect(pos geometry.Vector2D) geometry.Vector2D {
	if b.Horizontal() {
		pos.Y = b.Extent - pos.Y
	} else {
		pos.X = b.Extent - pos.X
	}
	return pos
}

// InCooldown reports whether h is currently ignored by this edge.
func (b *Boundary) InCooldown(h entity.Handle) bool {
	_, ok := b.cooldown[h]
	return ok
}

// Remaining returns the cooldown time left for h, or zero.
func (b *Boundary) Remaining(h entity.Handle) float64 {
	return b.cooldown[h]
}

// CooldownLen is the number of agents in cooldown for this edge.
func (b *Boundary) CooldownLen() int {
	return len(b.cooldown)
}

// Touching reports whether h currently overlaps this edge.
func (b *Boundary) Touching(h entity.Handle) bool {
	_, ok := b.touching[h]
	return ok
}

func (b *Boundary) enqueue(h entity.Handle) bool {
	if slices.Contains(b.pending, h) {
		return false
	}
	b.pending = append(b.pending, h)
	return true
}

// tick counts cooldowns down. An agent still overlapping the edge when its
// cooldown runs out is queued, since no new begin contact will arrive for it.
// Remainders within geometry.Epsilon count as expired so that n steps of dt
// end a cooldown of n*dt.
func (b *Boundary) tick(dt float64) {
	var rearm []entity.Handle
	for h, left := range b.cooldown {
		left -= dt
		if left > geometry.Epsilon {
			b.cooldown[h] = left
			continue
		}
		delete(b.cooldown, h)
		if b.Touching(h) {
			rearm = append(rearm, h)
		}
	}
	slices.Sort(rearm)
	for _, h := range rearm {
		b.enqueue(h)
	}
}

// Relocator moves an agent. It returns the positions before and after, and
// false when the handle no longer resolves.
type Relocator interface {
	Relocate(h entity.Handle, move func(geometry.Vector2D) geometry.Vector2D) (from, to geometry.Vector2D, ok bool)
}

// Teleport records one wrap for stats and logging.
type Teleport struct {
	Agent    entity.Handle
	Boundary int
	From     geometry.Vector2D
	To       geometry.Vector2D
}

// EdgeWrap owns the four boundaries and their cooldown tables.
type EdgeWrap struct {
	Cooldown   float64
	boundaries [edgeCount]*Boundary
	byHandle   map[entity.Handle]*Boundary
}

// NewEdgeWrap builds the four edges of a width x height world. handles are
// the entity handles of the edges, indexed top, right, bottom, left.
func NewEdgeWrap(width, height, cooldown float64, handles [4]entity.Handle) *EdgeWrap {
	w := &EdgeWrap{
		Cooldown: cooldown,
		byHandle: make(map[entity.Handle]*Boundary, edgeCount),
	}
	for i := range w.boundaries {
		extent := width
		if i%2 == 0 {
			extent = height
		}
		b := &Boundary{
			Index:    i,
			Handle:   handles[i],
			Extent:   extent,
			cooldown: make(map[entity.Handle]float64),
			touching: make(map[entity.Handle]struct{}),
		}
		w.boundaries[i] = b
		w.byHandle[b.Handle] = b
	}
	for i, b := range w.boundaries {
		b.paired = w.boundaries[(i+2)%edgeCount]
	}
	return w
}

// Boundary returns edge i, clockwise from the top.
func (w *EdgeWrap) Boundary(i int) *Boundary {
	return w.boundaries[i]
}

// ByHandle looks an edge up by its entity handle.
func (w *EdgeWrap) ByHandle(h entity.Handle) (*Boundary, bool) {
	b, ok := w.byHandle[h]
	return b, ok
}

// ContactBegin queues agent for teleport across the edge identified by
// boundary. It reports false when boundary is not an edge or the agent is
// in cooldown for it. The contact is remembered either way, so an agent
// still overlapping the edge when its cooldown ends is wrapped then.
func (w *EdgeWrap) ContactBegin(boundary, agent entity.Handle) bool {
	b, ok := w.byHandle[boundary]
	if !ok {
		return false
	}
	b.touching[agent] = struct{}{}
	if b.InCooldown(agent) {
		return false
	}
	return b.enqueue(agent)
}

// ContactEnd records that agent no longer overlaps the edge.
func (w *EdgeWrap) ContactEnd(boundary, agent entity.Handle) {
	if b, ok := w.byHandle[boundary]; ok {
		delete(b.touching, agent)
	}
}

// Process counts cooldowns down by dt, then teleports every queued agent
// that is still out of cooldown. A teleported agent enters cooldown on both
// the edge it crossed and the paired edge it lands next to.
func (w *EdgeWrap) Process(dt float64, r Relocator) []Teleport {
	for _, b := range w.boundaries {
		b.tick(dt)
	}
	var out []Teleport
	for _, b := range w.boundaries {
		for _, h := range b.pending {
			if b.InCooldown(h) {
				continue
			}
			from, to, ok := r.Relocate(h, b.Reflect)
			if !ok {
				continue
			}
			b.cooldown[h] = w.Cooldown
			b.paired.cooldown[h] = w.Cooldown
			out = append(out, Teleport{Agent: h, Boundary: b.Index, From: from, To: to})
		}
		b.pending = b.pending[:0]
	}
	return out
}

// Forget drops every trace of h, for agents removed from the world.
func (w *EdgeWrap) Forget(h entity.Handle) {
	for _, b := range w.boundaries {
		delete(b.cooldown, h)
		delete(b.touching, h)
		b.pending = removeHandle(b.pending, h)
	}
}

func removeHandle(hs []entity.Handle, h entity.Handle) []entity.Handle {
	out := hs[:0]
	for _, x := range hs {
		if x != h {
			out = append(out, x)
		}
	}
	return out
}
