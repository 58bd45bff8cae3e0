package behavior

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
)

// Perception is the set of entities an agent currently senses.
// It is only ever changed by contact begin/end events and holds handles,
// never the entities themselves.
type Perception struct {
	members map[entity.Handle]entity.Kind
}

// NewPerception returns an empty perception set.
func NewPerception() *Perception {
	return &Perception{members: make(map[entity.Handle]entity.Kind)}
}

// Perceivable reports whether entities of kind k can enter a perception set.
func Perceivable(k entity.Kind) bool {
	return k == entity.KindAgent || k == entity.KindObstacle
}

// Enter adds h when it is of a perceivable kind and not already present.
// It reports whether the set changed.
func (p *Perception) Enter(h entity.Handle, k entity.Kind) bool {
	if !Perceivable(k) {
		return false
	}
	if _, ok := p.members[h]; ok {
		return false
	}
	p.members[h] = k
	return true
}

// Exit removes h. Removing an absent handle is a no-op.
func (p *Perception) Exit(h entity.Handle) {
	delete(p.members, h)
}

// Contains reports whether h is currently perceived.
func (p *Perception) Contains(h entity.Handle) bool {
	_, ok := p.members[h]
	return ok
}

// Count returns the number of perceived entities of kind k.
// KindUnknown counts everything.
func (p *Perception) Count(k entity.Kind) int {
	if k == entity.KindUnknown {
		return len(p.members)
	}
	n := 0
	for _, mk := range p.members {
		if mk == k {
			n++
		}
	}
	return n
}

// Any reports whether at least one entity of kind k is perceived.
func (p *Perception) Any(k entity.Kind) bool {
	for _, mk := range p.members {
		if k == entity.KindUnknown || mk == k {
			return true
		}
	}
	return false
}

// Handles returns the perceived handles of kind k in ascending order.
func (p *Perception) Handles(k entity.Kind) []entity.Handle {
	out := make([]entity.Handle, 0, len(p.members))
	for h, mk := range p.members {
		if k == entity.KindUnknown || mk == k {
			out = append(out, h)
		}
	}
	slices.Sort(out)
	return out
}

// Each visits perceived handles of kind k. Order is unspecified.
func (p *Perception) Each(k entity.Kind, fn func(entity.Handle)) {
	for h, mk := range p.members {
		if k == entity.KindUnknown || mk == k {
			fn(h)
		}
	}
}
