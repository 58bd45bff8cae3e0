// Package physics is a small rigid body world tailored to the arena: bodies
// carry circle and box fixtures, fixtures report overlap through contact
// begin/end events and can be probed with ray casts. Bodies move kinematically;
// there is no collision response.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

var (
	ErrDuplicateBody = errors.New("body already exists")
	ErrUnknownBody   = errors.New("unknown body")
	ErrInvalidShape  = errors.New("invalid fixture shape")
)

// BodyType selects whether a body is moved by Step.
type BodyType uint8

const (
	StaticBody BodyType = iota
	DynamicBody
)

// ShapeType is the geometry of a fixture.
type ShapeType uint8

const (
	ShapeCircle ShapeType = iota
	ShapeBox
)

// FixtureDef describes a fixture before it is attached to a body.
//
// Group follows the usual physics engine convention: two fixtures sharing a
// negative group never touch, two sharing a positive group always touch, and
// everything else touches. Sensors report contacts like any other fixture but
// are invisible to ray casts.
type FixtureDef struct {
	Shape      ShapeType
	Radius     float64
	HalfWidth  float64
	HalfHeight float64
	Sensor     bool
	Group      int16
	// Tag is free for the owner to mark what the fixture is for.
	Tag uint8
}

// Fixture is a shape attached to a body.
type Fixture struct {
	FixtureDef
	id   uint32
	body *Body
}

// ID is unique within the world.
func (f *Fixture) ID() uint32 { return f.id }

// Body returns the owning body.
func (f *Fixture) Body() *Body { return f.body }

// Center is the fixture centre in world space.
func (f *Fixture) Center() geometry.Vector2D { return f.body.Position }

// HalfExtents returns the half size of the fixture's axis aligned bound.
// Boxes on rotated bodies grow to cover their rotation.
func (f *Fixture) HalfExtents() (float64, float64) {
	if f.Shape == ShapeCircle {
		return f.Radius, f.Radius
	}
	if f.body.Angle == 0 {
		return f.HalfWidth, f.HalfHeight
	}
	c, s := math.Abs(math.Cos(f.body.Angle)), math.Abs(math.Sin(f.body.Angle))
	return c*f.HalfWidth + s*f.HalfHeight, s*f.HalfWidth + c*f.HalfHeight
}

// Bound is the axis aligned bound of the fixture.
func (f *Fixture) Bound() orb.Bound {
	hx, hy := f.HalfExtents()
	return geometry.BoxBound(f.body.Position, hx, hy)
}

// ShouldCollide applies group filtering. Fixtures of one body never collide
// and neither do two fixtures on static bodies.
func ShouldCollide(a, b *Fixture) bool {
	if a.body == b.body {
		return false
	}
	if a.body.Type == StaticBody && b.body.Type == StaticBody {
		return false
	}
	if a.Group == b.Group && a.Group != 0 {
		return a.Group > 0
	}
	return true
}

// Overlaps reports whether the two fixtures currently touch.
func Overlaps(a, b *Fixture) bool {
	switch {
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		return geometry.CirclesIntersect(a.Center(), a.Radius, b.Center(), b.Radius)
	case a.Shape == ShapeCircle:
		return geometry.CircleIntersectsBound(a.Center(), a.Radius, b.Bound())
	case b.Shape == ShapeCircle:
		return geometry.CircleIntersectsBound(b.Center(), b.Radius, a.Bound())
	default:
		return a.Bound().Intersects(b.Bound())
	}
}

// Body is a positioned set of fixtures owned by one entity.
type Body struct {
	Handle   entity.Handle
	Kind     entity.Kind
	Type     BodyType
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	// Angle is in radians, counter-clockwise.
	Angle    float64
	fixtures []*Fixture
}

// Fixtures returns the body's fixtures in creation order.
func (b *Body) Fixtures() []*Fixture { return b.fixtures }

// World owns every body and the contact state between their fixtures.
type World struct {
	bodies      map[entity.Handle]*Body
	order       []entity.Handle
	nextFixture uint32

	grid     map[gridKey][]*Fixture
	dynamic  []*Fixture
	static   []*Fixture
	contacts map[pairKey]Contact
	touching map[pairKey]Contact
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		bodies:   make(map[entity.Handle]*Body),
		grid:     make(map[gridKey][]*Fixture),
		contacts: make(map[pairKey]Contact),
		touching: make(map[pairKey]Contact),
	}
}

// CreateBody adds a body for entity h.
func (w *World) CreateBody(h entity.Handle, kind entity.Kind, typ BodyType, pos geometry.Vector2D) (*Body, error) {
	if _, ok := w.bodies[h]; ok {
		return nil, fmt.Errorf("create body %d: %w", h, ErrDuplicateBody)
	}
	b := &Body{Handle: h, Kind: kind, Type: typ, Position: pos}
	w.bodies[h] = b
	w.order = append(w.order, h)
	return b, nil
}

// CreateFixture attaches a new fixture to b.
func (w *World) CreateFixture(b *Body, def FixtureDef) (*Fixture, error) {
	if _, ok := w.bodies[b.Handle]; !ok {
		return nil, fmt.Errorf("create fixture on %d: %w", b.Handle, ErrUnknownBody)
	}
	switch def.Shape {
	case ShapeCircle:
		if !(def.Radius > 0) {
			return nil, fmt.Errorf("circle radius %v: %w", def.Radius, ErrInvalidShape)
		}
	case ShapeBox:
		if !(def.HalfWidth > 0) || !(def.HalfHeight > 0) {
			return nil, fmt.Errorf("box %vx%v: %w", def.HalfWidth, def.HalfHeight, ErrInvalidShape)
		}
	default:
		return nil, fmt.Errorf("shape %d: %w", def.Shape, ErrInvalidShape)
	}
	w.nextFixture++
	f := &Fixture{FixtureDef: def, id: w.nextFixture, body: b}
	b.fixtures = append(b.fixtures, f)
	if b.Type == StaticBody {
		w.static = append(w.static, f)
	} else {
		w.dynamic = append(w.dynamic, f)
	}
	return f, nil
}

// Body resolves a body by entity handle.
func (w *World) Body(h entity.Handle) (*Body, bool) {
	b, ok := w.bodies[h]
	return b, ok
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int { return len(w.bodies) }

// Each visits bodies in creation order.
func (w *World) Each(fn func(*Body)) {
	for _, h := range w.order {
		fn(w.bodies[h])
	}
}

// DestroyBody removes the body of h. Contacts it was part of end, and l is
// told about them when non-nil.
func (w *World) DestroyBody(h entity.Handle, l ContactListener) error {
	b, ok := w.bodies[h]
	if !ok {
		return fmt.Errorf("destroy body %d: %w", h, ErrUnknownBody)
	}
	for _, k := range sortedKeys(w.contacts) {
		c := w.contacts[k]
		if c.A.body == b || c.B.body == b {
			delete(w.contacts, k)
			if l != nil {
				l.EndContact(c)
			}
		}
	}
	w.dynamic = dropFixtures(w.dynamic, b)
	w.static = dropFixtures(w.static, b)
	delete(w.bodies, h)
	for i, oh := range w.order {
		if oh == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

func dropFixtures(fs []*Fixture, b *Body) []*Fixture {
	out := fs[:0]
	for _, f := range fs {
		if f.body != b {
			out = append(out, f)
		}
	}
	return out
}

// SetTransform moves a body and sets its angle.
func (w *World) SetTransform(h entity.Handle, pos geometry.Vector2D, angle float64) bool {
	b, ok := w.bodies[h]
	if !ok {
		return false
	}
	b.Position = pos
	b.Angle = angle
	return true
}

// SetVelocity sets the linear velocity used by Step.
func (w *World) SetVelocity(h entity.Handle, v geometry.Vector2D) bool {
	b, ok := w.bodies[h]
	if !ok {
		return false
	}
	b.Velocity = v
	return true
}

// SetCircleRadius resizes every circle fixture on h carrying tag.
func (w *World) SetCircleRadius(h entity.Handle, tag uint8, r float64) error {
	b, ok := w.bodies[h]
	if !ok {
		return fmt.Errorf("resize %d: %w", h, ErrUnknownBody)
	}
	if !(r > 0) {
		return fmt.Errorf("circle radius %v: %w", r, ErrInvalidShape)
	}
	for _, f := range b.fixtures {
		if f.Shape == ShapeCircle && f.Tag == tag {
			f.Radius = r
		}
	}
	return nil
}

// Step advances dynamic bodies along their velocity.
func (w *World) Step(dt float64) {
	for _, h := range w.order {
		b := w.bodies[h]
		if b.Type != DynamicBody {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
}
