package entity

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
)

// Handle is the stable identity of an entity inside a Registry.
// The zero Handle is never issued.
type Handle uint32

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Kind tags what an entity is. Behaviours switch on it instead of on Go types.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAgent
	KindObstacle
	KindBoundary
)

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindObstacle:
		return "obstacle"
	case KindBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Entity is the plain data record shared by agents, obstacles and boundary
// edges. Behaviour lives in free functions that read the Kind.
type Entity struct {
	Handle Handle
	Kind   Kind
	Pos    geometry.Vector2D
	// Heading is a unit vector; Speed is the constant cruise speed.
	Heading geometry.Vector2D
	Speed   float64
	Width   float64
	Height  float64
}

// NewAgent creates an agent record heading at headingDeg degrees.
func NewAgent(pos geometry.Vector2D, headingDeg, speed, width, height float64) *Entity {
	return &Entity{
		Kind:    KindAgent,
		Pos:     pos,
		Heading: geometry.FromDegrees(headingDeg),
		Speed:   speed,
		Width:   width,
		Height:  height,
	}
}

// NewObstacle creates a static obstacle record centred on pos.
func NewObstacle(kind Kind, pos geometry.Vector2D, width, height float64) *Entity {
	return &Entity{
		Kind:   kind,
		Pos:    pos,
		Width:  width,
		Height: height,
	}
}

// Velocity is Speed along Heading.
func (e *Entity) Velocity() geometry.Vector2D {
	return e.Heading.Mul(e.Speed)
}

// HeadingDeg returns the heading in degrees, counter-clockwise from +X.
func (e *Entity) HeadingDeg() float64 {
	return e.Heading.AngleDeg()
}

// SetHeading points the entity along dir, keeping its speed.
// A zero dir leaves the heading untouched.
func (e *Entity) SetHeading(dir geometry.Vector2D) {
	if dir.IsZero() {
		return
	}
	e.Heading = dir.Normalize()
}

// DistanceTo gives the cartesian distance between the two entity centres.
func (e *Entity) DistanceTo(other *Entity) float64 {
	return e.Pos.DistanceTo(other.Pos)
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d@%s", e.Kind, e.Handle, e.Pos)
}
