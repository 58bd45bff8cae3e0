package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tochemey/goakt/v3/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/entity"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/physics"
)

// Fixture tags, so contact routing knows which shape touched.
const (
	tagSense uint8 = iota + 1
	tagFootprint
	tagEdge
	tagObstacle
)

// Collision groups. Sense circles never touch each other nor the edges;
// footprints never touch each other.
const (
	groupSense     int16 = -1
	groupFootprint int16 = -2
	groupEdge      int16 = -1
)

const spawnAttempts = 100

// Recorder receives per tick statistics.
type Recorder interface {
	ObserveTick(stats TickStats, took time.Duration)
}

// TickStats describes what happened during one Step.
type TickStats struct {
	Tick           uint64
	Agents         int
	ContactsBegun  int
	ContactsEnded  int
	Avoiding       int
	EscapeFailures int
	Teleports      []behavior.Teleport
}

// Totals accumulates TickStats over the life of a Simulation.
type Totals struct {
	Ticks          uint64
	Teleports      uint64
	Avoidances     uint64
	EscapeFailures uint64
	ContactsBegun  uint64
}

// Simulation is the arena: it owns every entity, the physics world, the
// edge-wrap policy and the shared tunables. It is not safe for concurrent use;
// ArenaActor serialises access to it.
type Simulation struct {
	cfg    *Config
	params behavior.Params

	registry   *entity.Registry
	world      *physics.World
	wrap       *behavior.EdgeWrap
	perception map[entity.Handle]*behavior.Perception
	pilot      behavior.Pilot

	logger   log.Logger
	recorder Recorder
	tracer   trace.Tracer
	rng      *rand.Rand
	seed     uint64

	tick          uint64
	totals        Totals
	senseRadius   float64
	decisions     map[entity.Handle]behavior.Decision
	contactsEnded int
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithRecorder plugs in a metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Simulation) { s.recorder = r }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Simulation) { s.tracer = t }
}

// WithSteerer replaces the flocking steerer.
func WithSteerer(st behavior.Steerer) Option {
	return func(s *Simulation) { s.pilot.Steering = st }
}

// WithAvoider replaces the probe based avoidance.
func WithAvoider(a behavior.Avoider) Option {
	return func(s *Simulation) { s.pilot.Avoidance = a }
}

// New builds the arena described by cfg: the four wrap edges, the
// obstacles and cfg.NumBoids agents at random positions clear of obstacles.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:        cfg,
		params:     cfg.Params,
		registry:   entity.NewRegistry(),
		world:      physics.NewWorld(),
		perception: make(map[entity.Handle]*behavior.Perception),
		decisions:  make(map[entity.Handle]behavior.Decision),
		logger:     log.DiscardLogger,
		tracer:     otel.Tracer("github.com/lao-tseu-is-alive/go-boids-arena/pkg/simulation"),
		seed:       cfg.Seed,
	}
	s.pilot = behavior.Pilot{
		Steering:  behavior.Flocking{},
		Avoidance: behavior.Avoidance{Probe: s.world},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = rand.Uint64()
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.senseRadius = s.params.SenseRadius

	if err := s.createEdges(); err != nil {
		return nil, err
	}
	for i, o := range cfg.Obstacles {
		if _, err := s.AddObstacle(geometry.NewVector(o.X, o.Y), o.Width, o.Height); err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
	}
	if err := s.spawnFlock(cfg.NumBoids); err != nil {
		return nil, err
	}
	s.logger.Infof("arena %vx%v ready: %d boids, %d obstacles, seed %d",
		cfg.WorldWidth, cfg.WorldHeight, cfg.NumBoids, len(cfg.Obstacles), s.seed)
	return s, nil
}

// ============================================================================
// Construction
// ============================================================================

func (s *Simulation) createEdges() error {
	w, h, t := s.cfg.WorldWidth, s.cfg.WorldHeight, s.cfg.EdgeThickness
	// clockwise from the top; edges overlap at the corners
	layout := [4]struct {
		centre       geometry.Vector2D
		halfW, halfH float64
	}{
		{geometry.NewVector(w/2, h+t/2), w/2 + t, t / 2},
		{geometry.NewVector(w+t/2, h/2), t / 2, h/2 + t},
		{geometry.NewVector(w/2, -t/2), w/2 + t, t / 2},
		{geometry.NewVector(-t/2, h/2), t / 2, h/2 + t},
	}
	var handles [4]entity.Handle
	for i, l := range layout {
		e := entity.NewObstacle(entity.KindBoundary, l.centre, 2*l.halfW, 2*l.halfH)
		hd := s.registry.Add(e)
		body, err := s.world.CreateBody(hd, entity.KindBoundary, physics.StaticBody, l.centre)
		if err != nil {
			return err
		}
		if _, err := s.world.CreateFixture(body, physics.FixtureDef{
			Shape: physics.ShapeBox, HalfWidth: l.halfW, HalfHeight: l.halfH,
			Group: groupEdge, Tag: tagEdge,
		}); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		handles[i] = hd
	}
	s.wrap = behavior.NewEdgeWrap(w, h, s.cfg.WrapCooldown, handles)
	return nil
}

// AddObstacle places a solid rectangle centred on pos.
func (s *Simulation) AddObstacle(pos geometry.Vector2D, width, height float64) (entity.Handle, error) {
	e := entity.NewObstacle(entity.KindObstacle, pos, width, height)
	h := s.registry.Add(e)
	body, err := s.world.CreateBody(h, entity.KindObstacle, physics.StaticBody, pos)
	if err != nil {
		s.registry.Remove(h)
		return entity.NoHandle, err
	}
	if _, err := s.world.CreateFixture(body, physics.FixtureDef{
		Shape: physics.ShapeBox, HalfWidth: width / 2, HalfHeight: height / 2, Tag: tagObstacle,
	}); err != nil {
		_ = s.world.DestroyBody(h, nil)
		s.registry.Remove(h)
		return entity.NoHandle, err
	}
	return h, nil
}

// AddAgent places an agent at pos heading headingDeg degrees, at cruise speed.
func (s *Simulation) AddAgent(pos geometry.Vector2D, headingDeg float64) (entity.Handle, error) {
	e := entity.NewAgent(pos, headingDeg, s.params.CruiseSpeed, s.cfg.BoidWidth, s.cfg.BoidHeight)
	h := s.registry.Add(e)
	body, err := s.world.CreateBody(h, entity.KindAgent, physics.DynamicBody, pos)
	if err != nil {
		s.registry.Remove(h)
		return entity.NoHandle, err
	}
	body.Angle = bodyAngle(e)
	body.Velocity = e.Velocity()
	defs := []physics.FixtureDef{
		{Shape: physics.ShapeCircle, Radius: s.senseRadius, Sensor: true, Group: groupSense, Tag: tagSense},
		{Shape: physics.ShapeBox, HalfWidth: e.Width / 2, HalfHeight: e.Height / 2, Sensor: true, Group: groupFootprint, Tag: tagFootprint},
	}
	for _, def := range defs {
		if _, err := s.world.CreateFixture(body, def); err != nil {
			_ = s.world.DestroyBody(h, nil)
			s.registry.Remove(h)
			return entity.NoHandle, err
		}
	}
	s.perception[h] = behavior.NewPerception()
	return h, nil
}

// RemoveAgent destroys an agent. Other agents stop perceiving it at once.
func (s *Simulation) RemoveAgent(h entity.Handle) error {
	e, ok := s.registry.Get(h)
	if !ok || e.Kind != entity.KindAgent {
		return fmt.Errorf("remove agent %d: %w", h, physics.ErrUnknownBody)
	}
	if err := s.world.DestroyBody(h, s); err != nil {
		return err
	}
	s.registry.Remove(h)
	delete(s.perception, h)
	delete(s.decisions, h)
	s.wrap.Forget(h)
	return nil
}

func (s *Simulation) spawnFlock(n int) error {
	for i := 0; i < n; i++ {
		pos, ok := s.freeSpot()
		if !ok {
			return fmt.Errorf("%w: no free spot for boid %d after %d attempts", ErrInvalidConfig, i, spawnAttempts)
		}
		if _, err := s.AddAgent(pos, s.rng.Float64()*360); err != nil {
			return err
		}
	}
	return nil
}

// freeSpot draws random positions until one is clear of every obstacle.
func (s *Simulation) freeSpot() (geometry.Vector2D, bool) {
	pad := math.Max(s.cfg.BoidWidth, s.cfg.BoidHeight)
	for range spawnAttempts {
		p := geometry.NewVector(s.rng.Float64()*s.cfg.WorldWidth, s.rng.Float64()*s.cfg.WorldHeight)
		free := true
		s.registry.Each(entity.KindObstacle, func(o *entity.Entity) {
			b := geometry.BoxBound(o.Pos, o.Width/2, o.Height/2).Pad(pad)
			if b.Contains(p.ToPoint()) {
				free = false
			}
		})
		if free {
			return p, true
		}
	}
	return geometry.Zero, false
}

// bodyAngle orients the footprint box so its height runs along the heading.
func bodyAngle(e *entity.Entity) float64 {
	return e.Heading.Angle() - math.Pi/2
}

// ============================================================================
// Tick
// ============================================================================

// Step advances the arena by dt seconds in a fixed order: contacts, then
// every agent's decision from last tick's state, then heading commits,
// integration and finally edge wrapping.
func (s *Simulation) Step(ctx context.Context, dt float64) TickStats {
	start := time.Now()
	_, span := s.tracer.Start(ctx, "simulation.Step", trace.WithAttributes(
		attribute.Int64("tick", int64(s.tick+1)),
		attribute.Float64("dt", dt),
	))
	defer span.End()

	s.tick++
	stats := TickStats{Tick: s.tick}

	// 1. Contacts: perception sets and pending edge contacts
	s.syncSenseRadius()
	s.contactsEnded = 0
	stats.ContactsBegun = s.world.UpdateContacts(s)
	stats.ContactsEnded = s.contactsEnded

	// 2. Decide, reading only state committed last tick
	agents := make([]*entity.Entity, 0, len(s.perception))
	s.registry.Each(entity.KindAgent, func(a *entity.Entity) { agents = append(agents, a) })
	clear(s.decisions)
	for _, a := range agents {
		d := s.pilot.Decide(a, s.perception[a.Handle], s.Neighbours(a.Handle), &s.params)
		s.decisions[a.Handle] = d
		if d.Escape.Required {
			stats.Avoiding++
			if !d.Escape.Found {
				stats.EscapeFailures++
				s.logger.Debugf("boid %d boxed in at %s, holding course", a.Handle, a.Pos)
			}
		}
	}

	// 3. Commit
	for _, a := range agents {
		behavior.ApplyDesiredHeading(a, s.decisions[a.Handle].Heading, &s.params, dt)
		s.world.SetTransform(a.Handle, a.Pos, bodyAngle(a))
		s.world.SetVelocity(a.Handle, a.Velocity())
	}

	// 4. Integrate
	s.world.Step(dt)
	for _, a := range agents {
		if b, ok := s.world.Body(a.Handle); ok {
			a.Pos = b.Position
		}
	}

	// 5. Edge wrap
	stats.Teleports = s.wrap.Process(dt, s)
	for _, t := range stats.Teleports {
		s.logger.Debugf("boid %d wrapped across edge %d: %s -> %s", t.Agent, t.Boundary, t.From, t.To)
	}

	stats.Agents = len(agents)
	s.totals.Ticks++
	s.totals.Teleports += uint64(len(stats.Teleports))
	s.totals.Avoidances += uint64(stats.Avoiding)
	s.totals.EscapeFailures += uint64(stats.EscapeFailures)
	s.totals.ContactsBegun += uint64(stats.ContactsBegun)

	span.SetAttributes(
		attribute.Int("agents", stats.Agents),
		attribute.Int("teleports", len(stats.Teleports)),
		attribute.Int("avoiding", stats.Avoiding),
	)
	if s.recorder != nil {
		s.recorder.ObserveTick(stats, time.Since(start))
	}
	return stats
}

func (s *Simulation) syncSenseRadius() {
	if s.params.SenseRadius == s.senseRadius {
		return
	}
	s.senseRadius = s.params.SenseRadius
	for h := range s.perception {
		if err := s.world.SetCircleRadius(h, tagSense, s.senseRadius); err != nil {
			s.logger.Warnf("resize sense circle of boid %d: %v", h, err)
		}
	}
}

// ============================================================================
// Collaborator callbacks
// ============================================================================

// BeginContact implements physics.ContactListener.
func (s *Simulation) BeginContact(c physics.Contact) {
	s.route(c.A, c.B, true)
	s.route(c.B, c.A, true)
}

// EndContact implements physics.ContactListener.
func (s *Simulation) EndContact(c physics.Contact) {
	s.contactsEnded++
	s.route(c.A, c.B, false)
	s.route(c.B, c.A, false)
}

// route applies a contact as seen from self: a sense circle feeds the
// owner's perception, an edge touching a footprint queues a wrap.
func (s *Simulation) route(self, other *physics.Fixture, begin bool) {
	switch self.Tag {
	case tagSense:
		p, ok := s.perception[self.Body().Handle]
		if !ok {
			return
		}
		if begin {
			p.Enter(other.Body().Handle, other.Body().Kind)
		} else {
			p.Exit(other.Body().Handle)
		}
	case tagEdge:
		if other.Tag != tagFootprint {
			return
		}
		if begin {
			s.wrap.ContactBegin(self.Body().Handle, other.Body().Handle)
		} else {
			s.wrap.ContactEnd(self.Body().Handle, other.Body().Handle)
		}
	}
}

// Relocate implements behavior.Relocator.
func (s *Simulation) Relocate(h entity.Handle, move func(geometry.Vector2D) geometry.Vector2D) (geometry.Vector2D, geometry.Vector2D, bool) {
	e, ok := s.registry.Get(h)
	if !ok || e.Kind != entity.KindAgent {
		return geometry.Zero, geometry.Zero, false
	}
	from := e.Pos
	e.Pos = move(from)
	s.world.SetTransform(h, e.Pos, bodyAngle(e))
	return from, e.Pos, true
}

// ============================================================================
// Accessors
// ============================================================================

// Neighbours resolves the agents perceived by h, in handle order.
func (s *Simulation) Neighbours(h entity.Handle) []*entity.Entity {
	p, ok := s.perception[h]
	if !ok {
		return nil
	}
	handles := p.Handles(entity.KindAgent)
	out := make([]*entity.Entity, 0, len(handles))
	for _, nh := range handles {
		if e, ok := s.registry.Get(nh); ok {
			out = append(out, e)
		}
	}
	return out
}

// Perception returns the perception set of agent h.
func (s *Simulation) Perception(h entity.Handle) (*behavior.Perception, bool) {
	p, ok := s.perception[h]
	return p, ok
}

// Entity resolves any entity.
func (s *Simulation) Entity(h entity.Handle) (*entity.Entity, bool) {
	return s.registry.Get(h)
}

// Agents lists agent handles in creation order.
func (s *Simulation) Agents() []entity.Handle {
	out := make([]entity.Handle, 0, len(s.perception))
	s.registry.Each(entity.KindAgent, func(e *entity.Entity) { out = append(out, e.Handle) })
	return out
}

// EdgeWrap exposes the wrap policy, mostly for inspection.
func (s *Simulation) EdgeWrap() *behavior.EdgeWrap { return s.wrap }

// Params returns a copy of the current tunables.
func (s *Simulation) Params() behavior.Params { return s.params }

// SetParam changes one tunable by name.
func (s *Simulation) SetParam(name string, v float64) error {
	return s.params.Set(name, v)
}

// Config returns the configuration the arena was built from.
func (s *Simulation) Config() *Config { return s.cfg }

// Seed is the seed actually used for spawning.
func (s *Simulation) Seed() uint64 { return s.seed }

// Tick is the number of completed steps.
func (s *Simulation) Tick() uint64 { return s.tick }

// Totals returns the accumulated statistics.
func (s *Simulation) Totals() Totals { return s.totals }
