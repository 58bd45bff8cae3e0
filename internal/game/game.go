// Package game renders the arena with Ebiten and turns panel input into
// messages for the arena actor.
package game

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/ui"
)

const (
	panelWidth = 280
	// margin shows a strip of the wrap edges around the world, in world units.
	margin = 0.25
	// forceScale is the drawn length of a unit force, in world units.
	forceScale = 0.4
)

// whiteImage is the texture for vertex coloured triangles, created with the
// first Game.
var whiteImage *ebiten.Image

var (
	colorBackground = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	colorEdge       = color.RGBA{R: 70, G: 70, B: 90, A: 255}
	colorObstacle   = color.RGBA{R: 150, G: 110, B: 60, A: 255}
	colorSense      = color.RGBA{R: 50, G: 100, B: 255, A: 60}
	colorSeparation = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	colorMatch      = color.RGBA{R: 80, G: 255, B: 80, A: 255}
	colorCohesion   = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	colorRayClear   = color.RGBA{R: 120, G: 255, B: 120, A: 160}
	colorRayBlocked = color.RGBA{R: 255, G: 60, B: 60, A: 200}
)

// Viewport maps world units (y up) to screen pixels (y down).
type Viewport struct {
	Scale       float64
	Margin      float64
	WorldWidth  float64
	WorldHeight float64
}

// ToScreen converts a world point to pixel coordinates.
func (v Viewport) ToScreen(p geometry.Vector2D) (float32, float32) {
	x := (p.X + v.Margin) * v.Scale
	y := (v.WorldHeight + v.Margin - p.Y) * v.Scale
	return float32(x), float32(y)
}

// Size is the pixel size of the world area including the margin.
func (v Viewport) Size() (int, int) {
	w := (v.WorldWidth + 2*v.Margin) * v.Scale
	h := (v.WorldHeight + 2*v.Margin) * v.Scale
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// Rect returns the top left corner and pixel size of a box centred on c.
func (v Viewport) Rect(c geometry.Vector2D, width, height float64) (x, y, w, h float32) {
	x, y = v.ToScreen(geometry.NewVector(c.X-width/2, c.Y+height/2))
	return x, y, float32(width * v.Scale), float32(height * v.Scale)
}

// Game implements ebiten.Game on top of an ArenaActor.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	arenaPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	logger     log.Logger

	cfg  *simulation.Config
	view Viewport

	// UI Controls
	panel      *ui.UIPanel
	sliders    map[string]*ui.Slider
	checkboxes map[string]*ui.Checkbox
	paused     bool
	stepOnce   bool

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame spawns the arena actor around sim and builds the tuning panel.
func NewGame(ctx context.Context, system actor.ActorSystem, sim *simulation.Simulation, logger log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.DiscardLogger
	}
	cfg := sim.Config()
	initial, p := sim.Snapshot(), sim.Params()
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}

	// 1. Create the snapshot channel (buffered so the actor never blocks)
	snapshotCh := make(chan *simulation.Snapshot, 10)

	// 2. Spawn the arena actor, it owns sim from here on and pushes a
	// snapshot after every tick
	pid, err := system.Spawn(ctx, "arena", simulation.NewArenaActor(sim, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("spawn arena: %w", err)
	}

	view := Viewport{
		Scale:       cfg.PixelsPerUnit,
		Margin:      margin,
		WorldWidth:  cfg.WorldWidth,
		WorldHeight: cfg.WorldHeight,
	}
	worldW, worldH := view.Size()

	g := &Game{
		ctx:        ctx,
		System:     system,
		arenaPID:   pid,
		snapshotCh: snapshotCh,
		lastState:  initial,
		logger:     logger,
		cfg:        cfg,
		view:       view,
		sliders:    make(map[string]*ui.Slider),
		checkboxes: make(map[string]*ui.Checkbox),
	}

	// 3. Initialize UI Panel with the live tunables
	panel := ui.NewUIPanel("Boids Arena", float64(worldW), 0, panelWidth, float64(worldH))

	panel.AddSection("Simulation")
	panel.AddButton("Pause / Resume (space)", func() { g.paused = !g.paused })
	panel.AddButton("Single step", func() { g.stepOnce = true })
	panel.EndSection()

	panel.AddSection("Flocking Weights")
	g.sliders["separationWeight"] = panel.AddSlider("Separation", 0, 5, p.SeparationWeight)
	g.sliders["velocityMatchWeight"] = panel.AddSlider("Velocity Match", 0, 5, p.VelocityMatchWeight)
	g.sliders["cohesionWeight"] = panel.AddSlider("Cohesion", 0, 5, p.CohesionWeight)
	panel.EndSection()

	panel.AddSection("Avoidance & Turning")
	g.sliders["initialEscapeAngle"] = panel.AddSlider("Initial Escape Angle", 0, 90, p.InitialEscapeAngle)
	g.sliders["escapeSteps"] = panel.AddIntSlider("Escape Steps", 1, 24, p.EscapeSteps)
	g.sliders["turnRate"] = panel.AddSlider("Turn Rate (deg/s)", 0, 720, p.TurnRate)
	g.sliders["senseRadius"] = panel.AddSlider("Sense Radius", 0.1, 3, p.SenseRadius)
	panel.EndSection()

	panel.AddSection("Visualization")
	g.checkboxes["drawSeparation"] = panel.AddCheckbox("Separation force", p.DrawSeparation)
	g.checkboxes["drawVelocityMatch"] = panel.AddCheckbox("Velocity match force", p.DrawVelocityMatch)
	g.checkboxes["drawCohesion"] = panel.AddCheckbox("Cohesion force", p.DrawCohesion)
	g.checkboxes["drawAvoidance"] = panel.AddCheckbox("Avoidance probes", p.DrawAvoidance)
	g.checkboxes["drawPhysics"] = panel.AddCheckbox("Sense circles", p.DrawPhysics)
	panel.EndSection()

	g.panel = panel
	return g, nil
}

// ScreenSize is the window size holding the world and the panel.
func (g *Game) ScreenSize() (int, int) {
	w, h := g.view.Size()
	return w + panelWidth, h
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	// 2. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	// 3. Send changed tunables, they apply before the next tick
	if update := g.changedParams(); update != nil {
		if err := actor.Tell(g.ctx, g.arenaPID, update); err != nil {
			g.logger.Warnf("send parameter update: %v", err)
		}
	}

	// 4. Trigger Simulation Step
	if !g.paused || g.stepOnce {
		g.stepOnce = false
		tick := durationpb.New(time.Duration(g.cfg.TickSeconds() * float64(time.Second)))
		if err := actor.Tell(g.ctx, g.arenaPID, tick); err != nil {
			return fmt.Errorf("send tick: %w", err)
		}
	}
	return nil
}

func (g *Game) changedParams() *structpb.Struct {
	changed := make(map[string]any)
	for name, s := range g.sliders {
		if s.Changed() {
			changed[name] = s.Value
		}
	}
	for name, c := range g.checkboxes {
		if c.Changed() {
			changed[name] = c.Value
		}
	}
	if len(changed) == 0 {
		return nil
	}
	update, err := structpb.NewStruct(changed)
	if err != nil {
		g.logger.Warnf("encode parameter update: %v", err)
		return nil
	}
	return update
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(colorBackground)
	snap := g.lastState
	if snap != nil {
		// 1. Static geometry
		for _, e := range snap.Edges {
			x, y, w, h := g.view.Rect(e.Pos, e.Width, e.Height)
			vector.FillRect(screen, x, y, w, h, colorEdge, false)
		}
		for _, o := range snap.Obstacles {
			x, y, w, h := g.view.Rect(o.Pos, o.Width, o.Height)
			vector.FillRect(screen, x, y, w, h, colorObstacle, true)
		}

		// 2. Agents with their debug overlays
		for i := range snap.Agents {
			a := &snap.Agents[i]
			g.drawOverlays(screen, a, &snap.Params)
			g.drawBoid(screen, a)
		}
	}

	// 3. Draw UI Panel
	g.panel.Draw(screen)

	// 4. Stats in the top left corner of the world
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.updateAvg+g.drawAvg)
	if snap != nil {
		msg += fmt.Sprintf("\n\nTick: %d\nBoids: %d\nTeleports: %d\nAvoidances: %d",
			snap.Tick, len(snap.Agents), snap.Totals.Teleports, snap.Totals.Avoidances)
	}
	if g.paused {
		msg += "\n\nPAUSED"
	}
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

func (g *Game) drawOverlays(screen *ebiten.Image, a *simulation.AgentView, p *behavior.Params) {
	cx, cy := g.view.ToScreen(a.Pos)
	if p.DrawPhysics {
		vector.StrokeCircle(screen, cx, cy, float32(p.SenseRadius*g.view.Scale), 1, colorSense, true)
	}
	if p.DrawAvoidance {
		for _, r := range a.Rays {
			clr := colorRayClear
			if r.Blocked {
				clr = colorRayBlocked
			}
			x0, y0 := g.view.ToScreen(r.From)
			x1, y1 := g.view.ToScreen(r.To)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}
	}
	force := func(on bool, f geometry.Vector2D, clr color.Color) {
		if !on || f.IsZero() {
			return
		}
		x1, y1 := g.view.ToScreen(a.Pos.Add(f.Mul(forceScale)))
		vector.StrokeLine(screen, cx, cy, x1, y1, 1, clr, true)
	}
	force(p.DrawSeparation, a.Forces.Separation, colorSeparation)
	force(p.DrawVelocityMatch, a.Forces.VelocityMatch, colorMatch)
	force(p.DrawCohesion, a.Forces.Cohesion, colorCohesion)
}

// drawBoid draws the agent footprint as a triangle pointing along its heading.
func (g *Game) drawBoid(screen *ebiten.Image, a *simulation.AgentView) {
	heading := geometry.FromDegrees(a.HeadingDeg)
	side := geometry.NewVector(-heading.Y, heading.X)
	tip := a.Pos.Add(heading.Mul(a.Height / 2))
	back := a.Pos.Sub(heading.Mul(a.Height / 2))
	left := back.Add(side.Mul(a.Width / 2))
	right := back.Sub(side.Mul(a.Width / 2))

	var r, gr, b float32 = 0.4, 0.8, 1
	if a.Avoiding {
		r, gr, b = 1, 0.6, 0.2
	}
	vertex := func(p geometry.Vector2D) ebiten.Vertex {
		x, y := g.view.ToScreen(p)
		return ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: b, ColorA: 1,
		}
	}
	vertices := []ebiten.Vertex{vertex(tip), vertex(left), vertex(right)}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(w, h int) (int, int) { return g.ScreenSize() }
