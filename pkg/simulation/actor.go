package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ArenaActor owns the Simulation. Every tick, parameter change and stats
// query goes through its mailbox, so the arena only ever runs on one
// goroutine at a time.
//
// Messages:
//   - *durationpb.Duration: advance by that much (zero or negative means one
//     configured tick), then push a Snapshot to the UI channel
//   - *structpb.Struct: named tunable updates
//   - *emptypb.Empty: replies with a *structpb.Struct of running totals
type ArenaActor struct {
	sim        *Simulation
	snapshotCh chan<- *Snapshot

	// --- Benchmark Stats ---
	tickCount     int
	teleportCount int
	lastLogTime   time.Time
}

var _ actor.Actor = (*ArenaActor)(nil)

// NewArenaActor wraps sim. snapshotCh may be nil for headless runs.
func NewArenaActor(sim *Simulation, snapshotCh chan<- *Snapshot) *ArenaActor {
	return &ArenaActor{
		sim:         sim,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (a *ArenaActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Arena %s starting with %d boids", ctx.ActorName(), len(a.sim.Agents()))
	return nil
}

func (a *ArenaActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("Arena started, seed %d", a.sim.Seed())

	// 1. The main simulation step (driven by the game loop or the headless runner)
	case *durationpb.Duration:
		dt := msg.AsDuration().Seconds()
		if dt <= 0 {
			dt = a.sim.Config().TickSeconds()
		}
		stats := a.sim.Step(ctx.Context(), dt)
		a.tickCount++
		a.teleportCount += len(stats.Teleports)
		a.logBenchmarks(ctx)
		a.pushSnapshot()

	// 2. Slider and checkbox updates from the UI
	case *structpb.Struct:
		if err := a.sim.ApplyParams(msg); err != nil {
			ctx.Logger().Warnf("rejected parameter update: %v", err)
		}

	// 3. Stats query
	case *emptypb.Empty:
		reply, err := a.statsStruct()
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(reply)

	default:
		ctx.Unhandled()
	}
}

func (a *ArenaActor) PostStop(ctx *actor.Context) error {
	t := a.sim.Totals()
	ctx.ActorSystem().Logger().Infof("Arena %s stopped after %d ticks (%d teleports, %d avoidances)",
		ctx.ActorName(), t.Ticks, t.Teleports, t.Avoidances)
	return nil
}

func (a *ArenaActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(a.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | Teleports: %d | Boids: %d",
			a.tickCount, a.teleportCount, len(a.sim.Agents()))
		a.tickCount = 0
		a.teleportCount = 0
		a.lastLogTime = time.Now()
	}
}

func (a *ArenaActor) pushSnapshot() {
	if a.snapshotCh == nil {
		return
	}
	select {
	case a.snapshotCh <- a.sim.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (a *ArenaActor) statsStruct() (*structpb.Struct, error) {
	t := a.sim.Totals()
	return structpb.NewStruct(map[string]any{
		"tick":           t.Ticks,
		"agents":         len(a.sim.Agents()),
		"teleports":      t.Teleports,
		"avoidances":     t.Avoidances,
		"escapeFailures": t.EscapeFailures,
		"contactsBegun":  t.ContactsBegun,
	})
}
