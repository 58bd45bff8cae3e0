// Command simulation runs the boids arena without a window. It drives the
// arena actor at the configured tick rate, or as fast as possible, and
// prints the running totals when done.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/lao-tseu-is-alive/go-boids-arena/internal/observability"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/simulation"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to the arena JSON configuration")
	schemaPath := flag.String("schema", "", "Path to a JSON schema; empty uses the embedded one")
	ticks := flag.Int("ticks", 600, "Number of ticks to run; 0 runs until interrupted")
	realtime := flag.Bool("realtime", false, "Pace ticks at the configured tick rate")
	seed := flag.Uint64("seed", 0, "Overrides the configured seed when non-zero")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics; empty disables")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger, err := observability.NewLogger(*logLevel, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(*configPath, *schemaPath, *ticks, *realtime, *seed, *metricsAddr, logger); err != nil {
		logger.Errorf("boids arena: %v", err)
		os.Exit(1)
	}
}

func run(configPath, schemaPath string, ticks int, realtime bool, seed uint64, metricsAddr string, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 1. Configuration
	cfg, err := simulation.LoadConfig(configPath, schemaPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	// 2. Observability
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), logger)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	collector, err := observability.NewSimCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	metricsSrv := observability.ServeMetrics(metricsAddr, collector, logger)
	defer observability.ShutdownServer(metricsSrv, logger)

	// 3. Arena and actor system
	sim, err := simulation.New(cfg, simulation.WithLogger(logger), simulation.WithRecorder(collector))
	if err != nil {
		return err
	}
	system, err := actor.NewActorSystem("BoidsArena", actor.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("start actor system: %w", err)
	}
	defer func() { _ = system.Stop(context.Background()) }()

	pid, err := system.Spawn(ctx, "arena", simulation.NewArenaActor(sim, nil))
	if err != nil {
		return fmt.Errorf("spawn arena: %w", err)
	}

	// 4. Tick loop
	tickLen := time.Duration(cfg.TickSeconds() * float64(time.Second))
	var pace <-chan time.Time
	if realtime || ticks == 0 {
		ticker := time.NewTicker(tickLen)
		defer ticker.Stop()
		pace = ticker.C
	}
	logger.Infof("running %d ticks of %v (seed %d)", ticks, tickLen, sim.Seed())

	start := time.Now()
	sent := 0
loop:
	for ticks == 0 || sent < ticks {
		if pace != nil {
			select {
			case <-ctx.Done():
				break loop
			case <-pace:
			}
		} else if ctx.Err() != nil {
			break
		}
		if err := actor.Tell(ctx, pid, durationpb.New(tickLen)); err != nil {
			return fmt.Errorf("send tick: %w", err)
		}
		sent++
	}

	// 5. Totals, answered once every queued tick has run
	reply, err := actor.Ask(context.Background(), pid, &emptypb.Empty{}, time.Minute)
	if err != nil {
		return fmt.Errorf("query totals: %w", err)
	}
	out, err := protojson.MarshalOptions{Multiline: true}.Marshal(reply)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	logger.Infof("%d ticks in %v", sent, time.Since(start).Round(time.Millisecond))
	fmt.Println(string(out))
	return nil
}
