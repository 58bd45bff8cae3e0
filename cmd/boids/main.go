// Command boids opens the arena in a window with a live tuning panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tochemey/goakt/v3/actor"

	"github.com/lao-tseu-is-alive/go-boids-arena/internal/game"
	"github.com/lao-tseu-is-alive/go-boids-arena/internal/observability"
	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/simulation"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to the arena JSON configuration")
	schemaPath := flag.String("schema", "", "Path to a JSON schema; empty uses the embedded one")
	seed := flag.Uint64("seed", 0, "Overrides the configured seed when non-zero")
	numBoids := flag.Int("boids", 0, "Overrides the configured flock size when positive")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; empty disables")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger, err := observability.NewLogger(*logLevel, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fatal := func(err error) {
		logger.Errorf("boids: %v", err)
		os.Exit(1)
	}
	ctx := context.Background()

	cfg, err := simulation.LoadConfig(*configPath, *schemaPath)
	if err != nil {
		fatal(err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *numBoids > 0 {
		cfg.NumBoids = *numBoids
	}

	collector, err := observability.NewSimCollector(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(err)
	}
	metricsSrv := observability.ServeMetrics(*metricsAddr, collector, logger)
	defer observability.ShutdownServer(metricsSrv, logger)

	sim, err := simulation.New(cfg, simulation.WithLogger(logger), simulation.WithRecorder(collector))
	if err != nil {
		fatal(err)
	}

	system, err := actor.NewActorSystem("BoidsArena", actor.WithLogger(logger))
	if err != nil {
		fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	g, err := game.NewGame(ctx, system, sim, logger)
	if err != nil {
		fatal(err)
	}

	ebiten.SetWindowSize(g.ScreenSize())
	ebiten.SetWindowTitle(fmt.Sprintf("Boids Arena (seed %d)", sim.Seed()))
	ebiten.SetTPS(cfg.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		logger.Errorf("game loop: %v", err)
	}
}
