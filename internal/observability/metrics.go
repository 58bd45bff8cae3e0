package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/simulation"
)

// SimCollector bundles Prometheus metrics for the arena tick loop. It
// implements simulation.Recorder.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Ticks          prometheus.Counter
	TickDurations  prometheus.Histogram
	Agents         prometheus.Gauge
	Teleports      *prometheus.CounterVec
	Avoidances     prometheus.Counter
	EscapeFailures prometheus.Counter
	ContactsBegun  prometheus.Counter
}

var _ simulation.Recorder = (*SimCollector)(nil)

// edgeNames label teleports by the edge crossed, clockwise from the top.
var edgeNames = [4]string{"top", "right", "bottom", "left"}

// NewSimCollector registers arena metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boids_ticks_total",
		Help: "Total number of simulation ticks.",
	}), "boids_ticks_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "boids_tick_duration_seconds",
		Help:    "Wall time spent in one simulation tick.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	}), "boids_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	agents, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "boids_agents",
		Help: "Current number of boids in the arena.",
	}), "boids_agents")
	if err != nil {
		return nil, err
	}
	teleports, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "boids_teleports_total",
		Help: "Boids wrapped to the opposite edge, labeled by the edge crossed.",
	}, []string{"edge"}), "boids_teleports_total")
	if err != nil {
		return nil, err
	}
	avoidances, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boids_avoidance_overrides_total",
		Help: "Boid ticks where obstacle avoidance replaced flocking.",
	}), "boids_avoidance_overrides_total")
	if err != nil {
		return nil, err
	}
	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boids_escape_failures_total",
		Help: "Boid ticks where no clear escape heading was found.",
	}), "boids_escape_failures_total")
	if err != nil {
		return nil, err
	}
	contacts, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "boids_contacts_begun_total",
		Help: "Fixture contacts begun in the broadphase.",
	}), "boids_contacts_begun_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:       gatherer,
		Ticks:          ticks,
		TickDurations:  durations,
		Agents:         agents,
		Teleports:      teleports,
		Avoidances:     avoidances,
		EscapeFailures: failures,
		ContactsBegun:  contacts,
	}, nil
}

// ObserveTick records one tick.
func (c *SimCollector) ObserveTick(stats simulation.TickStats, took time.Duration) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDurations.Observe(took.Seconds())
	c.Agents.Set(float64(stats.Agents))
	for _, t := range stats.Teleports {
		name := "unknown"
		if t.Boundary >= 0 && t.Boundary < len(edgeNames) {
			name = edgeNames[t.Boundary]
		}
		c.Teleports.WithLabelValues(name).Inc()
	}
	c.Avoidances.Add(float64(stats.Avoiding))
	c.EscapeFailures.Add(float64(stats.EscapeFailures))
	c.ContactsBegun.Add(float64(stats.ContactsBegun))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
