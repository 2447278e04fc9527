package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RopeCollector bundles Prometheus metrics for instrument lifecycles, path
// edge registrations, placement rejections and live physics objects.
type RopeCollector struct {
	gatherer prometheus.Gatherer

	Spawned     *prometheus.CounterVec
	Built       *prometheus.CounterVec
	Severed     *prometheus.CounterVec
	Terminated  *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	BuildTime   *prometheus.HistogramVec
	PathChanges *prometheus.CounterVec

	PathEdges   prometheus.Gauge
	LiveChains  prometheus.Gauge
	LiveBodies  prometheus.Gauge
	Instruments prometheus.Gauge
}

// NewRopeCollector registers rope metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewRopeCollector(reg prometheus.Registerer) (*RopeCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &RopeCollector{gatherer: gatherer}
	var err error

	counters := []struct {
		dst    **prometheus.CounterVec
		name   string
		help   string
		labels []string
	}{
		{&c.Spawned, "rope_instruments_spawned_total", "Instruments spawned after passing placement validation, by kind.", []string{"kind"}},
		{&c.Built, "rope_instruments_built_total", "Instruments that reached the built state, by kind.", []string{"kind"}},
		{&c.Severed, "rope_instruments_severed_total", "Grapple ropes frozen without registration after owner death.", []string{"kind"}},
		{&c.Terminated, "rope_instruments_terminated_total", "Instruments terminated and released, by kind.", []string{"kind"}},
		{&c.Rejections, "rope_placement_rejections_total", "Placement requests rejected by validation, by kind and reason.", []string{"kind", "reason"}},
		{&c.PathChanges, "rope_path_edge_changes_total", "Path edge registrations and removals, by edge type and operation.", []string{"edge_type", "op"}},
	}
	for _, def := range counters {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: def.name, Help: def.help}, def.labels)
		if *def.dst, err = registerCounterVec(reg, vec, def.name); err != nil {
			return nil, err
		}
	}

	buildTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rope_build_duration_seconds",
		Help:    "Simulated time from spawn to built, by kind.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"kind"})
	if c.BuildTime, err = registerHistogramVec(reg, buildTime, "rope_build_duration_seconds"); err != nil {
		return nil, err
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.PathEdges, "rope_path_edges", "Current number of path edges registered by instruments."},
		{&c.LiveChains, "rope_live_chains", "Current number of dynamic chains in the physics world."},
		{&c.LiveBodies, "rope_live_bodies", "Current number of static collision bodies in the physics world."},
		{&c.Instruments, "rope_instruments", "Current number of instruments owned by the system."},
	}
	for _, def := range gauges {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: def.name, Help: def.help})
		if *def.dst, err = registerGauge(reg, g, def.name); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *RopeCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// InstrumentSpawned records a spawn of the given kind.
func (c *RopeCollector) InstrumentSpawned(kind string) {
	if c == nil {
		return
	}
	c.Spawned.WithLabelValues(kind).Inc()
}

// InstrumentBuilt records completion and the simulated time it took.
func (c *RopeCollector) InstrumentBuilt(kind string, seconds float64) {
	if c == nil {
		return
	}
	c.Built.WithLabelValues(kind).Inc()
	c.BuildTime.WithLabelValues(kind).Observe(seconds)
}

// InstrumentSevered records a grapple frozen before completion.
func (c *RopeCollector) InstrumentSevered(kind string) {
	if c == nil {
		return
	}
	c.Severed.WithLabelValues(kind).Inc()
}

// InstrumentTerminated records release of an instrument.
func (c *RopeCollector) InstrumentTerminated(kind string) {
	if c == nil {
		return
	}
	c.Terminated.WithLabelValues(kind).Inc()
}

// PlacementRejected records a failed validation.
func (c *RopeCollector) PlacementRejected(kind, reason string) {
	if c == nil {
		return
	}
	c.Rejections.WithLabelValues(kind, reason).Inc()
}

// PathRegistered records an edge added to the navigation graph.
func (c *RopeCollector) PathRegistered(edgeType string) {
	if c == nil {
		return
	}
	c.PathChanges.WithLabelValues(edgeType, "add").Inc()
	c.PathEdges.Inc()
}

// PathRemoved records an edge removed from the navigation graph.
func (c *RopeCollector) PathRemoved(edgeType string) {
	if c == nil {
		return
	}
	c.PathChanges.WithLabelValues(edgeType, "remove").Inc()
	c.PathEdges.Dec()
}

// SetWorldCounts drives the live object gauges from the owning system.
func (c *RopeCollector) SetWorldCounts(instruments, chains, bodies int) {
	if c == nil {
		return
	}
	c.Instruments.Set(float64(instruments))
	c.LiveChains.Set(float64(chains))
	c.LiveBodies.Set(float64(bodies))
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

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
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
