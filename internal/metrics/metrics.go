package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelf"

// Surfaces reported by ObserveCatalogSize.
const (
	SurfaceStorefront = "storefront"
	SurfaceAdmin      = "admin"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	catalogSize  *prometheus.GaugeVec
	imports      *prometheus.CounterVec
	reloads      *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	commands     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		catalogSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Number of products held by each catalog surface.",
		}, []string{"surface"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Catalog imports by file format and outcome.",
		}, []string{"format", "outcome"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Storefront catalog reloads by outcome.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_lookups_total",
			Help:      "Storefront query cache lookups by result.",
		}, []string{"result"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_commands_total",
			Help:      "Admin editor commands by name and outcome.",
		}, []string{"command", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.catalogSize,
		m.imports,
		m.reloads,
		m.cacheLookups,
		m.commands,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveCatalogSize(surface string, n int) {
	if m == nil {
		return
	}
	m.catalogSize.WithLabelValues(surface).Set(float64(n))
}

func (m *Metrics) ObserveImport(format, outcome string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) ObserveReload(outcome string) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCommand(command string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, Outcome(err)).Inc()
}

// Outcome labels an operation result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
