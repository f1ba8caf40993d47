package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "smartap_inspect"

// Panel counts what happens inside a properties panel and its error feed.
// A nil *Panel is valid and records nothing, so panels built without
// metrics need no special casing.
type Panel struct {
	registry *prometheus.Registry

	commits          *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	layoutWrites     prometheus.Counter
	errorSignals     prometheus.Counter
	showEntrySignals prometheus.Counter
	feedClients      prometheus.Gauge
	feedMessages     *prometheus.CounterVec
}

// New creates a Panel backed by its own registry. Using a private registry
// keeps tests and multiple panels in one process from colliding on
// registration.
func New() *Panel {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Panel{
		registry: registry,

		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "entry_commits_total",
			Help:      "Values accepted by an entry and passed to its setter",
		}, []string{"entry"}),

		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "entry_rejections_total",
			Help:      "Values held back by an entry validator",
		}, []string{"entry"}),

		layoutWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "layout_writes_total",
			Help:      "Layout store writes",
		}),

		errorSignals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "set_errors_signals_total",
			Help:      "Global error map replacements received",
		}),

		showEntrySignals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "show_entry_signals_total",
			Help:      "Show-entry requests received",
		}),

		feedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "errfeed",
			Name:      "clients",
			Help:      "Connected error feed clients",
		}),

		feedMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "errfeed",
			Name:      "messages_total",
			Help:      "Error feed messages by type and outcome",
		}, []string{"type", "status"}),
	}
}

// Commit records an accepted value.
func (p *Panel) Commit(entryID string) {
	if p == nil {
		return
	}
	p.commits.WithLabelValues(entryID).Inc()
}

// Rejection records a value that failed validation.
func (p *Panel) Rejection(entryID string) {
	if p == nil {
		return
	}
	p.rejections.WithLabelValues(entryID).Inc()
}

// LayoutWrite records a layout store write.
func (p *Panel) LayoutWrite() {
	if p == nil {
		return
	}
	p.layoutWrites.Inc()
}

// ErrorSignal records a setErrors event.
func (p *Panel) ErrorSignal() {
	if p == nil {
		return
	}
	p.errorSignals.Inc()
}

// ShowEntrySignal records a showEntry event.
func (p *Panel) ShowEntrySignal() {
	if p == nil {
		return
	}
	p.showEntrySignals.Inc()
}

// FeedConnected adjusts the connected client gauge by delta.
func (p *Panel) FeedConnected(delta int) {
	if p == nil {
		return
	}
	p.feedClients.Add(float64(delta))
}

// FeedMessage records an error feed message. status is "ok" or "rejected".
func (p *Panel) FeedMessage(msgType, status string) {
	if p == nil {
		return
	}
	p.feedMessages.WithLabelValues(msgType, status).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Panel) Registry() *prometheus.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

// Handler serves the registry in the Prometheus text format.
func (p *Panel) Handler() http.Handler {
	if p == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
