// Package prom implements the observability hooks with Prometheus collectors.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/neuroscene/pkg/observability"
)

const namespace = "neuroscene"

// Metrics holds the collectors. It satisfies all three hook interfaces.
type Metrics struct {
	generations      *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	sceneNodes       *prometheus.GaugeVec
	sceneEdges       *prometheus.GaugeVec

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpInflight *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// It panics if any collector is already registered, like MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "generations_total",
			Help: "Scene generations by topology and result.",
		}, []string{"topology", "result"}),
		generateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "generate_duration_seconds",
			Help:    "Time to lay out, connect and assemble a scene.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"topology"}),
		sceneNodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "scene_nodes",
			Help: "Node count of the most recent scene per topology.",
		}, []string{"topology"}),
		sceneEdges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "scene_edges",
			Help: "Edge count of the most recent scene per topology.",
		}, []string{"topology"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "renders_total",
			Help: "Artifact renders by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "render_duration_seconds",
			Help:    "Time to render all requested formats of a scene.",
			Buckets: prometheus.DefBuckets,
		}, []string{"formats"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"kind", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"kind"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Requests currently being served.",
		}, []string{"route"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Completed requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "errors_total",
			Help: "Handler failures by method and route.",
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.generations, m.generateDuration, m.sceneNodes, m.sceneEdges,
		m.renders, m.renderDuration,
		m.cacheEvents, m.cacheBytes,
		m.httpInflight, m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Install registers m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the collectors gathered from g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (m *Metrics) OnGenerateStart(context.Context, string) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, topology string, nodes, edges int, d time.Duration, err error) {
	m.generations.WithLabelValues(topology, result(err)).Inc()
	if err != nil {
		return
	}
	m.generateDuration.WithLabelValues(topology).Observe(d.Seconds())
	m.sceneNodes.WithLabelValues(topology).Set(float64(nodes))
	m.sceneEdges.WithLabelValues(topology).Set(float64(edges))
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.renders.WithLabelValues(f, result(err)).Inc()
	}
	m.renderDuration.WithLabelValues(strconv.Itoa(len(formats))).Observe(d.Seconds())
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheEvents.WithLabelValues(kind, "set").Inc()
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

// =============================================================================
// HTTP hooks
// =============================================================================

func (m *Metrics) OnRequest(_ context.Context, _, route string) {
	m.httpInflight.WithLabelValues(route).Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInflight.WithLabelValues(route).Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
