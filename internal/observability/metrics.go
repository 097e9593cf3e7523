package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	upstreamRequestsTotal *prometheus.CounterVec
	upstreamDuration      *prometheus.HistogramVec
	relayRetries          prometheus.Counter
	relayFailures         *prometheus.CounterVec
	chatFallbacks         prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicepipe_http_requests_total",
				Help: "Total number of HTTP requests handled.",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voicepipe_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		upstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicepipe_upstream_requests_total",
				Help: "Total requests to the ASR, TTS, and chat upstreams.",
			},
			[]string{"service", "endpoint", "status"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voicepipe_upstream_request_duration_seconds",
				Help:    "Upstream request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "endpoint", "status"},
		),
		relayRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "voicepipe_chat_relay_retries_total",
				Help: "Number of chat relay attempts beyond the first.",
			},
		),
		relayFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicepipe_chat_relay_failures_total",
				Help: "Chat relay failures by failure kind.",
			},
			[]string{"kind"},
		),
		chatFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "voicepipe_pipeline_chat_fallback_total",
				Help: "Number of pipeline requests that continued without an assistant reply due to chat relay failure.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.upstreamRequestsTotal,
		m.upstreamDuration,
		m.relayRetries,
		m.relayFailures,
		m.chatFallbacks,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	if method == "" {
		method = "UNKNOWN"
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(route, method, statusLabel).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusLabel).Observe(duration.Seconds())
}

// UpstreamObserver returns an observer bound to one upstream service,
// suitable for the upstream clients' WithObserver option.
func (m *Metrics) UpstreamObserver(service string) func(endpoint string, status int, duration time.Duration) {
	return func(endpoint string, status int, duration time.Duration) {
		m.observeUpstream(service, endpoint, status, duration)
	}
}

func (m *Metrics) observeUpstream(service, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	statusLabel := strconv.Itoa(status)
	m.upstreamRequestsTotal.WithLabelValues(service, endpoint, statusLabel).Inc()
	m.upstreamDuration.WithLabelValues(service, endpoint, statusLabel).Observe(duration.Seconds())
}

func (m *Metrics) IncRelayRetry() {
	if m == nil {
		return
	}
	m.relayRetries.Inc()
}

func (m *Metrics) IncRelayFailure(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.relayFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncChatFallback() {
	if m == nil {
		return
	}
	m.chatFallbacks.Inc()
}
