package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the API and fan-out worker.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	fanoutsTotal         *prometheus.CounterVec
	providerBatchesTotal *prometheus.CounterVec
	tokensDeliveredTotal prometheus.Counter
	tokensFailedTotal    *prometheus.CounterVec
	tokensPrunedTotal    prometheus.Counter
	batchSendDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "studyscrip_push",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		fanoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "fanouts_total",
				Help:      "Total number of fan-out invocations by result.",
			},
			[]string{"result"},
		),
		providerBatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "provider_batches_total",
				Help:      "Total number of provider multicast calls by result.",
			},
			[]string{"result"},
		),
		tokensDeliveredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "tokens_delivered_total",
				Help:      "Total number of per-token deliveries accepted by the provider.",
			},
		),
		tokensFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "tokens_failed_total",
				Help:      "Total number of per-token delivery failures by kind.",
			},
			[]string{"kind"},
		),
		tokensPrunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "studyscrip_push",
				Name:      "tokens_pruned_total",
				Help:      "Total number of dead tokens removed from the registry.",
			},
		),
		batchSendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "studyscrip_push",
				Name:      "batch_send_duration_seconds",
				Help:      "Provider multicast call duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.fanoutsTotal,
		m.providerBatchesTotal,
		m.tokensDeliveredTotal,
		m.tokensFailedTotal,
		m.tokensPrunedTotal,
		m.batchSendDuration,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncFanout(result string) {
	if m == nil {
		return
	}
	m.fanoutsTotal.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *Metrics) IncProviderBatch(result string) {
	if m == nil {
		return
	}
	m.providerBatchesTotal.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *Metrics) AddTokensDelivered(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.tokensDeliveredTotal.Add(float64(count))
}

func (m *Metrics) IncTokenFailed(kind string) {
	if m == nil {
		return
	}
	m.tokensFailedTotal.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *Metrics) AddTokensPruned(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.tokensPrunedTotal.Add(float64(count))
}

func (m *Metrics) ObserveBatchSendDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.batchSendDuration.Observe(seconds)
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
