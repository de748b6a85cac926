package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tiffin-api/events"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ events.Publisher = (*Metrics)(nil)

// Metrics owns a private registry so several instances (tests) never collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	OrderEventsTotal    *prometheus.CounterVec
	OrderValueTotal     prometheus.Counter
}

// New registers every collector under prefix, plus the Go and process
// collectors.
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		OrderEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_events_total",
				Help: "Total number of order lifecycle events",
			},
			[]string{"event", "status"},
		),
		OrderValueTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_order_value_total",
				Help: "Sum of the totals of placed orders",
			},
		),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrderEventsTotal,
		m.OrderValueTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Publish implements events.Publisher by counting events.
func (m *Metrics) Publish(_ context.Context, routingKey string, ev events.OrderEvent) error {
	m.OrderEventsTotal.WithLabelValues(routingKey, string(ev.ToStatus)).Inc()
	if routingKey == events.OrderCreated {
		m.OrderValueTotal.Add(ev.TotalAmount.InexactFloat64())
	}
	return nil
}
