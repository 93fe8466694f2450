// Package metrics exposes the console service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ConsoleMetrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	Checkouts      *prometheus.CounterVec
	CatalogReloads *prometheus.CounterVec
	Workspaces     prometheus.Gauge
	ExchangeRate   prometheus.Gauge
}

// New registers the console collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *ConsoleMetrics {
	m := &ConsoleMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		CatalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "catalog_reloads_total",
			Help:      "Catalog reloads by result.",
		}, []string{"result"}),
		Workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "workspaces",
			Help:      "Open operator workspaces.",
		}),
		ExchangeRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "retail",
			Subsystem: "console",
			Name:      "exchange_rate",
			Help:      "Last fetched local-currency units per USD.",
		}),
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.Checkouts, m.CatalogReloads, m.Workspaces, m.ExchangeRate)
	return m
}

// Middleware counts every request by route template and status.
func (m *ConsoleMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// CheckoutOutcome records a terminal checkout state.
func (m *ConsoleMetrics) CheckoutOutcome(outcome string) {
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func (m *ConsoleMetrics) CatalogReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
