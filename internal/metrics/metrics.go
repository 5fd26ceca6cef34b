package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	catalogEvents    *prometheus.GaugeVec
	catalogReloads   *prometheus.CounterVec
	catalogLastLoad  prometheus.Gauge
	mintAttempts     *prometheus.CounterVec
	mintDuration     prometheus.Histogram
	walletSessions   *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	countdownStreams prometheus.Gauge
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.catalogEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nftix",
		Subsystem: "catalog",
		Name:      "events",
		Help:      "Normalized catalog events by status",
	}, []string{"status"})
	m.catalogReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftix",
		Subsystem: "catalog",
		Name:      "reloads_total",
		Help:      "Catalog reloads by result",
	}, []string{"result"})
	m.catalogLastLoad = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nftix",
		Subsystem: "catalog",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful catalog load",
	})
	m.mintAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftix",
		Subsystem: "mint",
		Name:      "attempts_total",
		Help:      "Mint attempts by outcome",
	}, []string{"outcome"})
	m.mintDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nftix",
		Subsystem: "mint",
		Name:      "duration_seconds",
		Help:      "Time from click to mint resolution",
		Buckets:   []float64{0.1, 0.5, 1, 2, 2.5, 3, 5, 10},
	})
	m.walletSessions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftix",
		Subsystem: "wallet",
		Name:      "sessions_total",
		Help:      "Wallet connect and disconnect calls by result",
	}, []string{"action", "result"})
	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftix",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nftix",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.countdownStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nftix",
		Subsystem: "countdown",
		Name:      "active_streams",
		Help:      "Open countdown event streams",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.catalogEvents,
		m.catalogReloads,
		m.catalogLastLoad,
		m.mintAttempts,
		m.mintDuration,
		m.walletSessions,
		m.requestsTotal,
		m.requestDuration,
		m.countdownStreams,
	)
	return m
}

// Registry exposes the registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCatalog records the status breakdown of a freshly loaded catalog
func (m *Metrics) ObserveCatalog(byStatus map[string]int) {
	m.catalogEvents.Reset()
	for status, n := range byStatus {
		m.catalogEvents.WithLabelValues(status).Set(float64(n))
	}
	m.catalogLastLoad.SetToCurrentTime()
}

// CatalogReload counts a reload attempt
func (m *Metrics) CatalogReload(err error) {
	m.catalogReloads.WithLabelValues(result(err)).Inc()
}

// MintResolved records the outcome and latency of a mint
func (m *Metrics) MintResolved(outcome string, took time.Duration) {
	m.mintAttempts.WithLabelValues(outcome).Inc()
	m.mintDuration.Observe(took.Seconds())
}

// MintRejected counts a click refused before any transaction started
func (m *Metrics) MintRejected(reason string) {
	m.mintAttempts.WithLabelValues(reason).Inc()
}

// WalletAction counts a connect or disconnect
func (m *Metrics) WalletAction(action string, err error) {
	m.walletSessions.WithLabelValues(action, result(err)).Inc()
}

// StreamOpened tracks an open countdown stream; call the returned func on close
func (m *Metrics) StreamOpened() func() {
	m.countdownStreams.Inc()
	return m.countdownStreams.Dec
}

// Middleware records per-route request counts and latency
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
