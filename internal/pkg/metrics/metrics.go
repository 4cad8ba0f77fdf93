package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetsim",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fleetsim",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fleetsim",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Simulation metrics
	SimulationPlaying = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetsim",
		Subsystem: "simulation",
		Name:      "playing",
		Help:      "1 while the simulation clock is running, 0 while stopped",
	})

	SimulationSpeed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetsim",
		Subsystem: "simulation",
		Name:      "speed_multiplier",
		Help:      "Current simulation speed multiplier",
	})

	VisibleEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetsim",
		Subsystem: "simulation",
		Name:      "visible_events",
		Help:      "Events inside the current replay window across all trips",
	})

	// Fixture metrics
	DatasetsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetsim",
		Subsystem: "fixtures",
		Name:      "datasets_loaded_total",
		Help:      "Fixture datasets loaded, by outcome",
	}, []string{"outcome"})

	// WebSocket metrics
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetsim",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	SnapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetsim",
		Subsystem: "ws",
		Name:      "snapshots_published_total",
		Help:      "Simulation snapshots broadcast to WebSocket clients",
	})

	// Assistant metrics
	AssistantQuestions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetsim",
		Subsystem: "assistant",
		Name:      "questions_total",
		Help:      "Questions answered by the fleet assistant",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
