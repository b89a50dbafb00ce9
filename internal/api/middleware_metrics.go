package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authRejections  *prometheus.CounterVec
}

func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	metrics := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of unauthorized requests",
			},
			[]string{"reason"},
		),
	}

	for _, collector := range []prometheus.Collector{metrics.requestsTotal, metrics.requestDuration, metrics.authRejections} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return metrics, nil
}

// Middleware records request counts and latency labelled by route pattern,
// so entry ids and dates do not multiply series.
func (metrics *Metrics) Middleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := responseStatus(c, err)

	path := c.Route().Path
	if path == "" {
		path = "unmatched"
	}
	metrics.requestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
	metrics.requestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())

	switch status {
	case fiber.StatusUnauthorized:
		metrics.authRejections.WithLabelValues("401_unauthorized").Inc()
	case fiber.StatusForbidden:
		metrics.authRejections.WithLabelValues("403_forbidden").Inc()
	case fiber.StatusTooManyRequests:
		metrics.authRejections.WithLabelValues("429_rate_limited").Inc()
	}
	return err
}

func (metrics *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
}
