package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const metricsNamespace = "deployer"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	publishRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "publish",
			Name:      "payloads_total",
			Help:      "Publish payloads requested, by outcome.",
		},
		[]string{"outcome"},
	)
	publishPayloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "publish",
			Name:      "payload_bytes",
			Help:      "Size of the BCS encoded publish payloads returned.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 8),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, publishRequests, publishPayloadBytes)
	})
}

func recordPublish(outcome string, size int) {
	RegisterMetrics()
	publishRequests.WithLabelValues(outcome).Inc()
	if size > 0 {
		publishPayloadBytes.Observe(float64(size))
	}
}

func requestPath(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		// static files are not labelled one by one
		return "static"
	}
	return path
}

// RequestLogger logs each request at a level chosen by its response status
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"duration":  time.Since(start).String(),
			"client_ip": c.ClientIP(),
			"bytes":     c.Writer.Size(),
		})
		switch {
		case status >= 500:
			log.Error("http_request")
		case status >= 400:
			log.Warn("http_request")
		default:
			log.Info("http_request")
		}
	}
}

func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		RegisterMetrics()
		status := strconv.Itoa(c.Writer.Status())
		path := requestPath(c)
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
