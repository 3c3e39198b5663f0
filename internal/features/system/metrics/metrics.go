package system_metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskflow_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)
)

// Middleware records request latency labelled by route template, so
// /projects/:id is one series regardless of the id.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		HTTPRequestsInFlight.Inc()
		start := time.Now()

		ctx.Next()

		HTTPRequestsInFlight.Dec()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestDuration.
			WithLabelValues(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
