package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exstem_candidate",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exstem_candidate",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	sessionStarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exstem_candidate",
		Name:      "session_starts_total",
		Help:      "Session start attempts by outcome",
	}, []string{"outcome"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exstem_candidate",
		Name:      "submissions_total",
		Help:      "Answer submissions by outcome",
	}, []string{"outcome"})

	navigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exstem_candidate",
		Name:      "navigations_total",
		Help:      "Navigation requests by action and result",
	}, []string{"action", "result"})

	remainingSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "exstem_candidate",
		Name:      "remaining_seconds",
		Help:      "Remaining exam time of the live session, -1 when untimed",
	})
)

// ObserveSessionStart counts a session start by outcome.
func ObserveSessionStart(outcome string) {
	sessionStarts.WithLabelValues(outcome).Inc()
}

// ObserveSubmission counts a submission by outcome.
func ObserveSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

// ObserveNavigation counts a navigation request.
func ObserveNavigation(action, result string) {
	navigations.WithLabelValues(action, result).Inc()
}

// SetRemaining publishes the live countdown value.
func SetRemaining(secs *int) {
	if secs == nil {
		remainingSeconds.Set(-1)
		return
	}
	remainingSeconds.Set(float64(*secs))
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
