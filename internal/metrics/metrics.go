// Package metrics exports session and HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

const namespace = "aiteacher"

// Metrics owns a registry and the collectors in it. It implements
// session.Observer. A nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	answers           *prometheus.CounterVec
	scores            prometheus.Histogram

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers every collector in a fresh registry, with the Go runtime
// and process collectors alongside.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Assessment sessions started.",
		}, []string{"assessment"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Assessment sessions completed, by end reason.",
		}, []string{"reason"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Graded answers, by question kind and verdict.",
		}, []string{"kind", "verdict"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_score",
			Help:      "Final session scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"method", "endpoint"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsStarted, m.sessionsCompleted, m.answers, m.scores,
		m.requests, m.requestDuration,
	)
	return m
}

// Registry exposes the registry, mainly to tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) SessionStarted(assessmentID string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(assessmentID).Inc()
}

func (m *Metrics) AnswerGraded(kind question.Kind, correct, ambiguous bool) {
	if m == nil {
		return
	}
	verdict := "incorrect"
	switch {
	case ambiguous:
		verdict = "ambiguous"
	case correct:
		verdict = "correct"
	}
	m.answers.WithLabelValues(string(kind), verdict).Inc()
}

func (m *Metrics) SessionCompleted(reason result.EndReason, score int) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(string(reason)).Inc()
	m.scores.Observe(float64(score))
}

// Middleware counts and times requests by route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
