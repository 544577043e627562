package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

func TestObserver(t *testing.T) {
	m := New()
	m.SessionStarted("go-basics")
	m.AnswerGraded(question.KindChoice, true, false)
	m.AnswerGraded(question.KindChoice, false, true)
	m.AnswerGraded(question.KindCode, false, false)
	m.SessionCompleted(result.EndTimedOut, 40)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("go-basics")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("choice", "correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("choice", "ambiguous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("code", "incorrect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsCompleted.WithLabelValues("timed_out")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SessionStarted("a")
	m.AnswerGraded(question.KindChoice, true, false)
	m.SessionCompleted(result.EndExhausted, 100)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "aiteacher_http_requests_total"))
}
