package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads_platform_backend/logger"
	"ads_platform_backend/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_CountsPanickingRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	r := gin.New()
	r.Use(Metrics(m), Recovery(logger.Discard()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/boom", "/ok"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := scrape(t, m)
	assert.Contains(t, out, "ads_platform_http_inflight_requests 0")
	assert.Contains(t, out, `ads_platform_http_requests_total{method="GET",route="/boom",status="500"} 1`)
	assert.Contains(t, out, `ads_platform_http_requests_total{method="GET",route="/ok",status="200"} 1`)
}

func TestMetrics_ReleasesInflightOnPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	// Recovery registered first still sees the panic after Metrics unwinds.
	r := gin.New()
	r.Use(Recovery(logger.Discard()), Metrics(m))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	out := scrape(t, m)
	assert.Contains(t, out, "ads_platform_http_inflight_requests 0")
	assert.Contains(t, out, `route="/boom"`)
}
