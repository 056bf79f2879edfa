package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskapp/internal/adapter/telemetry"
	tel "taskapp/internal/core/telemetry"
)

func newRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middlewares...)
	router.GET("/tasks", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func TestHTTPSRedirect_Disabled(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(HTTPSRedirect(false, zap.NewNop()))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/tasks", nil)
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
}

func TestHTTPSRedirect_RedirectsPlainHTTP(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(HTTPSRedirect(true, zap.NewNop()))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/tasks?page=2", nil)
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusMovedPermanently))
	Expect(rr.Header().Get("Location")).To(Equal("https://api.example.com/tasks?page=2"))

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "http://api.example.com/tasks", nil)
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusPermanentRedirect))
	Expect(rr.Header().Get("Location")).To(Equal("https://api.example.com/tasks"))
}

func TestHTTPSRedirect_PassesSecureAndLoopbackRequests(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(HTTPSRedirect(true, zap.NewNop()))

	forwarded := httptest.NewRequest(http.MethodGet, "http://api.example.com/tasks", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "HTTPS")

	direct := httptest.NewRequest(http.MethodGet, "https://api.example.com/tasks", nil)
	direct.TLS = &tls.ConnectionState{}

	requests := []*http.Request{forwarded, direct}

	for _, host := range []string{"localhost:8080", "127.0.0.1", "[::1]:8080"} {
		requests = append(requests, httptest.NewRequest(http.MethodGet, "http://"+host+"/tasks", nil))
	}

	for _, req := range requests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK), req.Host)
	}
}

func TestHTTPSRedirect_LookalikeHostIsNotLoopback(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(HTTPSRedirect(true, zap.NewNop()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost.example.com/tasks", nil))

	Expect(rr.Code).To(Equal(http.StatusMovedPermanently))
}

func TestCORSMiddleware(t *testing.T) {
	RegisterTestingT(t)

	router := newRouter(CORSMiddleware())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	Expect(rr.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PATCH"))

	preflight := httptest.NewRecorder()
	router.ServeHTTP(preflight, httptest.NewRequest(http.MethodOptions, "/tasks", nil))

	Expect(preflight.Code).To(Equal(http.StatusNoContent))
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := tel.NewAppMetrics(registry)

	router := newRouter(LoggingMiddleware(telemetry.NewNopLogger()), MetricsMiddleware(metrics))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	Expect(rr.Code).To(Equal(http.StatusOK))

	missing := httptest.NewRecorder()
	router.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/nope", nil))
	Expect(missing.Code).To(Equal(http.StatusNotFound))

	families, err := registry.Gather()
	Expect(err).To(BeNil())

	var labels []string

	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "path" {
					labels = append(labels, label.GetValue())
				}
			}
		}
	}

	Expect(labels).To(ConsistOf("/tasks", unmatchedRoute))
}

func TestGetClientIP(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	Expect(GetClientIP(c)).To(Equal("1.1.1.1"))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Real-IP", "3.3.3.3")
	Expect(GetClientIP(c)).To(Equal("3.3.3.3"))
}
