package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPSRedirect sends plain HTTP requests to the same URL over https. TLS
// requests, requests a proxy forwarded as https and loopback hosts are
// served as is. GET and HEAD get a 301; other methods get a 308 so the
// body and method survive the redirect.
func HTTPSRedirect(enabled bool, logger *zap.Logger) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if isSecureRequest(c.Request) || isLoopbackHost(c.Request.Host) {
			c.Next()
			return
		}

		target := url.URL{
			Scheme:   "https",
			Host:     c.Request.Host,
			Path:     c.Request.URL.Path,
			RawPath:  c.Request.URL.RawPath,
			RawQuery: c.Request.URL.RawQuery,
		}

		status := http.StatusPermanentRedirect

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			status = http.StatusMovedPermanently
		}

		logger.Info("Redirecting to HTTPS",
			zap.String("method", c.Request.Method),
			zap.String("https_url", target.String()),
			zap.Int("status", status))

		c.Redirect(status, target.String())
		c.Abort()
	}
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopbackHost(hostport string) bool {
	host := hostport

	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}

	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(strings.Trim(host, "[]"))

	return ip != nil && ip.IsLoopback()
}
