// Package assets forwards product image requests to the host that stores
// them, so front ends only ever talk to the console service.
package assets

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

func NewSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil || targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("failed to parse target URL '%s': %v", targetHost, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = targetURL.Host
	}
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error("Assets: proxy error for %s %s to %s", err, req.Method, req.URL.Path, targetURL)
		http.Error(rw, "Asset host unavailable", http.StatusBadGateway)
	}
	return proxy, nil
}

// Handler serves GET <prefix>/*path from targetHost/path. Only GET and HEAD
// are forwarded.
func Handler(targetHost string) (gin.HandlerFunc, error) {
	proxy, err := NewSingleHostReverseProxy(targetHost)
	if err != nil {
		return nil, err
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.AbortWithStatus(http.StatusMethodNotAllowed)
			return
		}
		path := c.Param("path")
		if path == "" || strings.Contains(path, "..") {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = path
		req.URL.RawPath = ""
		req.Header.Del("Authorization")
		proxy.ServeHTTP(c.Writer, req)
	}, nil
}
