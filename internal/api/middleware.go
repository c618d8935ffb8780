package api

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/auth"
)

// paths whose completed requests are never persisted
var logExcludedPaths = map[string]bool{
	"/favicon.ico": true,
}

// RequestIDMiddleware ensures every request has a correlation/request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestLogger records method, path, client IP, status and latency for every
// request, and persists a structured log record fire-and-forget. A failed
// write never affects the client response.
func RequestLogger(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ip := clientIP(c)
		method := c.Request.Method
		path := c.Request.URL.RequestURI()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		requestID := c.GetString("request_id")
		app.Logger().Infof("[request_id=%s] %s %s - %d - %dms - IP: %s", requestID, method, path, status, elapsed.Milliseconds(), ip)

		if logExcludedPaths[c.Request.URL.Path] {
			return
		}

		rec := &internal.RequestLog{
			ID:         uuid.NewString(),
			RequestID:  requestID,
			Method:     method,
			URL:        path,
			IP:         ip,
			StatusCode: status,
			Duration:   elapsed.Milliseconds(),
			UserAgent:  c.Request.UserAgent(),
			CreatedAt:  time.Now().UTC(),
		}
		if v, ok := c.Get(auth.UserKey); ok {
			if user, ok := v.(*internal.User); ok {
				rec.UserID = user.ID
			}
		}

		go func() {
			defer func() {
				_ = recover()
			}()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = app.Logs().SaveRequestLog(ctx, rec)
		}()
	}
}

// clientIP resolves the real client address behind proxies and load
// balancers, falling back to "unknown".
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("X-Client-IP"); ip != "" {
		return ip
	}
	if addr := c.Request.RemoteAddr; addr != "" {
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return host
		}
		return addr
	}
	return "unknown"
}
