package api

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

func ipForRequest(headers map[string]string, remoteAddr string) string {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = remoteAddr
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return clientIP(c)
}

func TestClientIPPrecedence(t *testing.T) {
	// X-Forwarded-For wins, first entry only
	assert.Equal(t, "203.0.113.7", ipForRequest(map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"X-Real-IP":       "10.0.0.2",
	}, "10.0.0.3:1234"))

	// then X-Real-IP
	assert.Equal(t, "10.0.0.2", ipForRequest(map[string]string{
		"X-Real-IP":   "10.0.0.2",
		"X-Client-IP": "10.0.0.4",
	}, "10.0.0.3:1234"))

	// then X-Client-IP
	assert.Equal(t, "10.0.0.4", ipForRequest(map[string]string{
		"X-Client-IP": "10.0.0.4",
	}, "10.0.0.3:1234"))

	// then the transport remote address, port stripped
	assert.Equal(t, "10.0.0.3", ipForRequest(nil, "10.0.0.3:1234"))

	// sentinel when nothing is known
	assert.Equal(t, "unknown", ipForRequest(nil, ""))
}

// capturingLogs wraps an App with a log repository that records every
// persisted request log for inspection.
type capturingLogs struct {
	App
	repo *capturingLogRepo
}

type capturingLogRepo struct {
	mu   sync.Mutex
	recs []internal.RequestLog
}

func (r *capturingLogRepo) SaveRequestLog(ctx context.Context, rec *internal.RequestLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, *rec)
	return nil
}

func (r *capturingLogRepo) last() (internal.RequestLog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.recs) == 0 {
		return internal.RequestLog{}, false
	}
	return r.recs[len(r.recs)-1], true
}

func (c capturingLogs) Logs() storage.LogRepository { return c.repo }

func TestRequestIDEchoedFromHeader(t *testing.T) {
	app, _ := newTestApp(t)
	repo := &capturingLogRepo{}
	r := Router(capturingLogs{App: app, repo: repo})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-abc-123", w.Header().Get("X-Request-ID"))

	require.Eventually(t, func() bool {
		rec, ok := repo.last()
		return ok && rec.RequestID == "req-abc-123"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	app, _ := newTestApp(t)
	r := Router(app)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A second request gets its own ID.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/", nil))
	assert.NotEqual(t, w.Header().Get("X-Request-ID"), w2.Header().Get("X-Request-ID"))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "00:00:00", formatUptime(0))
	assert.Equal(t, "00:01:05", formatUptime(65))
	assert.Equal(t, "02:30:00", formatUptime(9000))
	assert.Equal(t, "27:46:40", formatUptime(100000))
}
