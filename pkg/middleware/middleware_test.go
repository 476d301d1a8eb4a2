package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faultline/internal/config"
	"faultline/internal/logger"
	"faultline/internal/report"
	"faultline/internal/reporter"
)

type captureDispatcher struct {
	mu       sync.Mutex
	payloads []*report.Payload
}

func (d *captureDispatcher) Dispatch(ctx context.Context, payload *report.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	return nil
}

func (d *captureDispatcher) Close(ctx context.Context) error { return nil }

func (d *captureDispatcher) dispatched() []*report.Payload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*report.Payload(nil), d.payloads...)
}

func newMiddlewareNotifier(t *testing.T, dispatcher *captureDispatcher) *reporter.Notifier {
	t.Helper()

	cfg := &config.Config{
		Enabled:     true,
		Endpoint:    "https://faultline.example.com/api/errors",
		Project:     "billing",
		Environment: "production",
		SampleRate:  1.0,
	}

	n, err := reporter.New(cfg, logger.NopLogger(), reporter.WithDispatcher(dispatcher))
	require.NoError(t, err)
	return n
}

func TestScoped_CapturesPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dispatcher := &captureDispatcher{}
	n := newMiddlewareNotifier(t, dispatcher)

	router := gin.New()
	router.Use(Scoped(n))
	router.GET("/orders", func(c *gin.Context) {
		panic("order lookup failed")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "http://api.example.com/orders?id=812", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, w.Body.String())

	payloads := dispatcher.dispatched()
	require.Len(t, payloads, 1)
	p := payloads[0]

	assert.Contains(t, p.Error.Message, "order lookup failed")

	require.NotNil(t, p.Request)
	assert.Equal(t, "GET", p.Request.Method)
	assert.Contains(t, p.Request.URL, "/orders")

	path, ok := p.Context.Get("path")
	require.True(t, ok)
	assert.Equal(t, "/orders", path)
}

func TestScoped_NoCaptureOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dispatcher := &captureDispatcher{}
	n := newMiddlewareNotifier(t, dispatcher)

	router := gin.New()
	router.Use(Scoped(n))
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://api.example.com/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dispatcher.dispatched())
}

func TestScopeFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dispatcher := &captureDispatcher{}
	n := newMiddlewareNotifier(t, dispatcher)

	router := gin.New()
	router.Use(Scoped(n))
	router.GET("/orders", func(c *gin.Context) {
		scope := ScopeFrom(c)
		require.NotNil(t, scope)

		scope.SetContext(map[string]interface{}{"order_id": 812})
		scope.Capture(c.Request.Context(), assert.AnError, nil)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "http://api.example.com/orders", nil))

	payloads := dispatcher.dispatched()
	require.Len(t, payloads, 1)

	orderID, ok := payloads[0].Context.Get("order_id")
	require.True(t, ok)
	assert.Equal(t, 812, orderID)
}

func TestScopeFrom_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ScopeFrom(c))
}
