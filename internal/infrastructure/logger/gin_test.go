package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGinMiddlewareAttachesRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7")
		c.Next()
	})
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/ping", func(c *gin.Context) {
		// Handlers log through the logger carried by the request context.
		FromContext(c.Request.Context()).Info("handled")
		assert.Equal(t, "req-7", GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	handled := logs.FilterMessage("handled").All()
	require.Len(t, handled, 1)
	fields := handled[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["path"])

	// The middleware's own completion log carries the same request ID.
	completed := logs.FilterMessage("HTTP Request").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "req-7", completed[0].ContextMap()["request_id"])
}
