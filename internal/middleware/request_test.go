package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/auditctx"
)

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(), Metrics())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(HeaderRequestID)
	require.Len(t, generated, 36)
	require.Equal(t, generated, w.Body.String())
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "abc")
	r.ServeHTTP(w, req)
	require.Equal(t, "abc", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	r.ServeHTTP(w, req)
	require.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestRequestIDAttachesAuditOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/origin", func(c *gin.Context) {
		origin, ok := auditctx.FromContext(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, origin.RequestID+"|"+origin.UserAgent)
	})

	req := httptest.NewRequest(http.MethodGet, "/origin", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	req.Header.Set("User-Agent", "crm-cli/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "req-42|crm-cli/1.0", w.Body.String())
}
