package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/claireundgeorge/accessible-site/internal/platform/ctxutil"
)

func TestAttachTraceContextKeepsWellFormedRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		seen = *ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen.RequestID != "req-123" {
		t.Fatalf("request id: want=req-123 got=%q", seen.RequestID)
	}
	if seen.TraceID == "" || rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("trace id header: want=%q got=%q", seen.TraceID, rec.Header().Get(headerTraceID))
	}
}

func TestAttachTraceContextReplacesHostileID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, bad := range []string{"a b\nc", strings.Repeat("x", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(headerRequestID, bad)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get(headerRequestID); got == bad || got == "" {
			t.Fatalf("request id %q should be replaced: got=%q", bad, got)
		}
	}
}
