package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware{}.RequestID())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if seen == "" {
		t.Fatal("request id missing from the request context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header = %q, context id = %q", got, seen)
	}

	// A client-supplied id is propagated instead of replaced.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if seen != "req-42" {
		t.Errorf("context id = %q, want propagated req-42", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("response header = %q, want req-42", got)
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}
