package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"worldstage/auth"
	"worldstage/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedEngine(issuer *auth.Issuer) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(issuer, zap.NewNop()), func(c *gin.Context) {
		claims, ok := GetAuthUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken(models.User{ID: 3, Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expired, err := auth.NewIssuer("test-secret", -time.Hour).GenerateToken(models.User{ID: 3, Username: "alice"})
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}

	cases := []struct {
		name     string
		issuer   *auth.Issuer
		target   string
		header   string
		status   int
		contains string
	}{
		{"missing", issuer, "/me", "", http.StatusUnauthorized, "Access token required"},
		{"garbage", issuer, "/me", "Bearer nope", http.StatusForbidden, "Invalid or expired token"},
		{"expired", issuer, "/me", "Bearer " + expired, http.StatusForbidden, "Invalid or expired token"},
		{"no secret", auth.NewIssuer("", time.Hour), "/me", "Bearer " + token, http.StatusInternalServerError, "Server configuration error"},
		{"header", issuer, "/me", "Bearer " + token, http.StatusOK, "alice"},
		{"query", issuer, "/me?token=" + token, "", http.StatusOK, "alice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			protectedEngine(tc.issuer).ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.contains) {
				t.Fatalf("expected body to contain %q, got %s", tc.contains, w.Body.String())
			}
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/login", RateLimiter(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the burst, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", code)
	}
}

func TestRequestIDIsAssignedOrReused(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get("X-Request-ID")) != 36 {
		t.Fatalf("expected a generated uuid, got %q", w.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got %q", got)
	}
}
