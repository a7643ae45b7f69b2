package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, remote string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMW(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s3cret", Expiry: 60}
	r := gin.New()
	r.Use(JWTMW(cfg))
	r.GET("/x", func(c *gin.Context) { c.String(200, c.GetString("subject")) })

	good, err := GenerateToken("alice", ScopeManage, cfg)
	if err != nil {
		t.Fatal(err)
	}
	readOnly, _ := GenerateToken("bob", "read", cfg)
	forged, _ := GenerateToken("mallory", ScopeManage, &config.JWTConfig{Secret: "other", Expiry: 60})
	expired, _ := GenerateToken("alice", ScopeManage, &config.JWTConfig{Secret: "s3cret", Expiry: -60})

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing", "", 401},
		{"no bearer prefix", good, 401},
		{"valid", "Bearer " + good, 200},
		{"wrong scope", "Bearer " + readOnly, 403},
		{"wrong secret", "Bearer " + forged, 401},
		{"expired", "Bearer " + expired, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.auth != "" {
				h.Set("Authorization", tt.auth)
			}
			w := serve(r, "GET", "/x", "127.0.0.1:1", h)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == 200 && w.Body.String() != "alice" {
				t.Errorf("subject = %q", w.Body.String())
			}
		})
	}
}

func TestAdminWhitelistMW(t *testing.T) {
	cfg := &config.SecurityConfig{
		AllowIPs: []string{"203.0.113.0/24", "198.51.100.7"},
		DenyIPs:  []string{"203.0.113.9"},
	}
	r := gin.New()
	r.Use(AdminWhitelistMW(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	tests := []struct {
		remote string
		status int
	}{
		{"127.0.0.1:1", 200},
		{"[::1]:1", 200},
		{"192.168.1.2:1", 200},
		{"203.0.113.5:1", 200},
		{"198.51.100.7:1", 200},
		{"203.0.113.9:1", 403},
		{"8.8.8.8:1", 403},
	}
	for _, tt := range tests {
		if w := serve(r, "GET", "/x", tt.remote, nil); w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.remote, w.Code, tt.status)
		}
	}
}

func TestPublicWhitelistMWOpenByDefault(t *testing.T) {
	r := gin.New()
	r.Use(PublicWhitelistMW(&config.SecurityConfig{DenyIPs: []string{"8.8.4.4"}}))
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	if w := serve(r, "GET", "/x", "8.8.8.8:1", nil); w.Code != 200 {
		t.Errorf("open list: status = %d", w.Code)
	}
	if w := serve(r, "GET", "/x", "8.8.4.4:1", nil); w.Code != 403 {
		t.Errorf("denied ip: status = %d", w.Code)
	}
}

func TestIPLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewIPLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Error("third request within the window should be limited")
	}
	if !l.Allow("b") {
		t.Error("limits are per ip")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("a") {
		t.Error("window should have slid")
	}

	if !NewIPLimiter(0, time.Minute).Allow("a") {
		t.Error("zero limit disables limiting")
	}
}

func TestIPLimiterForgetsIdleClients(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewIPLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	for _, ip := range []string{"a", "b", "c"} {
		l.Allow(ip)
	}
	if l.Len() != 3 {
		t.Fatalf("tracked = %d, want 3", l.Len())
	}

	now = now.Add(2 * time.Minute)
	l.Allow("d")
	if l.Len() != 1 {
		t.Errorf("tracked = %d after the window passed, want 1", l.Len())
	}
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(200, c.GetString("request_id")) })

	h := http.Header{}
	h.Set(RequestIDHeader, "abc")
	w := serve(r, "GET", "/x", "127.0.0.1:1", h)
	if w.Header().Get(RequestIDHeader) != "abc" || w.Body.String() != "abc" {
		t.Errorf("request id not propagated: header %q body %q", w.Header().Get(RequestIDHeader), w.Body.String())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	if w := serve(r, "GET", "/x", "127.0.0.1:1", nil); w.Code != 500 {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TimeoutMiddleware(time.Second))
	r.GET("/x", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Error("deadline not set")
		}
		c.Status(200)
	})
	serve(r, "GET", "/x", "127.0.0.1:1", nil)
}
