package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/resultkit/auth"
	"github.com/kbukum/resultkit/authz"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/response"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) response.Envelope[any] {
	t.Helper()
	var env response.Envelope[any]
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (%s)", err, rr.Body.String())
	}
	return env
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/test", func(*gin.Context) { panic("db exploded") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/test", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Message != "An error occurred: db exploded" {
		t.Errorf("unexpected message %q", env.Message)
	}
	if env.Data != nil {
		t.Errorf("expected null data, got %v", *env.Data)
	}
}

type shortMessages struct{}

func (shortMessages) SuccessMessage() string          { return "ok" }
func (shortMessages) ErrorMessage(detail string) string { return "failed: " + detail }

func TestRecovery_UsesContextMessages(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(result.WithMessages(c.Request.Context(), shortMessages{}))
		c.Next()
	})
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/", func(*gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))
	if env := decodeEnvelope(t, rr); env.Message != "failed: boom" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ = logger.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))
	id := rr.Header().Get(middleware.HeaderRequestID)
	if id == "" {
		t.Fatal("expected X-Request-Id in response headers")
	}
	if fromCtx != id {
		t.Errorf("expected request context to carry %q, got %q", id, fromCtx)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "custom-id-123")
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get(middleware.HeaderRequestID); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORS_SetHeaders(t *testing.T) {
	cfg := &middleware.CORSConfig{
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		MaxAge:         600,
	}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("expected https://example.com, got %s", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Fatalf("expected 'GET, POST', got %s", got)
	}
	if got := rr.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("expected max age 600, got %s", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &middleware.CORSConfig{AllowedOrigins: []string{"*"}}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("handler should not be called for preflight")
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/users", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{AllowedOrigins: []string{"https://allowed.com"}}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for disallowed origin, got %s", got)
	}
}

func TestGinCORS_PreflightAbortsChain(t *testing.T) {
	r := gin.New()
	r.Use(middleware.GinCORS(&middleware.CORSConfig{AllowedOrigins: []string{"*"}}))
	r.OPTIONS("/x", func(c *gin.Context) {
		t.Error("route handler should not run for preflight")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", http.NoBody)
	req.Header.Set("Origin", "https://a.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(middleware.HeaderRequestID, "rid-9")
		w.WriteHeader(http.StatusConflict)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/users", http.NoBody))

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" {
		t.Errorf("expected warn for 409, got %v", line["level"])
	}
	if line[logger.FieldStatus] != float64(http.StatusConflict) {
		t.Errorf("expected status 409, got %v", line[logger.FieldStatus])
	}
	if line[logger.FieldRequestID] != "rid-9" {
		t.Errorf("expected request id from response header, got %v", line[logger.FieldRequestID])
	}
}

func TestRequestLogger_SkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	called := false
	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))
	if !called {
		t.Error("handler should still be called for health endpoints")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %s", buf.String())
	}
}

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestRequestLogger_DelegatesFlush(t *testing.T) {
	fr := &flushRecorder{ResponseWriter: httptest.NewRecorder()}
	handler := middleware.RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(fr, httptest.NewRequest("GET", "/stream", http.NoBody))
	if !fr.flushed {
		t.Error("expected Flush to be delegated to underlying writer")
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-before")
				next.ServeHTTP(w, r)
				order = append(order, name+"-after")
			})
		}
	}
	handler := middleware.Chain(mw("m1"), mw("m2"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if strings.Join(order, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected %v, got %v", expected, order)
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(&auth.Config{Secret: "test-secret", BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func authRouter(tokens *auth.TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Auth(middleware.AuthConfig{Verifier: tokens, SkipPaths: []string{"/public"}}))
	handlers := append(extra, func(c *gin.Context) {
		claims, _ := auth.ClaimsFrom(c.Request.Context())
		c.String(http.StatusOK, claims.Subject)
	})
	r.GET("/private", handlers...)
	r.GET("/public", func(c *gin.Context) { c.String(http.StatusOK, "open") })
	return r
}

func TestAuth(t *testing.T) {
	tokens := newTokens(t)
	valid := tokens.Issue("user-1").Value()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"skip path", "/public", "", http.StatusOK, ""},
		{"missing header", "/private", "", http.StatusUnauthorized, "Authorization header required"},
		{"bad scheme", "/private", "Basic abc", http.StatusUnauthorized, "Invalid authorization header format"},
		{"bad token", "/private", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "/private", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			authRouter(tokens).ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tc.wantStatus, rr.Code, rr.Body.String())
			}
			if tc.wantMsg != "" {
				if env := decodeEnvelope(t, rr); env.Message != tc.wantMsg || env.Success {
					t.Errorf("unexpected envelope %+v", env)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := newTokens(t)
	router := authRouter(tokens, middleware.RequireRole("admin"))

	for _, tc := range []struct {
		roles      []string
		wantStatus int
	}{
		{[]string{"admin"}, http.StatusOK},
		{[]string{"user"}, http.StatusUnauthorized},
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/private", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tokens.Issue("user-1", tc.roles...).Value())
		router.ServeHTTP(rr, req)
		if rr.Code != tc.wantStatus {
			t.Errorf("roles %v: expected %d, got %d", tc.roles, tc.wantStatus, rr.Code)
		}
	}
}

func TestRequirePermission(t *testing.T) {
	tokens := newTokens(t)
	checker := authz.NewMapChecker(map[string][]string{
		"admin":  {"*:*"},
		"viewer": {"report:read"},
	})
	router := authRouter(tokens, middleware.RequirePermission(checker, "report:export"))

	for _, tc := range []struct {
		roles      []string
		wantStatus int
	}{
		{[]string{"admin"}, http.StatusOK},
		{[]string{"viewer", "admin"}, http.StatusOK},
		{[]string{"viewer"}, http.StatusUnauthorized},
		{nil, http.StatusUnauthorized},
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/private", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tokens.Issue("user-1", tc.roles...).Value())
		router.ServeHTTP(rr, req)
		if rr.Code != tc.wantStatus {
			t.Errorf("roles %v: expected %d, got %d", tc.roles, tc.wantStatus, rr.Code)
		}
	}
}
