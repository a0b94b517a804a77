package httpx_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghuser/itemforge/pkg/httpx"
)

// newTestRouter returns the standard router with an export-like route that
// answers with a download.
func newTestRouter(origins string) http.Handler {
	r := httpx.NewRouter(
		httpx.ServerConfig{ServiceName: "itemforge-test", CORSAllowedOrigins: origins, RateLimit: -1},
		httpx.Middlewares{},
	)
	r.Post("/api/item/templates/{fileName}/export", func(w http.ResponseWriter, r *http.Request) {
		httpx.Attachment(w, "STONE_bukkit_item.yml", "text/yaml", "material: STONE\n")
	})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		httpx.Text(w, http.StatusOK, "text/plain", string(body))
	})
	return r
}

func TestRouter_SecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter("*").ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/item/templates/bukkit_item.yml/export", http.NoBody))

	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, expected := range checks {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}
	// HSTS is only set over HTTPS; plain HTTP requests omit it.
	if got := rr.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("unexpected HSTS header on plain HTTP: %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != "attachment; filename=STONE_bukkit_item.yml" {
		t.Errorf("Content-Disposition: got %q", got)
	}
}

func TestRouter_CORSExposesContentDisposition(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/item/templates/bukkit_item.yml/export", http.NoBody)
	req.Header.Set("Origin", "https://designer.example.com")

	rr := httptest.NewRecorder()
	newTestRouter("https://designer.example.com").ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://designer.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Fatalf("Access-Control-Expose-Headers = %q, want Content-Disposition", got)
	}
	// Listed origins may send the workspace session cookie.
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("Access-Control-Allow-Credentials = %q, want true", got)
	}
}

func TestRouter_CORSWildcardWithoutCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/item/templates/bukkit_item.yml/export", http.NoBody)
	req.Header.Set("Origin", "https://anywhere.example.com")

	rr := httptest.NewRecorder()
	newTestRouter("*").ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("wildcard origins must not allow credentials, got %q", got)
	}
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/item/templates/bukkit_item.yml/export", http.NoBody)
	req.Header.Set("Origin", "https://evil.example.com")

	rr := httptest.NewRecorder()
	newTestRouter("https://designer.example.com").ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected Access-Control-Allow-Origin %q", got)
	}
}

// TestRequestBodyLimit_WithinLimit verifies requests under the cap pass through.
func TestRequestBodyLimit_WithinLimit(t *testing.T) {
	h := httpx.RequestBodyLimit(100)(newTestRouter("*"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 50))))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.Len() != 50 {
		t.Fatalf("expected 50 bytes echoed, got %d", rr.Body.Len())
	}
}

// TestRequestBodyLimit_ExceedsLimit verifies that reading beyond the cap surfaces a MaxBytesError.
func TestRequestBodyLimit_ExceedsLimit(t *testing.T) {
	h := httpx.RequestBodyLimit(10)(newTestRouter("*"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 11))))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestRouter_BodyLimitFromConfig(t *testing.T) {
	r := httpx.NewRouter(httpx.ServerConfig{CORSAllowedOrigins: "*", RateLimit: -1, MaxBodyBytes: 16}, httpx.Middlewares{})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 17))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	r := httpx.NewRouter(httpx.ServerConfig{CORSAllowedOrigins: "*", RateLimit: 2}, httpx.Middlewares{})
	r.Get("/api/item/templates", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/item/templates", http.NoBody)
		req.RemoteAddr = "203.0.113.7:4000"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v, want [200 200 429]", codes)
	}

	// A different client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/item/templates", http.NoBody)
	req.RemoteAddr = "198.51.100.9:4000"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", rr.Code)
	}
}

func TestRouter_AppMiddlewaresRunOutermost(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	r := httpx.NewRouter(httpx.ServerConfig{CORSAllowedOrigins: "*", RateLimit: -1}, httpx.Middlewares{
		Recovery: tag("recovery"),
		Otel:     tag("otel"),
		Logger:   tag("logger"),
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if strings.Join(order, ",") != "recovery,otel,logger" {
		t.Fatalf("middleware order = %v", order)
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	tests := []struct {
		name      string
		timeout   time.Duration
		wantWrite time.Duration
	}{
		{"default", 0, httpx.DefaultRequestTimeout + 5*time.Second},
		{"custom", 2 * time.Minute, 2*time.Minute + 5*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httpx.NewServer(":9090", http.NotFoundHandler(), tt.timeout)
			if srv.Addr != ":9090" || srv.ReadHeaderTimeout == 0 || srv.ReadTimeout == 0 {
				t.Fatalf("unexpected server config: %+v", srv)
			}
			if srv.WriteTimeout != tt.wantWrite {
				t.Fatalf("WriteTimeout = %v, want %v", srv.WriteTimeout, tt.wantWrite)
			}
		})
	}
}
