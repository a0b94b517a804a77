package httpx

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// Router defaults, used when the matching ServerConfig field is zero.
const (
	DefaultRateLimit      = 120
	DefaultMaxBodyBytes   = 2 << 20 // room for a 1 MiB template upload plus JSON overhead
	DefaultRequestTimeout = 30 * time.Second
)

// ServerConfig holds the options for NewRouter.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	// RateLimit is requests per minute per client IP; negative disables it.
	RateLimit      int
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Middlewares are the app-specific handlers NewRouter places ahead of its
// own stack. Nil entries are skipped.
type Middlewares struct {
	Recovery func(http.Handler) http.Handler // catches panics that re-panic from Sentry
	Sentry   func(http.Handler) http.Handler
	Otel     func(http.Handler) http.Handler
	Logger   func(http.Handler) http.Handler
}

// NewRouter returns a chi.Mux pre-wired with the standard middleware stack.
//
// Order, outermost first:
//  1. Recovery
//  2. Sentry (Repanic: true)
//  3. RequestID        : unique X-Request-Id per request
//  4. Otel             : span per request
//  5. Logger           : logs request + trace_id/span_id
//  6. RealIP           : sets RemoteAddr from X-Forwarded-For
//  7. rate limit       : per IP, JSON 429
//  8. CORS
//  9. body limit
//  10. Timeout
//  11. security headers: CSP, HSTS, X-Frame-Options, Permissions-Policy
func NewRouter(cfg ServerConfig, mw Middlewares) *chi.Mux {
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=(), magnetometer=(), gyroscope=()",
		IsDevelopment:         cfg.IsDevelopment,
	})

	stack := make([]func(http.Handler) http.Handler, 0, 11)
	for _, m := range []func(http.Handler) http.Handler{mw.Recovery, mw.Sentry, middleware.RequestID, mw.Otel, mw.Logger} {
		if m != nil {
			stack = append(stack, m)
		}
	}
	stack = append(stack, middleware.RealIP)
	if limit := orDefault(cfg.RateLimit, DefaultRateLimit); limit > 0 {
		stack = append(stack, RateLimit(limit, time.Minute))
	}
	stack = append(stack,
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(orDefault(cfg.MaxBodyBytes, DefaultMaxBodyBytes)),
		middleware.Timeout(orDefault(cfg.RequestTimeout, DefaultRequestTimeout)),
		sec.Handler,
	)

	r := chi.NewRouter()
	r.Use(stack...)
	return r
}

func orDefault[T int | int64 | time.Duration](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}

// RateLimit allows limit requests per window per client IP and answers
// excess requests with a JSON 429.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			JSONError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
// allowedOrigins is a comma-separated list (e.g. "https://app.example.com,http://localhost:3000").
// Pass "*" to allow all origins (development only). Credentials (the
// workspace session cookie) are allowed only for explicitly listed origins.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "Link", "X-Request-Id"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit returns middleware that caps the request body at maxBytes.
// Reads past the cap fail with *http.MaxBytesError, which handlers turn
// into a 413.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server whose write timeout leaves room for the
// handler deadline.
func NewServer(addr string, handler http.Handler, handlerTimeout time.Duration) *http.Server {
	handlerTimeout = orDefault(handlerTimeout, DefaultRequestTimeout)
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      handlerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
