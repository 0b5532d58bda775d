package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"unires/config"
	"unires/infras/otel"
	"unires/shared/cache"
	"unires/shared/constant"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	RequestID(next http.Handler) http.Handler
	Tracing(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens a span per request, named after the matched route pattern when chi knows it.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.Routes != nil {
			if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != "" {
				route = pattern
			}
		}

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", r.Method, route))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.route":      route,
			"http.method":     r.Method,
			"http.user_agent": a.getUA(r),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
			"http.request_id": chiMiddleware.GetReqID(r.Context()),
		})

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		scope.SetAttribute("http.status_code", status)

		if status >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("%s %s responded %d", r.Method, route, status))
		}
	})
}

// RequestID assigns a request id (or keeps the caller's) and echoes it back.
func (a *appMiddleware) RequestID(next http.Handler) http.Handler {
	return chiMiddleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chiMiddleware.GetReqID(r.Context()); id != constant.Empty {
			w.Header().Set(constant.RequestHeaderRequestID, id)
		}

		next.ServeHTTP(w, r)
	}))
}
