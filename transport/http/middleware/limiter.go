package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"unires/shared"
	"unires/shared/constant"
	"unires/transport/http/response"
)

// RateLimit counts requests per client in fixed windows. Requests pass
// through untouched when the counter store is unreachable.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limits.Enable || limits.MaxRequests <= 0 {
			return next
		}

		window := max(limits.WindowSeconds, 1)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(constant.CachePrefixRateLimit, a.getClientIP(r), a.getUA(r))

			count, err := a.cache.Incr(r.Context(), key, window)
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limits.MaxRequests)-count), 10))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(window))

			if count > int64(limits.MaxRequests) {
				header.Set(constant.RequestHeaderRetryAfter, strconv.Itoa(window))
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.UserAgent(); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// getClientIP relies on chi's RealIP having already folded the proxy headers
// into RemoteAddr.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
