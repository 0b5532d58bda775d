package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"unires/config"
	"unires/infras/otel/mocks"
	cacheMocks "unires/shared/cache/mocks"
	"unires/shared/constant"
	"unires/transport/http/middleware"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		count      int64
		incrErr    error
		wantStatus int
		remaining  string
	}{
		{name: "first request in window", count: 1, wantStatus: http.StatusOK, remaining: "2"},
		{name: "last allowed request", count: 3, wantStatus: http.StatusOK, remaining: "0"},
		{name: "over the limit", count: 4, wantStatus: http.StatusTooManyRequests, remaining: "0"},
		{name: "counter store down", incrErr: errors.New("redis down"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := cacheMocks.NewMockRedisCache(ctrl)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = true
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			store.EXPECT().Incr(gomock.Any(), "ratelimit:10.0.0.7:campus-app", 60).Return(tt.count, tt.incrErr)

			limited := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, store).RateLimit()(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
			)

			req := httptest.NewRequest(http.MethodGet, "/v1/resources", nil)
			req.RemoteAddr = "10.0.0.7:52100"
			req.Header.Set("User-Agent", "campus-app")

			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.remaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))

			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "60", rec.Header().Get(constant.RequestHeaderRetryAfter))
			}
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := cacheMocks.NewMockRedisCache(ctrl)

	limited := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, store).RateLimit()(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
