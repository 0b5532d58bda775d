package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/shared/constant"
	"unires/transport/http/middleware"
	"unires/transport/http/response"
	"unires/transport/http/router"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout      = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	App    middleware.AppMiddleware
	Auth   middleware.AuthRole

	state atomic.Int32
	once  sync.Once
	mux   *chi.Mux
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, auth middleware.AuthRole) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		App:    app,
		Auth:   auth,
	}
}

// State reports where the server is in its shutdown sequence.
func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// ServeHTTP lets the router run behind a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.mux.ServeHTTP(w, r)
}

// Serve listens until ctx is cancelled, then drains through the grace and
// cleanup periods before shutting the listener down.
func (h *HTTP) Serve(ctx context.Context) error {
	h.setup()

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := h.drain()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server gracefully")

		return err
	}

	log.Info().Msg("HTTP server stopped.")

	return nil
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.state.Store(int32(ServerStateReady))
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(h.App.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)

	if corsCfg := h.Config.App.CORS; corsCfg.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsCfg.AllowedOrigins,
			AllowedMethods:   corsCfg.AllowedMethods,
			AllowedHeaders:   corsCfg.AllowedHeaders,
			AllowCredentials: corsCfg.AllowCredentials,
			MaxAge:           corsCfg.MaxAgeSeconds,
			ExposedHeaders: []string{
				constant.RequestHeaderRequestID,
				constant.RequestHeaderRateLimit,
				constant.RequestHeaderRateLimitRemaining,
				constant.RequestHeaderRateLimitWindow,
			},
		}))
	}

	h.mux.Use(h.App.Tracing, h.App.RateLimit())

	h.mux.Get("/health", h.health)

	h.mux.Group(func(r chi.Router) {
		r.Use(h.Auth.APIKey, h.Auth.Auth, h.Auth.RBAC)
		h.Router.SetupRoutes(r)
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

// drain walks the grace and cleanup periods and returns the time left for
// in-flight requests.
func (h *HTTP) drain() time.Duration {
	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received shutdown signal. Shutting down now.")

		return defaultShutdownTimeout
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	if shutdownConfig.CleanupPeriodSeconds <= 0 {
		return defaultShutdownTimeout
	}

	return time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second
}
