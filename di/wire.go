//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"unires/config"
	"unires/infras/jwt"
	"unires/infras/kafka"
	"unires/infras/otel"
	"unires/infras/postgres"
	"unires/infras/redis"
	"unires/infras/s3"
	"unires/internal/domains/availability/engine"
	"unires/internal/worker"
	"unires/permissions"
	"unires/shared/cache"
	"unires/shared/clock"
	"unires/transport/http"
	"unires/transport/http/middleware"
	"unires/transport/http/router"

	availabilityService "unires/internal/domains/availability/service"
	dashboardService "unires/internal/domains/dashboard/service"
	notificationRepository "unires/internal/domains/notification/repository"
	notificationService "unires/internal/domains/notification/service"
	reservationRepository "unires/internal/domains/reservation/repository"
	reservationService "unires/internal/domains/reservation/service"
	resourceRepository "unires/internal/domains/resource/repository"
	resourceService "unires/internal/domains/resource/service"
	gRepository "unires/shared/repository"

	availabilityHandler "unires/internal/handlers/availability"
	dashboardHandler "unires/internal/handlers/dashboard"
	notificationHandler "unires/internal/handlers/notification"
	reservationHandler "unires/internal/handlers/reservation"
	resourceHandler "unires/internal/handlers/resource"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	gRepository.NewTransactor,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.NewNotifier,
	notificationService.NewInbox,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var availabilityDomain = wire.NewSet(
	engine.NewPolicy,
	availabilityService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardService.New,
)

var domains = wire.NewSet(
	resourceDomain,
	notificationDomain,
	reservationDomain,
	availabilityDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	resourceHandler.New,
	reservationHandler.New,
	availabilityHandler.New,
	dashboardHandler.New,
	notificationHandler.New,
	router.New,
)

var workers = wire.NewSet(
	worker.NewSweeper,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
