package di

import (
	"context"
	"errors"

	goRedis "github.com/redis/go-redis/v9"

	"unires/infras/kafka"
	"unires/infras/otel"
	"unires/infras/postgres"
	notificationService "unires/internal/domains/notification/service"
	"unires/internal/worker"
	"unires/transport/http"
)

// App is every long-running process of the service plus the clients that
// must be released on exit.
type App struct {
	HTTP    *http.HTTP
	Sweeper *worker.Sweeper
	Inbox   notificationService.Inbox
	Otel    otel.Otel
	Kafka   kafka.Client
	DB      *postgres.Connection
	Redis   *goRedis.Client
}

func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Kafka.Close(),
		a.DB.Close(),
		a.Redis.Close(),
		a.Otel.Shutdown(ctx),
	)
}
