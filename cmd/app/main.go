package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"unires/config"
	"unires/di"
	"unires/helper"
	"unires/shared/logger"
)

const closeTimeout = 10 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeApp()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return app.HTTP.Serve(groupCtx) })
	group.Go(func() error { return app.Sweeper.Run(groupCtx) })
	group.Go(func() error { return app.Inbox.Run(groupCtx) })

	err := group.Wait()
	if err != nil {
		log.Error().Err(err).Msg("Service stopped with error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if closeErr := app.Close(closeCtx); closeErr != nil {
		log.Error().Err(closeErr).Msg("Failed to release resources")
	}

	if err != nil {
		os.Exit(1)
	}
}
