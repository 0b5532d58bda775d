package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"unires/config"
	"unires/infras/otel"
	"unires/internal/domains/reservation/service"
	"unires/shared/constant"
)

const defaultSweepInterval = time.Minute

// Sweeper periodically applies the time-driven transitions: approved
// reservations whose start has passed go IN_USE, IN_USE reservations past
// their end without a return are flagged overdue, and RETURNED ones complete.
type Sweeper struct {
	reservations service.Reservation
	cfg          *config.Config
	otel         otel.Otel
	limiter      *rate.Limiter
}

func NewSweeper(reservations service.Reservation, cfg *config.Config, otel otel.Otel) *Sweeper {
	limit := rate.Inf
	if rps := cfg.Reservation.Sweep.RatePerSecond; rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Sweeper{
		reservations: reservations,
		cfg:          cfg,
		otel:         otel,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// Run sweeps on every tick until ctx is cancelled. It returns nil on
// cancellation so it can sit in an errgroup next to the HTTP server.
func (w *Sweeper) Run(ctx context.Context) error {
	sweepCfg := w.cfg.Reservation.Sweep
	if !sweepCfg.Enable {
		log.Info().Msg("reservation sweep disabled")

		return nil
	}

	interval := time.Duration(sweepCfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("reservation sweep started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reservation sweep stopped")

			return nil
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("reservation sweep failed")
			}
		}
	}
}

// Sweep runs one batch and reports how many reservations changed state.
// A failure on one reservation is logged and does not stop the batch.
func (w *Sweeper) Sweep(ctx context.Context) (changed int, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".reservation.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ids, err := w.reservations.SweepCandidates(ctx, w.cfg.Reservation.Sweep.BatchSize)
	if err != nil {
		return 0, err
	}

	failed := 0

	for _, id := range ids {
		if err = w.limiter.Wait(ctx); err != nil {
			return changed, err
		}

		ok, sweepErr := w.reservations.SweepOne(ctx, id)
		if sweepErr != nil {
			log.Error().Err(sweepErr).Str("reservation_id", id).Msg("failed to sweep reservation")

			failed++

			continue
		}

		if ok {
			changed++
		}
	}

	scope.SetAttributes(map[string]any{
		"sweep.candidates": len(ids),
		"sweep.changed":    changed,
		"sweep.failed":     failed,
	})

	if len(ids) > 0 {
		log.Info().Int("candidates", len(ids)).Int("changed", changed).Int("failed", failed).Msg("reservation sweep completed")
	}

	return changed, nil
}
