package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/otel"
	"unires/internal/domains/availability/engine"
	"unires/internal/domains/availability/model/dto"
	reservationRepo "unires/internal/domains/reservation/repository"
	resource "unires/internal/domains/resource/model"
	resourceRepo "unires/internal/domains/resource/repository"
	"unires/shared"
	"unires/shared/cache"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
)

const (
	maxRangeDays         = 31
	availabilityCacheTTL = 30
)

type Availability interface {
	HasConflict(ctx context.Context, resourceID string, start, end time.Time) (dto.ConflictResponse, error)
	NextAvailableSlot(ctx context.Context, resourceID string, durationHours int, from time.Time) (dto.NextSlotResponse, error)
	DayAvailability(ctx context.Context, resourceID string, day time.Time) (dto.DayResponse, error)
	Gaps(ctx context.Context, resourceID string, start, end time.Time, minGapMinutes int) (dto.GapsResponse, error)
	Utilization(ctx context.Context, resourceID string, start, end time.Time) (dto.UtilizationResponse, error)
	Occupancy(ctx context.Context) (dto.OccupancyResponse, error)
}

type serviceImpl struct {
	resources    resourceRepo.Resource
	reservations reservationRepo.Reservation
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	clock        clock.Clock
	policy       engine.Policy
}

func New(resources resourceRepo.Resource, reservations reservationRepo.Reservation, cfg *config.Config, cache cache.RedisCache,
	otel otel.Otel, clk clock.Clock, policy engine.Policy,
) Availability {
	return &serviceImpl{
		resources:    resources,
		reservations: reservations,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		clock:        clk,
		policy:       policy,
	}
}

func (s *serviceImpl) HasConflict(ctx context.Context, resourceID string, start, end time.Time) (res dto.ConflictResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.HasConflict")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validateRange(start, end); err != nil {
		return res, err
	}

	target, err := s.loadResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	existing, err := s.reservations.FindOverlapping(ctx, resourceID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping reservations")

		return res, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	ids := engine.DemandOf(target, 1).Blocking(existing, start, end, constant.Empty)

	res.ResourceID = resourceID
	res.Conflict = len(ids) > 0
	res.ReservationIDs = append([]string{}, ids...)

	return res, nil
}

func (s *serviceImpl) NextAvailableSlot(ctx context.Context, resourceID string, durationHours int, from time.Time) (res dto.NextSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.NextAvailableSlot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	target, err := s.loadResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	if !target.Bookable() {
		return res, failure.NoSlotFound("the resource is not available for booking") // nolint:wrapcheck
	}

	if now := s.clock.Now(); from.Before(now) {
		from = now
	}

	policy := s.policy.ForResource(target)
	searchStart := policy.DayStart(from)
	searchEnd := searchStart.AddDate(0, 0, max(policy.HorizonDays, 1))

	existing, err := s.reservations.FindOverlapping(ctx, resourceID, searchStart, searchEnd)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping reservations")

		return res, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	slot, err := engine.NextAvailableSlot(existing, engine.DemandOf(target, 1), durationHours, from, policy)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.ResourceID = resourceID
	res.DurationHours = durationHours
	res.Slot.FromSlot(slot)

	return res, nil
}

func (s *serviceImpl) DayAvailability(ctx context.Context, resourceID string, day time.Time) (res dto.DayResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.DayAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	dayStart := s.policy.DayStart(day)
	cacheKey := shared.BuildCacheKey(constant.CachePrefixAvailabilityDay, resourceID, dayStart.Format(constant.DayFormat))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for day availability")

		return res, nil
	}

	target, err := s.loadResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	existing, err := s.reservations.ListForResources(ctx, []string{resourceID}, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for day")

		return res, fmt.Errorf("failed to list reservations for day: %w", err)
	}

	res.FromDay(engine.DayAvailability(target, dayStart, existing, s.policy))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, min(s.cfg.Cache.TTL, availabilityCacheTTL)); err != nil {
			log.Error().Err(err).Msg("failed to save day availability to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Gaps(ctx context.Context, resourceID string, start, end time.Time, minGapMinutes int) (res dto.GapsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Gaps")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validateRange(start, end); err != nil {
		return res, err
	}

	if minGapMinutes < 0 {
		return res, failure.BadRequestFromString("min_gap_minutes must not be negative")
	}

	if _, err = s.loadResource(ctx, resourceID); err != nil {
		return res, err
	}

	existing, err := s.reservations.ListForResources(ctx, []string{resourceID}, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for gaps")

		return res, fmt.Errorf("failed to list reservations for gaps: %w", err)
	}

	res.ResourceID = resourceID
	res.MinGapMinutes = minGapMinutes
	res.Gaps = dto.FromSlots(engine.Gaps(start, end, existing, minGapMinutes))

	return res, nil
}

func (s *serviceImpl) Utilization(ctx context.Context, resourceID string, start, end time.Time) (res dto.UtilizationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Utilization")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validateRange(start, end); err != nil {
		return res, err
	}

	target, err := s.loadResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	existing, err := s.reservations.ListForResources(ctx, []string{resourceID}, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for utilization")

		return res, fmt.Errorf("failed to list reservations for utilization: %w", err)
	}

	policy := s.policy.ForResource(target)
	days := int(math.Ceil(end.Sub(start).Hours() / constant.HoursInDay))

	res.ResourceID = resourceID
	res.Start = start.Format(constant.DateFormat)
	res.End = end.Format(constant.DateFormat)
	res.Days = days
	res.WindowHours = policy.WindowHours()
	res.Utilization = engine.Utilization(existing, start, end, days, float64(policy.WindowHours()))

	return res, nil
}

func (s *serviceImpl) Occupancy(ctx context.Context) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Occupancy")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock.Now()
	cacheKey := shared.BuildCacheKey(constant.CachePrefixOccupancy, now.Format("2006-01-02T15:04"))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	resources, err := s.resources.GetAll(ctx, gDto.QueryParams{SortBy: resource.FieldName, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to list resources")

		return res, fmt.Errorf("failed to list resources: %w", err)
	}

	ids := make([]string, len(resources))
	for i, r := range resources {
		ids[i] = r.ID
	}

	reservations, err := s.reservations.ListForResources(ctx, ids, now, now.AddDate(0, 0, s.policy.HorizonDays))
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for occupancy")

		return res, fmt.Errorf("failed to list reservations for occupancy: %w", err)
	}

	res.FromSnapshot(now, engine.Snapshot(resources, reservations, now))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, min(s.cfg.Cache.TTL, availabilityCacheTTL)); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) loadResource(ctx context.Context, id string) (resource.Resource, error) {
	target, err := s.resources.Get(ctx, shared.FilterByID(id, resource.FieldID, resource.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource")

		return target, fmt.Errorf("failed to get resource: %w", err)
	}

	if target.ID == constant.Empty {
		return target, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	return target, nil
}

func validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return failure.BadRequestFromString("start must be before end")
	}

	if end.Sub(start) > maxRangeDays*constant.HoursInDay*time.Hour {
		return failure.BadRequestFromString(fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}

	return nil
}
