package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/otel"
	"unires/internal/domains/resource/model"
	"unires/internal/domains/resource/model/dto"
	"unires/internal/domains/resource/repository"
	"unires/shared"
	"unires/shared/cache"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
)

type Resource interface {
	Create(ctx context.Context, req dto.CreateResourceRequest) (dto.ResourceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetResourcesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ResourceResponse, error)
	Update(ctx context.Context, req dto.UpdateResourceRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Resource
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	clock clock.Clock
}

func New(repo repository.Resource, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clk clock.Clock) Resource {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		clock: clk,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateResourceRequest) (res dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if (req.OpenHour != 0 || req.CloseHour != 0) && req.CloseHour <= req.OpenHour {
		return res, failure.BadRequestFromString("close_hour must be after open_hour")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	resource := req.ToModel(user, s.clock.Now())

	if err = s.repo.Insert(ctx, resource); err != nil {
		log.Error().Err(err).Msg("failed to create resource")

		return res, fmt.Errorf("failed to create resource: %w", err)
	}

	res.FromModel(resource)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceGets)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceCount)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixOccupancy)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetResourcesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CachePrefixResourceGets, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resources")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count resources")

		return res, fmt.Errorf("failed to count resources: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get resources")

		return res, fmt.Errorf("failed to get resources: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resources to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CachePrefixResourceCount, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resource count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count resources")

		return res, fmt.Errorf("failed to count resources: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resource count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(constant.CachePrefixResource, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resource")

		return res, nil
	}

	resource, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource")

		return res, fmt.Errorf("failed to get resource: %w", err)
	}

	if resource.ID == constant.Empty {
		return res, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	res.FromModel(resource)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resource to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateResourceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check resource existence")

		return fmt.Errorf("failed to get resource: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("resource not found") // nolint:wrapcheck
	}

	if _, _, ok := req.Hours(current); !ok {
		return failure.BadRequestFromString("close_hour must be after open_hour")
	}

	updatedFields := shared.TransformFields(req, user)
	updatedFields[constant.FieldModifiedAt] = s.clock.Now()

	if req.Quantity != nil {
		if current.Kind != model.KindEquipment {
			return failure.BadRequestFromString("only equipment has a unit quantity")
		}

		updatedFields[model.FieldAvailableQuantity] = adjustAvailable(current, *req.Quantity)
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update resource")

		return fmt.Errorf("failed to update resource: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CachePrefixResource, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete resource cache")
		}

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceGets)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceCount)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(constant.CachePrefixAvailabilityDay, id))
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixOccupancy)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if resource exists")

		return fmt.Errorf("failed to check if resource exists: %w", err)
	}

	if !exist {
		return failure.NotFound("resource not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete resource")

		return fmt.Errorf("failed to delete resource: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CachePrefixResource, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete resource from cache")
		}

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceGets)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceCount)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixOccupancy)
	}()

	return nil
}

// adjustAvailable shifts the free units by the change in pool size. Units
// currently lent out stay lent out.
func adjustAvailable(current model.Resource, quantity int) int {
	available := current.AvailableQuantity + quantity - current.Quantity

	return max(0, min(available, quantity))
}
