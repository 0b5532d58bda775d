package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/otel"
	"unires/infras/s3"
	"unires/internal/domains/dashboard/builder"
	"unires/internal/domains/dashboard/model/dto"
	reservationRepo "unires/internal/domains/reservation/repository"
	resource "unires/internal/domains/resource/model"
	resourceRepo "unires/internal/domains/resource/repository"
	"unires/shared/cache"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	"unires/shared/timezone"
)

const (
	DefaultDays = 30
	MaxDays     = 365

	exportDirectory = "reports"
	exportTTL       = 0
)

type Dashboard interface {
	Report(ctx context.Context, days int) (dto.DashboardResponse, error)
	Export(ctx context.Context, days int) (dto.ExportResponse, error)
}

type serviceImpl struct {
	resources    resourceRepo.Resource
	reservations reservationRepo.Reservation
	s3           s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	clock        clock.Clock
}

func New(resources resourceRepo.Resource, reservations reservationRepo.Reservation, s3 s3.S3, cfg *config.Config,
	cache cache.RedisCache, otel otel.Otel, clk clock.Clock,
) Dashboard {
	return &serviceImpl{
		resources:    resources,
		reservations: reservations,
		s3:           s3,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		clock:        clk,
	}
}

// Report summarises the days leading up to now.
func (s *serviceImpl) Report(ctx context.Context, days int) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Report")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if days <= 0 || days > MaxDays {
		return res, failure.BadRequestFromString(fmt.Sprintf("days must be between 1 and %d", MaxDays))
	}

	now := s.clock.Now()
	start := now.AddDate(0, 0, -days)

	resources, err := s.resources.GetAll(ctx, gDto.QueryParams{SortBy: resource.FieldName, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to list resources")

		return res, fmt.Errorf("failed to list resources: %w", err)
	}

	reservations, err := s.reservations.ListBetween(ctx, start, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations for dashboard")

		return res, fmt.Errorf("failed to list reservations for dashboard: %w", err)
	}

	res.FromReport(builder.Build(resources, reservations, now, timezone.GetLocation()), start, now)

	return res, nil
}

// Export uploads the report as JSON and replaces the previous export.
func (s *serviceImpl) Export(ctx context.Context, days int) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	report, err := s.Report(ctx, days)
	if err != nil {
		return res, err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode dashboard report")

		return res, fmt.Errorf("failed to encode dashboard report: %w", err)
	}

	fileName := fmt.Sprintf("dashboard-%s.json", s.clock.Now().UTC().Format("20060102T150405Z"))

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, exportDirectory, fileName, constant.ContentTypeJSON, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload dashboard report")

		return res, fmt.Errorf("failed to upload dashboard report: %w", err)
	}

	var previous string
	if cacheErr := s.cache.Get(ctx, constant.CacheKeyDashboardExport, &previous); cacheErr == nil && previous != url {
		go s.deleteExport(context.WithoutCancel(ctx), previous)
	}

	if err := s.cache.Save(ctx, constant.CacheKeyDashboardExport, url, exportTTL); err != nil {
		log.Error().Err(err).Msg("failed to remember dashboard export")
	}

	res.URL = url
	res.GeneratedAt = report.GeneratedAt

	return res, nil
}

func (s *serviceImpl) deleteExport(ctx context.Context, url string) {
	bucket := s.cfg.External.S3.BucketName

	objectName := s.s3.GetObjectNameFromURL(bucket, url)
	if objectName == constant.Empty {
		log.Warn().Str("url", url).Msg("previous dashboard export is not ours, leaving it")

		return
	}

	if err := s.s3.DeleteFile(ctx, bucket, constant.Empty, objectName); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to delete previous dashboard export")
	}
}
