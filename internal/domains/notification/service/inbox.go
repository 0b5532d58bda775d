package service

//go:generate go run go.uber.org/mock/mockgen -source=./inbox.go -destination=../mocks/inbox_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"unires/config"
	"unires/infras/kafka"
	"unires/infras/otel"
	"unires/internal/domains/notification/model"
	"unires/internal/domains/notification/model/dto"
	"unires/internal/domains/notification/repository"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
)

// Inbox stores delivered notifications and serves them to their recipients.
type Inbox interface {
	Run(ctx context.Context) error
	Handle(ctx context.Context, message kafkaGo.Message) error
	ListMine(ctx context.Context, params gDto.QueryParams) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
}

type inboxImpl struct {
	repo  repository.Notification
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
	clock clock.Clock
}

func NewInbox(repo repository.Notification, kafka kafka.Client, cfg *config.Config, otel otel.Otel, clk clock.Clock) Inbox {
	return &inboxImpl{
		repo:  repo,
		kafka: kafka,
		cfg:   cfg,
		otel:  otel,
		clock: clk,
	}
}

// Run consumes the notification topic until ctx is cancelled.
func (s *inboxImpl) Run(ctx context.Context) error {
	log.Info().Str("topic", s.cfg.Kafka.Topics.Notification).Msg("notification inbox consumer started")

	return s.kafka.Consume(ctx, s.cfg.Kafka.ConsumerGroup, s.cfg.Kafka.Topics.Notification, s.Handle) //nolint:wrapcheck
}

func (s *inboxImpl) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	msg, err := kafka.Decode[model.Message](message)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode notification")

		return fmt.Errorf("failed to decode notification: %w", err)
	}

	if msg.Recipient == constant.Empty {
		log.Warn().Str("subject", msg.Subject).Msg("dropping notification without recipient")

		return nil
	}

	notification := model.Notification{
		ID:            uuid.NewString(),
		Recipient:     msg.Recipient,
		Subject:       msg.Subject,
		Body:          msg.Body,
		Type:          msg.Type,
		ReservationID: msg.ReservationID,
		CreatedAt:     s.clock.Now(),
	}

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Msg("failed to store notification")

		return fmt.Errorf("failed to store notification: %w", err)
	}

	return nil
}

func (s *inboxImpl) ListMine(ctx context.Context, params gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.ListMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	recipients := recipientsFor(ctx)
	if len(recipients) == 0 {
		return res, failure.Unauthorized("missing user identity")
	}

	notifications, total, err := s.repo.ListForRecipients(ctx, recipients, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to list notifications")

		return res, fmt.Errorf("failed to list notifications: %w", err)
	}

	res.FromModels(notifications, total, params.Limit)

	return res, nil
}

func (s *inboxImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	recipients := recipientsFor(ctx)
	if len(recipients) == 0 {
		return failure.Unauthorized("missing user identity")
	}

	updated, err := s.repo.MarkRead(ctx, id, recipients, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if !updated {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	return nil
}

// recipientsFor lists the inbox addresses of the calling user: the user
// itself plus the role groups it belongs to.
func recipientsFor(ctx context.Context) []string {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return nil
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	switch role {
	case constant.RoleSuperAdmin:
		return []string{userID, model.RecipientAdmins, model.RecipientHods}
	case constant.RoleAdmin, constant.RoleHod:
		return []string{userID, model.RoleRecipient(role)}
	default:
		return []string{userID}
	}
}
