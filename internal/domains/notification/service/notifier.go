package service

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=../mocks/notifier_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/kafka"
	"unires/infras/otel"
	"unires/internal/domains/notification/model"
	"unires/shared/constant"
)

// Notifier hands messages to the delivery pipeline. Delivery is best effort:
// failures are logged and never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, messages ...model.Message)
}

type notifierImpl struct {
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func NewNotifier(kafka kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		kafka: kafka,
		cfg:   cfg,
		otel:  otel,
	}
}

func (n *notifierImpl) Notify(ctx context.Context, messages ...model.Message) {
	if len(messages) == 0 {
		return
	}

	ctx, scope := n.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Notify")
	defer scope.End()

	batch := make([]kafka.Message, len(messages))
	for i, msg := range messages {
		batch[i] = kafka.Message{Key: msg.Recipient, Value: msg}
	}

	if err := n.kafka.SendMessages(ctx, n.cfg.Kafka.Topics.Notification, batch...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("count", len(messages)).Msg("failed to publish notifications")
	}
}
