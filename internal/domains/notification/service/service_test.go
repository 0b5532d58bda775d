package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"unires/config"
	"unires/infras/kafka"
	kafkaMocks "unires/infras/kafka/mocks"
	"unires/infras/otel/mocks"
	notificationMocks "unires/internal/domains/notification/mocks"
	"unires/internal/domains/notification/model"
	"unires/internal/domains/notification/service"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "unires"
	cfg.Kafka.Topics.Notification = "reservation.notifications"

	return cfg
}

func userCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestNotifier_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	notifier := service.NewNotifier(client, testConfig(), mocks.NewOtel())

	messages := []model.Message{
		{Recipient: "user-1", Subject: "Approved", Type: model.TypeReservationApproved},
		{Recipient: model.RecipientAdmins, Subject: "New request", Type: model.TypeReservationCreated},
	}

	t.Run("publishes keyed by recipient", func(t *testing.T) {
		client.EXPECT().
			SendMessages(gomock.Any(), "reservation.notifications", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, batch ...kafka.Message) error {
				require.Len(t, batch, 2)
				assert.Equal(t, "user-1", batch[0].Key)
				assert.Equal(t, model.RecipientAdmins, batch[1].Key)

				return nil
			})

		notifier.Notify(context.Background(), messages...)
	})

	t.Run("broker failure is swallowed", func(t *testing.T) {
		client.EXPECT().
			SendMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("broker down"))

		notifier.Notify(context.Background(), messages...)
	})

	t.Run("nothing to send", func(t *testing.T) {
		notifier.Notify(context.Background())
	})
}

func TestInbox_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := notificationMocks.NewMockNotification(ctrl)
	inbox := service.NewInbox(repo, kafkaMocks.NewMockClient(ctrl), testConfig(), mocks.NewOtel(), clock.NewFixed(now))

	encode := func(msg model.Message) kafkaGo.Message {
		value, err := json.Marshal(msg)
		require.NoError(t, err)

		return kafkaGo.Message{Value: value}
	}

	t.Run("stores the notification", func(t *testing.T) {
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.NotEmpty(t, n.ID)
				assert.Equal(t, "user-1", n.Recipient)
				assert.Equal(t, "res-1", n.ReservationID)
				assert.Equal(t, model.TypeExtensionApproved, n.Type)
				assert.Equal(t, now, n.CreatedAt)
				assert.Nil(t, n.ReadAt)

				return nil
			})

		err := inbox.Handle(context.Background(), encode(model.Message{
			Recipient: "user-1", Subject: "Extension approved", Type: model.TypeExtensionApproved, ReservationID: "res-1",
		}))
		assert.NoError(t, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		err := inbox.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")})
		assert.Error(t, err)
	})

	t.Run("missing recipient is dropped", func(t *testing.T) {
		err := inbox.Handle(context.Background(), encode(model.Message{Subject: "orphan"}))
		assert.NoError(t, err)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		err := inbox.Handle(context.Background(), encode(model.Message{Recipient: "user-1"}))
		assert.Error(t, err)
	})
}

func TestInbox_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	inbox := service.NewInbox(notificationMocks.NewMockNotification(ctrl), client, testConfig(), mocks.NewOtel(), clock.NewFixed(now))

	client.EXPECT().Consume(gomock.Any(), "unires", "reservation.notifications", gomock.Any()).Return(nil)

	assert.NoError(t, inbox.Run(context.Background()))
}

func TestInbox_ListMine(t *testing.T) {
	tests := []struct {
		name           string
		ctx            context.Context
		wantRecipients []string
	}{
		{name: "plain user", ctx: userCtx("user-1", constant.RoleUser), wantRecipients: []string{"user-1"}},
		{name: "admin sees admin broadcasts", ctx: userCtx("admin-1", constant.RoleAdmin), wantRecipients: []string{"admin-1", model.RecipientAdmins}},
		{name: "hod sees hod broadcasts", ctx: userCtx("hod-1", constant.RoleHod), wantRecipients: []string{"hod-1", model.RecipientHods}},
		{name: "superadmin sees both", ctx: userCtx("root", constant.RoleSuperAdmin), wantRecipients: []string{"root", model.RecipientAdmins, model.RecipientHods}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := notificationMocks.NewMockNotification(ctrl)
			inbox := service.NewInbox(repo, kafkaMocks.NewMockClient(ctrl), testConfig(), mocks.NewOtel(), clock.NewFixed(now))

			readAt := now
			repo.EXPECT().
				ListForRecipients(gomock.Any(), tt.wantRecipients, gomock.Any()).
				Return([]model.Notification{{ID: "n-1", CreatedAt: now}, {ID: "n-2", CreatedAt: now, ReadAt: &readAt}}, 2, nil)

			res, err := inbox.ListMine(tt.ctx, gDto.QueryParams{Page: 1, Limit: 10})
			require.NoError(t, err)

			assert.Len(t, res.Notifications, 2)
			assert.Equal(t, 1, res.Unread)
			assert.Equal(t, 2, res.TotalData)
			assert.NotNil(t, res.Notifications[1].ReadAt)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inbox := service.NewInbox(notificationMocks.NewMockNotification(ctrl), kafkaMocks.NewMockClient(ctrl), testConfig(), mocks.NewOtel(), clock.NewFixed(now))

		_, err := inbox.ListMine(context.Background(), gDto.QueryParams{})
		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestInbox_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := notificationMocks.NewMockNotification(ctrl)
	inbox := service.NewInbox(repo, kafkaMocks.NewMockClient(ctrl), testConfig(), mocks.NewOtel(), clock.NewFixed(now))

	repo.EXPECT().MarkRead(gomock.Any(), "n-1", []string{"user-1"}, now).Return(true, nil)
	assert.NoError(t, inbox.MarkRead(userCtx("user-1", constant.RoleUser), "n-1"))

	repo.EXPECT().MarkRead(gomock.Any(), "n-2", []string{"user-1"}, now).Return(false, nil)
	assert.Equal(t, 404, failure.GetCode(inbox.MarkRead(userCtx("user-1", constant.RoleUser), "n-2")))
}
