package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"unires/config"
	"unires/infras/otel/mocks"
	notificationMocks "unires/internal/domains/notification/mocks"
	notificationModel "unires/internal/domains/notification/model"
	reservationMocks "unires/internal/domains/reservation/mocks"
	"unires/internal/domains/reservation/model"
	"unires/internal/domains/reservation/model/dto"
	"unires/internal/domains/reservation/service"
	resourceMocks "unires/internal/domains/resource/mocks"
	resource "unires/internal/domains/resource/model"
	cacheMocks "unires/shared/cache/mocks"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	gRepo "unires/shared/repository"
	txMocks "unires/shared/repository/mocks"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *reservationMocks.MockReservationRepository
	resources *resourceMocks.MockResource
	tx        *txMocks.MockTransactor
	notifier  *notificationMocks.MockNotifier
	cache     *cacheMocks.MockRedisCache
	svc       service.Reservation
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Reservation.DailyExtensionCapHours = 3.0

	f := fixture{
		repo:      reservationMocks.NewMockReservationRepository(ctrl),
		resources: resourceMocks.NewMockResource(ctrl),
		tx:        txMocks.NewMockTransactor(ctrl),
		notifier:  notificationMocks.NewMockNotifier(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.resources, f.tx, f.notifier, cfg, f.cache, mocks.NewOtel(), clock.NewFixed(now))

	f.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error { return fn(ctx, nil) }).
		AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userCtx(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func ownerCtx() context.Context {
	return userCtx("user-1", constant.RoleUser)
}

func adminCtx() context.Context {
	return userCtx("admin-1", constant.RoleAdmin)
}

func room() resource.Resource {
	return resource.Resource{ID: "room-1", Kind: resource.KindRoom, Name: "Room A", Available: true}
}

func projector() resource.Resource {
	return resource.Resource{ID: "projector-1", Kind: resource.KindEquipment, Name: "Projector", Quantity: 4, AvailableQuantity: 4, Available: true}
}

func equipmentRequest(status model.Status) model.Reservation {
	return model.Reservation{
		ID:         "r-1",
		Kind:       model.KindEquipmentRequest,
		ResourceID: "projector-1",
		UserID:     "user-1",
		Quantity:   2,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     status,
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestReservationService_Create(t *testing.T) {
	start, end := now.Add(2*time.Hour), now.Add(4*time.Hour)

	tests := []struct {
		name       string
		ctx        context.Context
		req        dto.CreateReservationRequest
		setupMock  func(f fixture)
		wantCode   int
		wantReason failure.Reason
		wantRefs   []string
	}{
		{
			name: "room booking awaits approval",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
				f.repo.EXPECT().FindOverlapping(gomock.Any(), "room-1", start, end).
					Return([]model.Reservation{{ID: "old", StartTime: now, EndTime: start, Status: model.StatusApproved}}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r model.Reservation) error {
						assert.Equal(t, model.StatusPending, r.Status)
						assert.Equal(t, "user-1", r.UserID)

						return nil
					})
			},
		},
		{
			name: "overlap is a conflict",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
				f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Reservation{{ID: "busy", StartTime: start, EndTime: end, Status: model.StatusPending}}, nil)
			},
			wantCode:   409,
			wantReason: failure.ReasonConflict,
			wantRefs:   []string{"busy"},
		},
		{
			name: "equipment pool has room",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindEquipmentRequest, ResourceID: "projector-1", Quantity: 2, StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(projector(), nil)
				f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Reservation{{ID: "other", StartTime: start, EndTime: end, Quantity: 2, Status: model.StatusApproved}}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "more units than exist",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindEquipmentRequest, ResourceID: "projector-1", Quantity: 5, StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(projector(), nil)
			},
			wantCode: 400,
		},
		{
			name: "kind mismatch",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindEquipmentRequest, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
			},
			wantCode: 400,
		},
		{
			name: "resource under maintenance",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				closed := room()
				closed.UnderMaintenance = true
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)
			},
			wantCode:   409,
			wantReason: failure.ReasonInvalidState,
		},
		{
			name: "start in the past",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: now.Add(-time.Hour), EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
				f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantCode: 400,
		},
		{
			name:      "anonymous caller",
			ctx:       context.Background(),
			req:       dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(fixture) {},
			wantCode:  401,
		},
		{
			name: "racing insert loses",
			ctx:  ownerCtx(),
			req:  dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", StartTime: start, EndTime: end},
			setupMock: func(f fixture) {
				f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
				f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("the resource is already reserved for an overlapping time"))
			},
			wantCode:   409,
			wantReason: failure.ReasonConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				if tt.wantRefs != nil {
					assert.Equal(t, tt.wantRefs, failure.GetRefs(err))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestReservationService_Approve(t *testing.T) {
	t.Run("equipment approval reserves units", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusPending), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Reservation) error {
				assert.Equal(t, model.StatusApproved, r.Status)
				assert.Equal(t, "admin-1", r.ApprovedBy)
				assert.Equal(t, "admin-1", r.ModifiedBy)
				assert.Equal(t, now, r.ModifiedAt)

				return nil
			})
		f.resources.EXPECT().ReserveUnitsTx(gomock.Any(), gomock.Any(), "projector-1", 2).Return(nil)

		res, err := f.svc.Approve(adminCtx(), "r-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, res.Status)
	})

	t.Run("pool exhausted rolls back", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusPending), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.resources.EXPECT().ReserveUnitsTx(gomock.Any(), gomock.Any(), "projector-1", 2).
			Return(failure.Conflict("not enough units left", "projector-1"))

		_, err := f.svc.Approve(adminCtx(), "r-1")

		require.Error(t, err)
		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusPending), nil)

		_, err := f.svc.Approve(ownerCtx(), "r-1")

		require.Error(t, err)
		assert.Equal(t, failure.ReasonAuthorization, failure.GetReason(err))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(model.Reservation{}, nil)

		_, err := f.svc.Approve(adminCtx(), "r-1")

		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("already approved", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusApproved), nil)

		_, err := f.svc.Approve(adminCtx(), "r-1")

		require.Error(t, err)
		assert.Equal(t, failure.ReasonInvalidState, failure.GetReason(err))
	})
}

func TestReservationService_HodDecide(t *testing.T) {
	t.Run("admin cannot decide", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusEscalated), nil)

		_, err := f.svc.HodDecide(adminCtx(), "r-1", dto.HodDecisionRequest{Approved: boolPtr(true)})

		require.Error(t, err)
		assert.Equal(t, failure.ReasonAuthorization, failure.GetReason(err))
	})

	t.Run("hod approval reserves units", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusEscalated), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.resources.EXPECT().ReserveUnitsTx(gomock.Any(), gomock.Any(), "projector-1", 2).Return(nil)

		res, err := f.svc.HodDecide(userCtx("hod-1", constant.RoleHod), "r-1", dto.HodDecisionRequest{Approved: boolPtr(true)})

		require.NoError(t, err)
		assert.Equal(t, model.StatusHodApproved, res.Status)
		assert.Equal(t, "hod-1", res.HodReviewedBy)
	})
}

func TestReservationService_Cancel_ReleasesHeldUnits(t *testing.T) {
	f := newFixture(t)

	approved := equipmentRequest(model.StatusApproved)
	approved.StartTime = now.Add(time.Hour)
	approved.EndTime = now.Add(2 * time.Hour)

	f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(approved, nil)
	f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.resources.EXPECT().ReleaseUnitsTx(gomock.Any(), gomock.Any(), "projector-1", 2).Return(nil)

	res, err := f.svc.Cancel(ownerCtx(), "r-1", dto.CancelRequest{Reason: "plans changed"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
	assert.Equal(t, "plans changed", res.CancellationReason)
}

func TestReservationService_Reschedule(t *testing.T) {
	start, end := now.Add(5*time.Hour), now.Add(6*time.Hour)

	pending := model.Reservation{
		ID: "r-1", Kind: model.KindRoomBooking, ResourceID: "room-1", UserID: "user-1",
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: model.StatusPending,
	}

	t.Run("own window is not a conflict", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(pending, nil)
		f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
		f.repo.EXPECT().FindOverlapping(gomock.Any(), "room-1", start, end).
			Return([]model.Reservation{{ID: "r-1", StartTime: start, EndTime: end, Status: model.StatusPending}}, nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Reschedule(ownerCtx(), "r-1", dto.RescheduleRequest{StartTime: start, EndTime: end})

		require.NoError(t, err)
		assert.Equal(t, start.Format(time.RFC3339), res.StartTime)
	})

	t.Run("other booking blocks", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(pending, nil)
		f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room(), nil)
		f.repo.EXPECT().FindOverlapping(gomock.Any(), "room-1", start, end).
			Return([]model.Reservation{{ID: "r-2", StartTime: start, EndTime: end, Status: model.StatusApproved}}, nil)

		_, err := f.svc.Reschedule(ownerCtx(), "r-1", dto.RescheduleRequest{StartTime: start, EndTime: end})

		require.Error(t, err)
		assert.Equal(t, []string{"r-2"}, failure.GetRefs(err))
	})
}

func TestReservationService_RequestExtension(t *testing.T) {
	dayStart := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	tests := []struct {
		name       string
		hours      float64
		used       float64
		wantReason failure.Reason
	}{
		{name: "within quota", hours: 0.4, used: 2.5},
		{name: "over quota", hours: 0.6, used: 2.5, wantReason: failure.ReasonQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			inUse := equipmentRequest(model.StatusInUse)

			f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(inUse, nil)
			f.repo.EXPECT().ApprovedExtensionHours(gomock.Any(), "user-1", dayStart, dayEnd).Return(tt.used, nil)
			f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(projector(), nil).MaxTimes(1)
			f.repo.EXPECT().FindOverlapping(gomock.Any(), "projector-1", inUse.EndTime, gomock.Any()).
				Return([]model.Reservation{{ID: "next", StartTime: inUse.EndTime, EndTime: inUse.EndTime.Add(time.Hour), Status: model.StatusApproved}}, nil)

			if tt.wantReason == "" {
				f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := f.svc.RequestExtension(ownerCtx(), "r-1", dto.ExtensionRequest{Hours: tt.hours, Reason: "demo overran"})
			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			require.NotNil(t, res.Extension)
			assert.Equal(t, model.ExtensionPending, res.Extension.Status)
			assert.InDelta(t, tt.hours, res.Extension.HoursRequested, 1e-9)
		})
	}
}

func TestReservationService_RequestExtension_PooledConflicts(t *testing.T) {
	tests := []struct {
		name     string
		held     int
		wantBody string
	}{
		{name: "spare units are not reported", held: 1},
		{name: "exhausted pool is reported", held: 3, wantBody: "Overlaps with: next."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			inUse := equipmentRequest(model.StatusInUse)
			next := model.Reservation{
				ID:        "next",
				Kind:      model.KindEquipmentRequest,
				Quantity:  tt.held,
				StartTime: inUse.EndTime,
				EndTime:   inUse.EndTime.Add(time.Hour),
				Status:    model.StatusApproved,
			}

			f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(inUse, nil)
			f.repo.EXPECT().ApprovedExtensionHours(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).Return(0.0, nil)
			f.resources.EXPECT().Get(gomock.Any(), gomock.Any()).Return(projector(), nil)
			f.repo.EXPECT().FindOverlapping(gomock.Any(), "projector-1", gomock.Any(), gomock.Any()).
				Return([]model.Reservation{next}, nil)
			f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			notified := make(chan []notificationModel.Message, 1)

			ctrl := gomock.NewController(t)
			notifier := notificationMocks.NewMockNotifier(ctrl)
			notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
				Do(func(_ context.Context, messages ...notificationModel.Message) { notified <- messages })

			cfg := &config.Config{}
			cfg.Reservation.DailyExtensionCapHours = 3.0
			svc := service.New(f.repo, f.resources, f.tx, notifier, cfg, f.cache, mocks.NewOtel(), clock.NewFixed(now))

			_, err := svc.RequestExtension(ownerCtx(), "r-1", dto.ExtensionRequest{Hours: 1, Reason: "demo overran"})
			require.NoError(t, err)

			select {
			case messages := <-notified:
				require.Len(t, messages, 1)

				if tt.wantBody == "" {
					assert.NotContains(t, messages[0].Body, "Overlaps with")
				} else {
					assert.Contains(t, messages[0].Body, tt.wantBody)
				}
			case <-time.After(time.Second):
				t.Fatal("no notification sent")
			}
		})
	}
}

func TestReservationService_DecideExtension_OverCap(t *testing.T) {
	f := newFixture(t)

	pending := equipmentRequest(model.StatusInUse)
	pending.Extension.Status = model.ExtensionPending
	pending.Extension.HoursRequested = 2

	f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(pending, nil)
	f.repo.EXPECT().ApprovedExtensionHours(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).Return(2.0, nil)

	_, err := f.svc.DecideExtension(adminCtx(), "r-1", dto.ExtensionDecisionRequest{Approved: boolPtr(true)})

	require.Error(t, err)
	assert.Equal(t, failure.ReasonQuotaExceeded, failure.GetReason(err))
}

func TestReservationService_DecideExtension(t *testing.T) {
	f := newFixture(t)

	pending := equipmentRequest(model.StatusInUse)
	pending.Extension.Status = model.ExtensionPending
	pending.Extension.HoursRequested = 1.5

	dayStart := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(pending, nil)
	f.repo.EXPECT().ApprovedExtensionHours(gomock.Any(), "user-1", dayStart, dayStart.AddDate(0, 0, 1)).Return(1.0, nil)
	f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Reservation) error {
			assert.Equal(t, pending.EndTime.Add(90*time.Minute), r.EndTime)
			assert.InDelta(t, 1.5, r.Extension.HoursToday, 1e-9)

			return nil
		})

	res, err := f.svc.DecideExtension(adminCtx(), "r-1", dto.ExtensionDecisionRequest{Approved: boolPtr(true)})

	require.NoError(t, err)
	assert.Equal(t, model.ExtensionApproved, res.Extension.Status)
}

func TestReservationService_MarkReturned(t *testing.T) {
	t.Run("releases units", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(equipmentRequest(model.StatusInUse), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.resources.EXPECT().ReleaseUnitsTx(gomock.Any(), gomock.Any(), "projector-1", 2).Return(nil)

		res, err := f.svc.MarkReturned(adminCtx(), "r-1", dto.ReturnRequest{Condition: model.ConditionGood})

		require.NoError(t, err)
		assert.Equal(t, model.StatusReturned, res.Status)
		require.NotNil(t, res.Return)
		assert.Equal(t, "early return", res.Return.Label)
	})

	t.Run("second return", func(t *testing.T) {
		f := newFixture(t)

		returned := equipmentRequest(model.StatusReturned)
		returnedAt := now.Add(-time.Minute)
		returned.Return.ReturnedAt = &returnedAt

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(returned, nil)

		_, err := f.svc.MarkReturned(adminCtx(), "r-1", dto.ReturnRequest{Condition: model.ConditionGood})

		require.Error(t, err)
		assert.Equal(t, failure.ReasonAlreadyReturned, failure.GetReason(err))
	})
}

func TestReservationService_RespondToSuggestion(t *testing.T) {
	f := newFixture(t)

	rejected := equipmentRequest(model.StatusRejected)
	rejected.AdminSuggestion = "try the smaller projector"
	rejected.SuggestedBy = "admin-1"

	f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", false).Return(rejected, nil)
	f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.RespondToSuggestion(ownerCtx(), "r-1", dto.SuggestionResponseRequest{Acknowledged: boolPtr(true)})

	require.NoError(t, err)
	require.NotNil(t, res.SuggestionAcknowledged)
	assert.True(t, *res.SuggestionAcknowledged)
}

func TestReservationService_Get(t *testing.T) {
	t.Run("owner sees it", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(equipmentRequest(model.StatusPending), nil)

		res, err := f.svc.Get(ownerCtx(), "r-1")

		require.NoError(t, err)
		assert.Equal(t, "r-1", res.ID)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(equipmentRequest(model.StatusPending), nil)

		_, err := f.svc.Get(userCtx("user-2", constant.RoleUser), "r-1")

		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := f.svc.Get(adminCtx(), "r-1")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestReservationService_GetMine_ScopesToCaller(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}
	status := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{gDto.Filter{Field: model.FieldStatus, Value: "PENDING", Operator: gDto.FilterOperatorEq}},
	}

	assertScoped := func(filter gDto.FilterGroup) {
		where, args := filter.GetWhereClause()

		assert.Contains(t, where, "reservations.user_id = :user_id")
		assert.Contains(t, where, "status = :status")
		assert.Equal(t, "user-1", args["user_id"])
	}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			assertScoped(filter)

			return 1, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			assertScoped(filter)

			return []model.Reservation{equipmentRequest(model.StatusPending)}, nil
		})

	res, err := f.svc.GetMine(ownerCtx(), params, status)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Reservations, 1)
}

func TestReservationService_SweepOne(t *testing.T) {
	t.Run("started reservation goes in use", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", true).Return(equipmentRequest(model.StatusApproved), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, r model.Reservation) error {
				assert.Equal(t, model.StatusInUse, r.Status)
				assert.Equal(t, "system", r.ModifiedBy)

				return nil
			})

		changed, err := f.svc.SweepOne(context.Background(), "r-1")

		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("settled reservation is not written", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", true).Return(equipmentRequest(model.StatusInUse), nil)

		changed, err := f.svc.SweepOne(context.Background(), "r-1")

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("row locked elsewhere is skipped", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", true).Return(model.Reservation{}, nil)

		changed, err := f.svc.SweepOne(context.Background(), "r-1")

		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "r-1", true).Return(equipmentRequest(model.StatusApproved), nil)
		f.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		changed, err := f.svc.SweepOne(context.Background(), "r-1")

		require.Error(t, err)
		assert.False(t, changed)
	})
}

func TestReservationService_SweepCandidates(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().ListSweepCandidates(gomock.Any(), now, 50).Return([]string{"a", "b"}, nil)

	ids, err := f.svc.SweepCandidates(context.Background(), 50)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}
