package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unires/internal/domains/reservation/model"
	"unires/internal/domains/reservation/model/dto"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func TestCreateReservationRequest_ToModel(t *testing.T) {
	start := now.Add(time.Hour)
	end := now.Add(3 * time.Hour)

	t.Run("equipment defaults to one unit", func(t *testing.T) {
		req := dto.CreateReservationRequest{Kind: model.KindEquipmentRequest, ResourceID: "projector-1", StartTime: start, EndTime: end}

		res := req.ToModel("user-1", now)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, 1, res.Quantity)
		assert.Equal(t, "user-1", res.UserID)
		assert.Equal(t, "user-1", res.CreatedBy)
		assert.Empty(t, res.Status)
	})

	t.Run("rooms carry no quantity", func(t *testing.T) {
		req := dto.CreateReservationRequest{Kind: model.KindRoomBooking, ResourceID: "room-1", Quantity: 4, StartTime: start, EndTime: end}

		assert.Zero(t, req.ToModel("user-1", now).Quantity)
	})
}

func TestReservationResponse_FromModel(t *testing.T) {
	returnedAt := now.Add(-time.Minute)
	original := now.Add(-2 * time.Hour)

	m := model.Reservation{
		ID:        "r-1",
		Kind:      model.KindEquipmentRequest,
		StartTime: now.Add(-3 * time.Hour),
		EndTime:   now,
		Status:    model.StatusReturned,
		Extension: model.Extension{
			Status:          model.ExtensionApproved,
			HoursRequested:  2,
			OriginalEndTime: &original,
		},
		Return: model.Return{
			ReturnedAt:    &returnedAt,
			Condition:     model.ConditionGood,
			IsEarlyReturn: true,
		},
	}

	var res dto.ReservationResponse
	res.FromModel(m)

	assert.Equal(t, "2026-10-19T09:00:00Z", res.EndTime)
	assert.Nil(t, res.ApprovedAt)
	require.NotNil(t, res.Extension)
	assert.Equal(t, "2026-10-19T07:00:00Z", *res.Extension.OriginalEndTime)
	require.NotNil(t, res.Return)
	assert.Equal(t, "early return", res.Return.Label)
}

func TestReservationResponse_FromModel_OmitsEmptySubRecords(t *testing.T) {
	var res dto.ReservationResponse
	res.FromModel(model.Reservation{ID: "r-1", Status: model.StatusPending})

	assert.Nil(t, res.Extension)
	assert.Nil(t, res.Return)
}

func TestGetReservationsResponse_FromModels(t *testing.T) {
	var res dto.GetReservationsResponse
	res.FromModels([]model.Reservation{{ID: "a"}, {ID: "b"}}, 21, 10)

	assert.Len(t, res.Reservations, 2)
	assert.Equal(t, 3, res.TotalPage)
	assert.Equal(t, 21, res.TotalData)
}
