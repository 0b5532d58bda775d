package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notification "unires/internal/domains/notification/model"
	"unires/internal/domains/reservation/lifecycle"
	"unires/internal/domains/reservation/model"
	"unires/shared/constant"
	"unires/shared/failure"
)

var (
	now   = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
	owner = lifecycle.Actor{ID: "user-1", Role: constant.RoleUser}
	admin = lifecycle.Actor{ID: "admin-1", Role: constant.RoleAdmin}
	hod   = lifecycle.Actor{ID: "hod-1", Role: constant.RoleHod}
)

func env() lifecycle.Env {
	return lifecycle.Env{Now: now, DailyExtensionCapHours: 3.0}
}

func equipment(status model.Status) model.Reservation {
	return model.Reservation{
		ID:         "res-1",
		Kind:       model.KindEquipmentRequest,
		ResourceID: "projector-1",
		UserID:     owner.ID,
		Quantity:   2,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     status,
	}
}

func room(status model.Status) model.Reservation {
	return model.Reservation{
		ID:         "res-2",
		Kind:       model.KindRoomBooking,
		ResourceID: "room-1",
		UserID:     owner.ID,
		Quantity:   1,
		StartTime:  now.Add(2 * time.Hour),
		EndTime:    now.Add(3 * time.Hour),
		Status:     status,
	}
}

func effectKinds(res lifecycle.Result) []lifecycle.EffectKind {
	kinds := make([]lifecycle.EffectKind, 0, len(res.Effects))
	for _, effect := range res.Effects {
		kinds = append(kinds, effect.Kind)
	}

	return kinds
}

func TestCreate(t *testing.T) {
	t.Run("room stays pending without auto approval", func(t *testing.T) {
		res, err := lifecycle.Create(room(""), env())
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, res.Reservation.Status)
		require.Len(t, res.Messages(), 1)
		assert.Equal(t, notification.RecipientAdmins, res.Messages()[0].Recipient)
	})

	t.Run("room auto approved", func(t *testing.T) {
		e := env()
		e.AutoApproveRooms = true

		res, err := lifecycle.Create(room(""), e)
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, res.Reservation.Status)
		assert.Equal(t, now, *res.Reservation.ApprovedAt)
		assert.Equal(t, owner.ID, res.Messages()[0].Recipient)
	})

	t.Run("equipment never auto approved", func(t *testing.T) {
		e := env()
		e.AutoApproveRooms = true

		r := equipment("")
		r.StartTime, r.EndTime = now.Add(time.Hour), now.Add(2*time.Hour)

		res, err := lifecycle.Create(r, e)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Reservation.Status)
	})

	t.Run("conflict blocks creation and lists ids", func(t *testing.T) {
		e := env()
		e.Conflicts = []string{"res-8", "res-9"}

		_, err := lifecycle.Create(room(""), e)
		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
		assert.Equal(t, []string{"res-8", "res-9"}, failure.GetRefs(err))
	})

	t.Run("empty interval rejected", func(t *testing.T) {
		r := room("")
		r.EndTime = r.StartTime

		_, err := lifecycle.Create(r, env())
		assert.Error(t, err)
	})

	t.Run("past start rejected", func(t *testing.T) {
		r := room("")
		r.StartTime = now.Add(-time.Minute)

		_, err := lifecycle.Create(r, env())
		assert.Error(t, err)
	})
}

func TestApprovalTransitions(t *testing.T) {
	t.Run("approve equipment reserves units", func(t *testing.T) {
		res, err := lifecycle.Approve(equipment(model.StatusPending), admin, env())
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, res.Reservation.Status)
		assert.Equal(t, admin.ID, res.Reservation.ApprovedBy)
		assert.Equal(t, []lifecycle.EffectKind{lifecycle.EffectReserveUnits, lifecycle.EffectNotify}, effectKinds(res))
		assert.Equal(t, 2, res.Effects[0].Quantity)
	})

	t.Run("approve room holds no units", func(t *testing.T) {
		res, err := lifecycle.Approve(room(model.StatusPending), admin, env())
		require.NoError(t, err)
		assert.Equal(t, []lifecycle.EffectKind{lifecycle.EffectNotify}, effectKinds(res))
	})

	t.Run("approve only from pending", func(t *testing.T) {
		_, err := lifecycle.Approve(equipment(model.StatusEscalated), admin, env())
		assert.Equal(t, failure.ReasonInvalidState, failure.GetReason(err))
	})

	t.Run("reject with suggestion", func(t *testing.T) {
		res, err := lifecycle.Reject(room(model.StatusPending), admin, "room closed", "try room B", env())
		require.NoError(t, err)

		assert.Equal(t, model.StatusRejected, res.Reservation.Status)
		assert.Equal(t, "room closed", res.Reservation.RejectionReason)
		assert.Equal(t, "try room B", res.Reservation.AdminSuggestion)
		assert.Equal(t, admin.ID, res.Reservation.SuggestedBy)
		assert.Nil(t, res.Reservation.SuggestionAcknowledged)
	})

	t.Run("escalate then hod approve reserves units", func(t *testing.T) {
		escalated, err := lifecycle.Escalate(equipment(model.StatusPending), admin, "high value item", "", env())
		require.NoError(t, err)
		assert.Equal(t, model.StatusEscalated, escalated.Reservation.Status)
		assert.True(t, escalated.Reservation.EscalatedToHod)
		assert.Equal(t, notification.RecipientHods, escalated.Messages()[0].Recipient)

		decided, err := lifecycle.HodDecide(escalated.Reservation, hod, true, "", env())
		require.NoError(t, err)
		assert.Equal(t, model.StatusHodApproved, decided.Reservation.Status)
		assert.Equal(t, hod.ID, decided.Reservation.HodReviewedBy)
		assert.Equal(t, lifecycle.EffectReserveUnits, decided.Effects[0].Kind)
	})

	t.Run("hod reject", func(t *testing.T) {
		decided, err := lifecycle.HodDecide(equipment(model.StatusEscalated), hod, false, "budget", env())
		require.NoError(t, err)
		assert.Equal(t, model.StatusHodRejected, decided.Reservation.Status)
		assert.Equal(t, "budget", decided.Reservation.RejectionReason)
		assert.Equal(t, []lifecycle.EffectKind{lifecycle.EffectNotify}, effectKinds(decided))
	})

	t.Run("hod decides only escalated", func(t *testing.T) {
		_, err := lifecycle.HodDecide(equipment(model.StatusPending), hod, true, "", env())
		assert.Equal(t, failure.ReasonInvalidState, failure.GetReason(err))
	})
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name        string
		status      model.Status
		actor       lifecycle.Actor
		wantReason  failure.Reason
		wantRelease bool
	}{
		{name: "owner cancels pending", status: model.StatusPending, actor: owner},
		{name: "admin cancels approved and releases", status: model.StatusApproved, actor: admin, wantRelease: true},
		{name: "owner cancels hod approved and releases", status: model.StatusHodApproved, actor: owner, wantRelease: true},
		{name: "owner cancels escalated", status: model.StatusEscalated, actor: owner},
		{name: "stranger forbidden", status: model.StatusPending, actor: lifecycle.Actor{ID: "user-2", Role: constant.RoleUser}, wantReason: failure.ReasonAuthorization},
		{name: "in use cannot be cancelled", status: model.StatusInUse, actor: owner, wantReason: failure.ReasonInvalidState},
		{name: "completed cannot be cancelled", status: model.StatusCompleted, actor: admin, wantReason: failure.ReasonInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := lifecycle.Cancel(equipment(tt.status), tt.actor, "plans changed", env())

			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Reservation.Status)
			assert.Equal(t, tt.actor.ID, res.Reservation.CancelledBy)
			assert.Equal(t, tt.wantRelease, effectKinds(res)[0] == lifecycle.EffectReleaseUnits)
		})
	}
}

func TestReschedule(t *testing.T) {
	start, end := now.Add(24*time.Hour), now.Add(26*time.Hour)

	t.Run("approved goes back to pending and releases units", func(t *testing.T) {
		r := equipment(model.StatusApproved)
		r.StartTime, r.EndTime = now.Add(time.Hour), now.Add(2*time.Hour)
		r.ApprovedBy = admin.ID

		res, err := lifecycle.Reschedule(r, owner, start, end, env())
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, res.Reservation.Status)
		assert.Equal(t, start, res.Reservation.StartTime)
		assert.Equal(t, end, res.Reservation.EndTime)
		assert.Empty(t, res.Reservation.ApprovedBy)
		assert.Equal(t, lifecycle.EffectReleaseUnits, res.Effects[0].Kind)
	})

	t.Run("conflict blocks", func(t *testing.T) {
		e := env()
		e.Conflicts = []string{"res-7"}

		_, err := lifecycle.Reschedule(room(model.StatusPending), owner, start, end, e)
		assert.Equal(t, failure.ReasonConflict, failure.GetReason(err))
		assert.Equal(t, []string{"res-7"}, failure.GetRefs(err))
	})

	t.Run("only owner", func(t *testing.T) {
		_, err := lifecycle.Reschedule(room(model.StatusPending), admin, start, end, env())
		assert.Equal(t, failure.ReasonAuthorization, failure.GetReason(err))
	})

	t.Run("in use cannot move", func(t *testing.T) {
		_, err := lifecycle.Reschedule(room(model.StatusInUse), owner, start, end, env())
		assert.Equal(t, failure.ReasonInvalidState, failure.GetReason(err))
	})
}
