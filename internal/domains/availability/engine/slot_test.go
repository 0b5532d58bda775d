package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unires/internal/domains/availability/engine"
	"unires/internal/domains/reservation/model"
	"unires/shared/failure"
)

func TestNextAvailableSlot(t *testing.T) {
	existing := []model.Reservation{
		booking("r-1", at(10, 0), at(11, 0), model.StatusApproved),
		booking("r-2", at(12, 0), at(14, 0), model.StatusPending),
		booking("r-3", at(14, 0), at(16, 0), model.StatusCancelled),
	}

	tests := []struct {
		name      string
		duration  int
		from      time.Time
		wantStart time.Time
	}{
		{name: "before opening", duration: 1, from: at(6, 0), wantStart: at(8, 0)},
		{name: "strictly after from", duration: 1, from: at(8, 0), wantStart: at(9, 0)},
		{name: "skips booked hour", duration: 1, from: at(9, 30), wantStart: at(11, 0)},
		{name: "needs a longer gap", duration: 2, from: at(9, 0), wantStart: at(14, 0)},
		{name: "cancelled booking does not block", duration: 2, from: at(13, 30), wantStart: at(14, 0)},
		{name: "rolls to next day", duration: 3, from: at(20, 0), wantStart: at(24+8, 0)},
		{name: "full window", duration: 14, from: at(7, 0), wantStart: at(24+8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := engine.NextAvailableSlot(existing, engine.Demand{}, tt.duration, tt.from, policy())
			require.NoError(t, err)

			assert.Equal(t, tt.wantStart, slot.Start)
			assert.Equal(t, tt.wantStart.Add(time.Duration(tt.duration)*time.Hour), slot.End)
			assert.True(t, slot.Start.After(tt.from))
			assert.False(t, engine.HasConflict(existing, slot.Start, slot.End, ""))
		})
	}
}

func TestNextAvailableSlot_NeverBeforeFrom(t *testing.T) {
	existing := []model.Reservation{
		booking("r-1", at(9, 0), at(12, 0), model.StatusApproved),
	}

	for minute := 0; minute < 24*60; minute += 17 {
		from := day.Add(time.Duration(minute) * time.Minute)

		slot, err := engine.NextAvailableSlot(existing, engine.Demand{}, 2, from, policy())
		require.NoError(t, err)

		assert.True(t, slot.Start.After(from), "from %s got %s", from, slot.Start)
		assert.Zero(t, slot.Start.Minute())
		assert.False(t, engine.HasConflict(existing, slot.Start, slot.End, ""))
	}
}

func TestNextAvailableSlot_NotFound(t *testing.T) {
	t.Run("horizon exhausted", func(t *testing.T) {
		p := policy()
		p.HorizonDays = 1

		existing := []model.Reservation{
			booking("block", at(0, 0), at(48, 0), model.StatusApproved),
		}

		_, err := engine.NextAvailableSlot(existing, engine.Demand{}, 1, at(7, 0), p)
		assert.Equal(t, failure.ReasonNoSlotFound, failure.GetReason(err))
	})

	t.Run("longer than the window", func(t *testing.T) {
		_, err := engine.NextAvailableSlot(nil, engine.Demand{}, 15, at(7, 0), policy())
		assert.Equal(t, failure.ReasonNoSlotFound, failure.GetReason(err))
	})

	t.Run("non positive duration", func(t *testing.T) {
		_, err := engine.NextAvailableSlot(nil, engine.Demand{}, 0, at(7, 0), policy())
		require.Error(t, err)
		assert.Empty(t, failure.GetReason(err))
	})
}
