package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unires/internal/domains/availability/engine"
	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
)

func minutes(slots []engine.Slot) []int {
	out := make([]int, len(slots))
	for i, slot := range slots {
		out[i] = slot.Minutes()
	}

	return out
}

func TestGaps_SingleBooking(t *testing.T) {
	existing := []model.Reservation{
		booking("r-1", at(10, 0), at(11, 0), model.StatusApproved),
	}

	gaps := engine.Gaps(at(8, 0), at(22, 0), existing, 30)

	assert.Equal(t, []engine.Slot{
		{Start: at(8, 0), End: at(10, 0)},
		{Start: at(11, 0), End: at(22, 0)},
	}, gaps)
	assert.Equal(t, []int{120, 660}, minutes(gaps))
}

func TestGaps_MinimumLength(t *testing.T) {
	existing := []model.Reservation{
		booking("r-1", at(8, 20), at(9, 0), model.StatusApproved),
		booking("r-2", at(9, 45), at(21, 30), model.StatusPending),
	}

	assert.Equal(t, []int{45, 30}, minutes(engine.Gaps(at(8, 0), at(22, 0), existing, 30)))
	assert.Equal(t, []int{45}, minutes(engine.Gaps(at(8, 0), at(22, 0), existing, 31)))
	assert.Equal(t, []int{20, 45, 30}, minutes(engine.Gaps(at(8, 0), at(22, 0), existing, 0)))
}

func TestFreeSlots(t *testing.T) {
	tests := []struct {
		name     string
		existing []model.Reservation
		want     []engine.Slot
	}{
		{
			name: "no reservations",
			want: []engine.Slot{{Start: at(8, 0), End: at(22, 0)}},
		},
		{
			name: "unsorted input with nested booking",
			existing: []model.Reservation{
				booking("late", at(15, 0), at(16, 0), model.StatusApproved),
				booking("long", at(9, 0), at(13, 0), model.StatusInUse),
				booking("nested", at(10, 0), at(11, 0), model.StatusPending),
			},
			want: []engine.Slot{
				{Start: at(8, 0), End: at(9, 0)},
				{Start: at(13, 0), End: at(15, 0)},
				{Start: at(16, 0), End: at(22, 0)},
			},
		},
		{
			name: "back to back leaves no zero length slot",
			existing: []model.Reservation{
				booking("a", at(8, 0), at(10, 0), model.StatusApproved),
				booking("b", at(10, 0), at(12, 0), model.StatusApproved),
				booking("c", at(20, 0), at(22, 0), model.StatusApproved),
			},
			want: []engine.Slot{{Start: at(12, 0), End: at(20, 0)}},
		},
		{
			name: "bookings outside the window are clipped",
			existing: []model.Reservation{
				booking("early", at(6, 0), at(9, 0), model.StatusCompleted),
				booking("late", at(21, 0), at(23, 0), model.StatusApproved),
				booking("yesterday", at(-5, 0), at(-4, 0), model.StatusApproved),
			},
			want: []engine.Slot{{Start: at(9, 0), End: at(21, 0)}},
		},
		{
			name: "cancelled and rejected are ignored",
			existing: []model.Reservation{
				booking("c", at(9, 0), at(10, 0), model.StatusCancelled),
				booking("r", at(11, 0), at(12, 0), model.StatusRejected),
			},
			want: []engine.Slot{{Start: at(8, 0), End: at(22, 0)}},
		},
		{
			name: "fully booked",
			existing: []model.Reservation{
				booking("all", at(7, 0), at(23, 0), model.StatusApproved),
			},
			want: []engine.Slot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.FreeSlots(at(8, 0), at(22, 0), tt.existing))
		})
	}
}

func TestUtilization(t *testing.T) {
	t.Run("empty is zero", func(t *testing.T) {
		assert.Zero(t, engine.Utilization(nil, at(8, 0), at(22, 0), 1, 14))
	})

	t.Run("zero denominator is zero", func(t *testing.T) {
		existing := []model.Reservation{booking("r", at(9, 0), at(10, 0), model.StatusApproved)}

		assert.Zero(t, engine.Utilization(existing, at(8, 0), at(22, 0), 0, 14))
		assert.Zero(t, engine.Utilization(existing, at(8, 0), at(22, 0), 1, 0))
	})

	t.Run("hours over window", func(t *testing.T) {
		existing := []model.Reservation{
			booking("a", at(8, 0), at(11, 30), model.StatusApproved),
			booking("b", at(14, 0), at(17, 30), model.StatusCompleted),
			booking("cancelled", at(18, 0), at(22, 0), model.StatusCancelled),
		}

		assert.InDelta(t, 50.0, engine.Utilization(existing, at(8, 0), at(22, 0), 1, 14), 1e-9)
	})

	t.Run("multi day period", func(t *testing.T) {
		existing := []model.Reservation{
			booking("a", at(8, 0), at(15, 0), model.StatusApproved),
			booking("b", at(24+8, 0), at(24+15, 0), model.StatusApproved),
		}

		assert.InDelta(t, 50.0, engine.Utilization(existing, at(0, 0), at(48, 0), 2, 14), 1e-9)
	})

	t.Run("clipped to the period", func(t *testing.T) {
		existing := []model.Reservation{booking("a", at(20, 0), at(24+2, 0), model.StatusApproved)}

		assert.InDelta(t, 4.0/14*100, engine.Utilization(existing, at(8, 0), at(24, 0), 1, 14), 1e-9)
	})
}

func TestDayAvailability(t *testing.T) {
	existing := []model.Reservation{
		booking("r-1", at(10, 0), at(12, 0), model.StatusApproved),
		{ID: "other", ResourceID: "room-2", StartTime: at(9, 0), EndTime: at(20, 0), Status: model.StatusApproved},
	}

	t.Run("configured window", func(t *testing.T) {
		res := resource.Resource{ID: "room-1", Kind: resource.KindRoom}

		got := engine.DayAvailability(res, at(15, 0), existing, policy())

		assert.Equal(t, day, got.Date)
		assert.Equal(t, at(8, 0), got.WindowStart)
		assert.Equal(t, at(22, 0), got.WindowEnd)
		assert.Equal(t, []int{120, 600}, minutes(got.Free))
		assert.Equal(t, []engine.Slot{{Start: at(10, 0), End: at(12, 0)}}, got.Booked)
		assert.InDelta(t, 2.0/14*100, got.Utilization, 1e-9)
	})

	t.Run("own opening hours", func(t *testing.T) {
		res := resource.Resource{ID: "room-1", Kind: resource.KindRoom, OpenHour: 9, CloseHour: 13}

		got := engine.DayAvailability(res, at(15, 0), existing, policy())

		assert.Equal(t, at(9, 0), got.WindowStart)
		assert.Equal(t, at(13, 0), got.WindowEnd)
		assert.Equal(t, []int{60, 60}, minutes(got.Free))
		assert.InDelta(t, 50.0, got.Utilization, 1e-9)
	})
}

func TestPolicy_Window(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	p := engine.Policy{OpenHour: 8, CloseHour: 22, Location: jakarta}

	start, end := p.Window(time.Date(2026, time.October, 19, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, time.October, 20, 8, 0, 0, 0, jakarta), start)
	assert.Equal(t, time.Date(2026, time.October, 20, 22, 0, 0, 0, jakarta), end)
	assert.Equal(t, 14, p.WindowHours())
}

func TestPolicy_DayStart(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	p := engine.Policy{OpenHour: 8, CloseHour: 22, Location: wib}

	// 20:00 UTC is already the next calendar day in WIB.
	start := p.DayStart(time.Date(2026, time.October, 19, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, time.October, 20, 0, 0, 0, 0, wib), start)
	assert.True(t, engine.Policy{}.DayStart(at(15, 0)).Equal(day))
}
