package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unires/internal/domains/availability/engine"
	"unires/internal/domains/reservation/model"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "inside", start: at(10, 15), end: at(10, 45), want: true},
		{name: "covers", start: at(9, 0), end: at(12, 0), want: true},
		{name: "overlaps start", start: at(9, 30), end: at(10, 30), want: true},
		{name: "overlaps end", start: at(10, 59), end: at(11, 30), want: true},
		{name: "identical", start: at(10, 0), end: at(11, 0), want: true},
		{name: "ends where existing starts", start: at(9, 0), end: at(10, 0), want: false},
		{name: "starts where existing ends", start: at(11, 0), end: at(12, 0), want: false},
		{name: "disjoint", start: at(13, 0), end: at(14, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Overlaps(at(10, 0), at(11, 0), tt.start, tt.end))
			assert.Equal(t, tt.want, engine.Overlaps(tt.start, tt.end, at(10, 0), at(11, 0)), "overlap must be symmetric")
		})
	}
}

func TestConflicts(t *testing.T) {
	existing := []model.Reservation{
		booking("pending", at(9, 0), at(10, 0), model.StatusPending),
		booking("approved", at(10, 0), at(11, 0), model.StatusApproved),
		booking("escalated", at(11, 0), at(12, 0), model.StatusEscalated),
		booking("hod", at(12, 0), at(13, 0), model.StatusHodApproved),
		booking("in-use", at(13, 0), at(14, 0), model.StatusInUse),
		booking("rejected", at(9, 0), at(14, 0), model.StatusRejected),
		booking("hod-rejected", at(9, 0), at(14, 0), model.StatusHodRejected),
		booking("cancelled", at(9, 0), at(14, 0), model.StatusCancelled),
		booking("returned", at(9, 0), at(14, 0), model.StatusReturned),
		booking("completed", at(9, 0), at(14, 0), model.StatusCompleted),
	}

	t.Run("only occupying statuses collide", func(t *testing.T) {
		ids := engine.Conflicts(existing, at(8, 0), at(15, 0), "")

		assert.Equal(t, []string{"pending", "approved", "escalated", "hod", "in-use"}, ids)
	})

	t.Run("adjacent window is free", func(t *testing.T) {
		assert.Empty(t, engine.Conflicts(existing, at(14, 0), at(15, 0), ""))
		assert.False(t, engine.HasConflict(existing, at(14, 0), at(15, 0), ""))
	})

	t.Run("exclude id", func(t *testing.T) {
		ids := engine.Conflicts(existing, at(10, 0), at(11, 0), "approved")

		assert.Empty(t, ids)
	})

	t.Run("partial overlap", func(t *testing.T) {
		assert.Equal(t, []string{"approved", "escalated"}, engine.Conflicts(existing, at(10, 30), at(11, 30), ""))
		assert.True(t, engine.HasConflict(existing, at(10, 30), at(11, 30), ""))
	})
}

func TestUnitConflicts(t *testing.T) {
	unit := func(id string, start, end time.Time, qty int) model.Reservation {
		r := booking(id, start, end, model.StatusApproved)
		r.Kind = model.KindEquipmentRequest
		r.Quantity = qty

		return r
	}

	existing := []model.Reservation{
		unit("a", at(9, 0), at(11, 0), 2),
		unit("b", at(11, 0), at(13, 0), 2),
		unit("c", at(10, 0), at(12, 0), 1),
	}

	tests := []struct {
		name      string
		requested int
		capacity  int
		want      []string
	}{
		{name: "fits beside the peak", requested: 1, capacity: 4, want: nil},
		{name: "exceeds the peak", requested: 2, capacity: 4, want: []string{"a", "b", "c"}},
		{name: "more than the pool", requested: 5, capacity: 4, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.UnitConflicts(existing, at(9, 0), at(13, 0), "", tt.requested, tt.capacity))
		})
	}

	t.Run("no holders", func(t *testing.T) {
		assert.Nil(t, engine.UnitConflicts(nil, at(9, 0), at(10, 0), "", 2, 2))
	})

	t.Run("excluded holder frees its units", func(t *testing.T) {
		assert.Equal(t, []string{"a", "c"}, engine.UnitConflicts(existing, at(9, 0), at(11, 0), "", 2, 4))
		assert.Nil(t, engine.UnitConflicts(existing, at(9, 0), at(11, 0), "a", 2, 4))
	})
}
