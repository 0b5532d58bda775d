package engine_test

import (
	"time"

	"unires/internal/domains/availability/engine"
	"unires/internal/domains/reservation/model"
)

var day = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func booking(id string, start, end time.Time, status model.Status) model.Reservation {
	return model.Reservation{
		ID:         id,
		Kind:       model.KindRoomBooking,
		ResourceID: "room-1",
		StartTime:  start,
		EndTime:    end,
		Status:     status,
	}
}

func policy() engine.Policy {
	return engine.Policy{OpenHour: 8, CloseHour: 22, HorizonDays: 7, Location: time.UTC}
}
