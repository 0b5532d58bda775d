package dto

import (
	"time"

	"unires/internal/domains/availability/engine"
	"unires/shared/constant"
	"unires/shared/timezone"
)

type SlotResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Minutes int    `json:"minutes"`
}

func (s *SlotResponse) FromSlot(slot engine.Slot) {
	s.Start = timezone.Format(slot.Start, constant.DateFormat)
	s.End = timezone.Format(slot.End, constant.DateFormat)
	s.Minutes = slot.Minutes()
}

func FromSlots(slots []engine.Slot) []SlotResponse {
	res := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		res[i].FromSlot(slot)
	}

	return res
}

type ConflictResponse struct {
	ResourceID     string   `json:"resource_id"`
	Conflict       bool     `json:"conflict"`
	ReservationIDs []string `json:"reservation_ids"`
}

type NextSlotResponse struct {
	ResourceID    string       `json:"resource_id"`
	DurationHours int          `json:"duration_hours"`
	Slot          SlotResponse `json:"slot"`
}

type DayResponse struct {
	ResourceID  string         `json:"resource_id"`
	Date        string         `json:"date"`
	OpensAt     string         `json:"opens_at"`
	ClosesAt    string         `json:"closes_at"`
	Free        []SlotResponse `json:"free"`
	Booked      []SlotResponse `json:"booked"`
	Utilization float64        `json:"utilization"`
}

func (d *DayResponse) FromDay(day engine.Day) {
	d.ResourceID = day.ResourceID
	d.Date = timezone.Format(day.Date, constant.DayFormat)
	d.OpensAt = timezone.Format(day.WindowStart, constant.HourMinFormat)
	d.ClosesAt = timezone.Format(day.WindowEnd, constant.HourMinFormat)
	d.Free = FromSlots(day.Free)
	d.Booked = FromSlots(day.Booked)
	d.Utilization = day.Utilization
}

type GapsResponse struct {
	ResourceID    string         `json:"resource_id"`
	MinGapMinutes int            `json:"min_gap_minutes"`
	Gaps          []SlotResponse `json:"gaps"`
}

type UtilizationResponse struct {
	ResourceID  string  `json:"resource_id"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Days        int     `json:"days"`
	WindowHours int     `json:"window_hours"`
	Utilization float64 `json:"utilization"`
}

type OccupancyItem struct {
	ResourceID         string  `json:"resource_id"`
	ResourceName       string  `json:"resource_name"`
	Occupied           bool    `json:"occupied"`
	ReservationID      string  `json:"reservation_id,omitempty"`
	OccupiedUntil      *string `json:"occupied_until,omitempty"`
	OccupiedForMinutes *int    `json:"occupied_for_minutes,omitempty"`
	NextReservationID  string  `json:"next_reservation_id,omitempty"`
	NextBookingTime    *string `json:"next_booking_time,omitempty"`
	FreeForMinutes     *int    `json:"free_for_minutes,omitempty"`
}

func (o *OccupancyItem) FromOccupancy(occ engine.Occupancy) {
	o.ResourceID = occ.ResourceID
	o.ResourceName = occ.ResourceName
	o.Occupied = occ.Occupied()

	if occ.Current != nil {
		o.ReservationID = occ.Current.ID
		o.OccupiedUntil = formatInstant(occ.OccupiedUntil)
		o.OccupiedForMinutes = minutes(occ.OccupiedFor)

		return
	}

	if occ.Next != nil {
		o.NextReservationID = occ.Next.ID
		o.NextBookingTime = formatInstant(occ.NextBookingTime)
		o.FreeForMinutes = minutes(occ.FreeFor)
	}
}

type OccupancyResponse struct {
	At               string          `json:"at"`
	Resources        []OccupancyItem `json:"resources"`
	OccupiedCount    int             `json:"occupied_count"`
	TotalResources   int             `json:"total_resources"`
	OccupancyPercent float64         `json:"occupancy_percent"`
}

func (r *OccupancyResponse) FromSnapshot(at time.Time, snapshot []engine.Occupancy) {
	r.At = timezone.Format(at, constant.DateFormat)
	r.Resources = make([]OccupancyItem, len(snapshot))

	for i, occ := range snapshot {
		r.Resources[i].FromOccupancy(occ)
	}

	r.OccupiedCount = engine.OccupiedCount(snapshot)
	r.TotalResources = len(snapshot)
	r.OccupancyPercent = engine.OccupancyPercent(r.OccupiedCount, r.TotalResources)
}

func formatInstant(t time.Time) *string {
	formatted := timezone.Format(t, constant.DateFormat)

	return &formatted
}

func minutes(d time.Duration) *int {
	m := int(d / time.Minute)

	return &m
}
