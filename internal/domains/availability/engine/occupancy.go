package engine

import (
	"time"

	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
)

// Occupancy describes one resource at an instant. When Current is set the
// resource is busy until OccupiedUntil; otherwise Next, when set, is the
// earliest upcoming reservation.
type Occupancy struct {
	ResourceID      string
	ResourceName    string
	Current         *model.Reservation
	OccupiedUntil   time.Time
	OccupiedFor     time.Duration
	Next            *model.Reservation
	NextBookingTime time.Time
	FreeFor         time.Duration
}

func (o Occupancy) Occupied() bool {
	return o.Current != nil
}

// Snapshot computes occupancy for every resource in listing order. A
// reservation already handed back no longer occupies its resource.
func Snapshot(resources []resource.Resource, reservations []model.Reservation, now time.Time) []Occupancy {
	byResource := make(map[string][]model.Reservation, len(resources))

	for _, r := range sortedUsed(reservations) {
		byResource[r.ResourceID] = append(byResource[r.ResourceID], r)
	}

	snapshot := make([]Occupancy, 0, len(resources))

	for _, res := range resources {
		occ := Occupancy{ResourceID: res.ID, ResourceName: res.Name}

		for _, r := range byResource[res.ID] {
			if r.Contains(now) && r.Return.ReturnedAt == nil {
				current := r
				occ.Current = &current
				occ.OccupiedUntil = r.EndTime
				occ.OccupiedFor = r.EndTime.Sub(now)

				break
			}

			if r.StartTime.After(now) && occ.Next == nil {
				next := r
				occ.Next = &next
				occ.NextBookingTime = r.StartTime
				occ.FreeFor = r.StartTime.Sub(now)
			}
		}

		snapshot = append(snapshot, occ)
	}

	return snapshot
}

// OccupiedCount counts resources busy in the snapshot.
func OccupiedCount(snapshot []Occupancy) int {
	count := 0

	for _, occ := range snapshot {
		if occ.Occupied() {
			count++
		}
	}

	return count
}

// OccupancyPercent is busy resources over all resources, 0 when there are none.
func OccupancyPercent(occupied, total int) float64 {
	if total <= 0 {
		return 0
	}

	return float64(occupied) / float64(total) * 100
}
