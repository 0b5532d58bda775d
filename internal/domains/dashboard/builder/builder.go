// Package builder derives the dashboard summary from reservations already
// fetched for a period.
package builder

import (
	"slices"
	"time"

	"unires/internal/domains/availability/engine"
	"unires/internal/domains/reservation/model"
	resource "unires/internal/domains/resource/model"
)

type ResourceCount struct {
	ResourceID   string
	ResourceName string
	Count        int
}

type Report struct {
	GeneratedAt          time.Time
	TotalReservations    int
	AverageDurationHours float64
	MostPopular          *ResourceCount
	LeastUsed            *ResourceCount
	PeakHours            []int
	OccupiedCount        int
	TotalResources       int
	OccupancyPercent     float64
	StatusCounts         map[model.Status]int
}

// Build computes the report at now. Only reservations that held or hold
// their resource feed the usage figures; StatusCounts covers all of them.
// Popularity ties go to the resource listed first and peak hours are start
// hours in loc.
func Build(resources []resource.Resource, reservations []model.Reservation, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}

	report := Report{
		GeneratedAt:    now,
		TotalResources: len(resources),
		StatusCounts:   make(map[model.Status]int),
		PeakHours:      []int{},
	}

	used := make([]model.Reservation, 0, len(reservations))

	for _, r := range reservations {
		report.StatusCounts[r.Status]++

		if r.Status.Used() && r.StartTime.Before(r.EndTime) {
			used = append(used, r)
		}
	}

	report.TotalReservations = len(used)
	report.AverageDurationHours = averageDurationHours(used)
	report.MostPopular, report.LeastUsed = popularity(resources, used)
	report.PeakHours = peakHours(used, loc)

	snapshot := engine.Snapshot(resources, used, now)
	report.OccupiedCount = engine.OccupiedCount(snapshot)
	report.OccupancyPercent = engine.OccupancyPercent(report.OccupiedCount, report.TotalResources)

	return report
}

func averageDurationHours(reservations []model.Reservation) float64 {
	if len(reservations) == 0 {
		return 0
	}

	var total float64
	for _, r := range reservations {
		total += r.DurationHours()
	}

	return total / float64(len(reservations))
}

func popularity(resources []resource.Resource, reservations []model.Reservation) (*ResourceCount, *ResourceCount) {
	if len(resources) == 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(resources))
	for _, r := range reservations {
		counts[r.ResourceID]++
	}

	var most, least *ResourceCount

	for _, res := range resources {
		current := ResourceCount{ResourceID: res.ID, ResourceName: res.Name, Count: counts[res.ID]}

		if most == nil || current.Count > most.Count {
			most = &current
		}

		if least == nil || current.Count < least.Count {
			least = &current
		}
	}

	return most, least
}

func peakHours(reservations []model.Reservation, loc *time.Location) []int {
	var byHour [24]int

	for _, r := range reservations {
		byHour[r.StartTime.In(loc).Hour()]++
	}

	peak := slices.Max(byHour[:])
	if peak == 0 {
		return []int{}
	}

	hours := []int{}

	for hour, count := range byHour {
		if count == peak {
			hours = append(hours, hour)
		}
	}

	return hours
}
