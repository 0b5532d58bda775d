package dto

import (
	"time"

	"unires/internal/domains/dashboard/builder"
	"unires/shared/constant"
	"unires/shared/timezone"
)

type ResourceCountResponse struct {
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	Count        int    `json:"count"`
}

type DashboardResponse struct {
	GeneratedAt          string                 `json:"generated_at"`
	PeriodStart          string                 `json:"period_start"`
	PeriodEnd            string                 `json:"period_end"`
	TotalReservations    int                    `json:"total_reservations"`
	AverageDurationHours float64                `json:"average_duration_hours"`
	MostPopular          *ResourceCountResponse `json:"most_popular,omitempty"`
	LeastUsed            *ResourceCountResponse `json:"least_used,omitempty"`
	PeakHours            []int                  `json:"peak_hours"`
	OccupiedCount        int                    `json:"occupied_count"`
	TotalResources       int                    `json:"total_resources"`
	OccupancyPercent     float64                `json:"occupancy_percent"`
	StatusCounts         map[string]int         `json:"status_counts"`
}

func (d *DashboardResponse) FromReport(report builder.Report, periodStart, periodEnd time.Time) {
	d.GeneratedAt = timezone.Format(report.GeneratedAt, constant.DateFormat)
	d.PeriodStart = timezone.Format(periodStart, constant.DateFormat)
	d.PeriodEnd = timezone.Format(periodEnd, constant.DateFormat)
	d.TotalReservations = report.TotalReservations
	d.AverageDurationHours = report.AverageDurationHours
	d.MostPopular = fromCount(report.MostPopular)
	d.LeastUsed = fromCount(report.LeastUsed)
	d.PeakHours = report.PeakHours
	d.OccupiedCount = report.OccupiedCount
	d.TotalResources = report.TotalResources
	d.OccupancyPercent = report.OccupancyPercent

	d.StatusCounts = make(map[string]int, len(report.StatusCounts))
	for status, count := range report.StatusCounts {
		d.StatusCounts[string(status)] = count
	}
}

type ExportResponse struct {
	URL         string `json:"url"`
	GeneratedAt string `json:"generated_at"`
}

func fromCount(count *builder.ResourceCount) *ResourceCountResponse {
	if count == nil {
		return nil
	}

	return &ResourceCountResponse{
		ResourceID:   count.ResourceID,
		ResourceName: count.ResourceName,
		Count:        count.Count,
	}
}
