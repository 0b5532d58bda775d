package dto

import (
	"time"

	"unires/internal/domains/notification/model"
	"unires/shared"
	"unires/shared/constant"
	"unires/shared/timezone"
)

type NotificationResponse struct {
	ID            string     `json:"id"`
	Recipient     string     `json:"recipient"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Type          model.Type `json:"type"`
	ReservationID string     `json:"reservation_id,omitempty"`
	CreatedAt     string     `json:"created_at"`
	ReadAt        *string    `json:"read_at"`
}

func (n *NotificationResponse) FromModel(model model.Notification) {
	n.ID = model.ID
	n.Recipient = model.Recipient
	n.Subject = model.Subject
	n.Body = model.Body
	n.Type = model.Type
	n.ReservationID = model.ReservationID
	n.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	n.ReadAt = formatOptional(model.ReadAt)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)

		if mod.ReadAt == nil {
			r.Unread++
		}
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
