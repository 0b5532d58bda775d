package dto

import (
	"time"

	"github.com/google/uuid"

	"unires/internal/domains/reservation/lifecycle"
	"unires/internal/domains/reservation/model"
	"unires/shared"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	gModel "unires/shared/model"
	"unires/shared/timezone"
)

type CreateReservationRequest struct {
	Kind       model.Kind `json:"kind"        validate:"required,enum"`
	ResourceID string     `json:"resource_id" validate:"required"`
	Quantity   int        `json:"quantity"    validate:"omitempty,min=1"`
	Purpose    string     `json:"purpose"     validate:"omitempty,max=500"`
	StartTime  time.Time  `json:"start_time"  validate:"required"`
	EndTime    time.Time  `json:"end_time"    validate:"required,gtfield=StartTime"`
}

// ToModel leaves Status empty; the lifecycle decides it.
func (c *CreateReservationRequest) ToModel(user string, now time.Time) model.Reservation {
	quantity := 0
	if c.Kind == model.KindEquipmentRequest {
		quantity = max(c.Quantity, 1)
	}

	return model.Reservation{
		ID:         uuid.NewString(),
		Kind:       c.Kind,
		ResourceID: c.ResourceID,
		UserID:     user,
		Quantity:   quantity,
		Purpose:    c.Purpose,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		Metadata:   gModel.NewMetadata(user, now),
	}
}

type RejectRequest struct {
	Reason     string `json:"reason"     validate:"omitempty,max=500"`
	Suggestion string `json:"suggestion" validate:"omitempty,max=500"`
}

type EscalateRequest struct {
	Reason     string `json:"reason"     validate:"required,max=500"`
	Suggestion string `json:"suggestion" validate:"omitempty,max=500"`
}

type HodDecisionRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Reason   string `json:"reason"   validate:"omitempty,max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required,gtfield=StartTime"`
}

type ExtensionRequest struct {
	Hours  float64 `json:"hours"  validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

type ExtensionDecisionRequest struct {
	Approved        *bool  `json:"approved"         validate:"required"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=500"`
}

type ReturnRequest struct {
	Condition model.ReturnCondition `json:"condition" validate:"required,enum"`
	Notes     string                `json:"notes"     validate:"omitempty,max=1000"`
}

type SuggestionResponseRequest struct {
	Acknowledged *bool  `json:"acknowledged" validate:"required"`
	Reason       string `json:"reason"       validate:"omitempty,max=500"`
}

type ExtensionResponse struct {
	Status          model.ExtensionStatus `json:"status"`
	Reason          string                `json:"reason,omitempty"`
	HoursRequested  float64               `json:"hours_requested"`
	RequestedAt     *string               `json:"requested_at,omitempty"`
	ApprovedBy      string                `json:"approved_by,omitempty"`
	ApprovedAt      *string               `json:"approved_at,omitempty"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	OriginalEndTime *string               `json:"original_end_time,omitempty"`
	CountToday      int                   `json:"count_today"`
	HoursToday      float64               `json:"hours_today"`
}

type ReturnResponse struct {
	ReturnedAt    string                `json:"returned_at"`
	ReturnedBy    string                `json:"returned_by"`
	Condition     model.ReturnCondition `json:"condition"`
	Notes         string                `json:"notes,omitempty"`
	IsEarlyReturn bool                  `json:"is_early_return"`
	IsLateReturn  bool                  `json:"is_late_return"`
	Label         string                `json:"label"`
}

type ReservationResponse struct {
	ID         string       `json:"id"`
	Kind       model.Kind   `json:"kind"`
	ResourceID string       `json:"resource_id"`
	UserID     string       `json:"user_id"`
	Quantity   int          `json:"quantity,omitempty"`
	Purpose    string       `json:"purpose,omitempty"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
	Status     model.Status `json:"status"`

	ApprovedBy      string  `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`

	EscalatedToHod   bool    `json:"escalated_to_hod"`
	EscalationReason string  `json:"escalation_reason,omitempty"`
	HodReviewedBy    string  `json:"hod_reviewed_by,omitempty"`
	HodReviewedAt    *string `json:"hod_reviewed_at,omitempty"`

	AdminSuggestion        string `json:"admin_suggestion,omitempty"`
	SuggestionAcknowledged *bool  `json:"suggestion_acknowledged,omitempty"`

	IsOverdue          bool    `json:"is_overdue"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`

	Extension *ExtensionResponse `json:"extension,omitempty"`
	Return    *ReturnResponse    `json:"return,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.Kind = m.Kind
	r.ResourceID = m.ResourceID
	r.UserID = m.UserID
	r.Quantity = m.Quantity
	r.Purpose = m.Purpose
	r.StartTime = timezone.Format(m.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(m.EndTime, constant.DateFormat)
	r.Status = m.Status
	r.ApprovedBy = m.ApprovedBy
	r.ApprovedAt = formatOptional(m.ApprovedAt)
	r.RejectionReason = m.RejectionReason
	r.EscalatedToHod = m.EscalatedToHod
	r.EscalationReason = m.EscalationReason
	r.HodReviewedBy = m.HodReviewedBy
	r.HodReviewedAt = formatOptional(m.HodReviewedAt)
	r.AdminSuggestion = m.AdminSuggestion
	r.SuggestionAcknowledged = m.SuggestionAcknowledged
	r.IsOverdue = m.IsOverdue
	r.CancelledAt = formatOptional(m.CancelledAt)
	r.CancellationReason = m.CancellationReason
	r.Metadata.FromModel(m.Metadata)

	if m.Extension.Status != model.ExtensionNone {
		r.Extension = &ExtensionResponse{
			Status:          m.Extension.Status,
			Reason:          m.Extension.Reason,
			HoursRequested:  m.Extension.HoursRequested,
			RequestedAt:     formatOptional(m.Extension.RequestedAt),
			ApprovedBy:      m.Extension.ApprovedBy,
			ApprovedAt:      formatOptional(m.Extension.ApprovedAt),
			RejectionReason: m.Extension.RejectionReason,
			OriginalEndTime: formatOptional(m.Extension.OriginalEndTime),
			CountToday:      m.Extension.CountToday,
			HoursToday:      m.Extension.HoursToday,
		}
	}

	if m.Return.ReturnedAt != nil {
		r.Return = &ReturnResponse{
			ReturnedAt:    timezone.Format(*m.Return.ReturnedAt, constant.DateFormat),
			ReturnedBy:    m.Return.ReturnedBy,
			Condition:     m.Return.Condition,
			Notes:         m.Return.Notes,
			IsEarlyReturn: m.Return.IsEarlyReturn,
			IsLateReturn:  m.Return.IsLateReturn,
			Label:         lifecycle.ReturnLabel(m.Return),
		}
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
