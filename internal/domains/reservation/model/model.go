package model

import (
	"time"

	"unires/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldKind       = "kind"
	FieldResourceID = "resource_id"
	FieldUserID     = "user_id"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldStatus     = "status"
	FieldCreatedAt  = "created_at"
)

// SortableFields may appear in a sort_by query parameter.
var SortableFields = []string{FieldStartTime, FieldEndTime, FieldStatus, FieldCreatedAt}

// Extension is the extension sub-record. CountToday and HoursToday are
// approved totals for the calendar day starting at CounterDay.
type Extension struct {
	Status          ExtensionStatus `db:"extension_status"`
	Reason          string          `db:"extension_reason"`
	HoursRequested  float64         `db:"extension_hours_requested"`
	RequestedAt     *time.Time      `db:"extension_requested_at"`
	ApprovedBy      string          `db:"extension_approved_by"`
	ApprovedAt      *time.Time      `db:"extension_approved_at"`
	RejectionReason string          `db:"extension_rejection_reason"`
	OriginalEndTime *time.Time      `db:"original_end_time"`
	CountToday      int             `db:"extension_count_today"`
	HoursToday      float64         `db:"extension_hours_today"`
	CounterDay      *time.Time      `db:"extension_counter_day"`
}

// Return is the return sub-record. IsEarlyReturn and IsLateReturn are never both set.
type Return struct {
	ReturnedAt    *time.Time      `db:"returned_at"`
	ReturnedBy    string          `db:"returned_by"`
	Condition     ReturnCondition `db:"return_condition"`
	Notes         string          `db:"return_notes"`
	IsEarlyReturn bool            `db:"is_early_return"`
	IsLateReturn  bool            `db:"is_late_return"`
}

type Reservation struct {
	ID         string    `db:"id"`
	Kind       Kind      `db:"kind"`
	ResourceID string    `db:"resource_id"`
	UserID     string    `db:"user_id"`
	Quantity   int       `db:"quantity"`
	Purpose    string    `db:"purpose"`
	StartTime  time.Time `db:"start_time"`
	EndTime    time.Time `db:"end_time"`
	Status     Status    `db:"status"`

	ApprovedBy      string     `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectionReason string     `db:"rejection_reason"`

	EscalatedToHod   bool       `db:"escalated_to_hod"`
	EscalatedAt      *time.Time `db:"escalated_at"`
	EscalationReason string     `db:"escalation_reason"`
	HodReviewedBy    string     `db:"hod_reviewed_by"`
	HodReviewedAt    *time.Time `db:"hod_reviewed_at"`

	AdminSuggestion          string     `db:"admin_suggestion"`
	SuggestedBy              string     `db:"suggested_by"`
	SuggestionAcknowledged   *bool      `db:"suggestion_acknowledged"`
	SuggestionResponseReason string     `db:"suggestion_response_reason"`
	SuggestionRespondedAt    *time.Time `db:"suggestion_responded_at"`

	IsOverdue        bool       `db:"is_overdue"`
	OverdueFlaggedAt *time.Time `db:"overdue_flagged_at"`

	CancelledBy        string     `db:"cancelled_by"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancellationReason string     `db:"cancellation_reason"`

	Extension
	Return
	model.Metadata
}

func (r Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r Reservation) DurationHours() float64 {
	return r.Duration().Hours()
}

// Contains reports whether t falls in [StartTime, EndTime).
func (r Reservation) Contains(t time.Time) bool {
	return !t.Before(r.StartTime) && t.Before(r.EndTime)
}

func (r Reservation) HoldsUnits() bool {
	return r.Kind == KindEquipmentRequest && r.Quantity > 0
}
