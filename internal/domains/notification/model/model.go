package model

import "time"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldRecipient = "recipient"
	FieldCreatedAt = "created_at"
	FieldReadAt    = "read_at"
)

// Role recipients fan out to every user holding the role.
const (
	RecipientAdmins = "role:admin"
	RecipientHods   = "role:hod"
)

type Type string

const (
	TypeReservationCreated     Type = "reservation_created"
	TypeReservationApproved    Type = "reservation_approved"
	TypeReservationRejected    Type = "reservation_rejected"
	TypeReservationEscalated   Type = "reservation_escalated"
	TypeHodDecision            Type = "hod_decision"
	TypeReservationCancelled   Type = "reservation_cancelled"
	TypeReservationRescheduled Type = "reservation_rescheduled"
	TypeExtensionRequested     Type = "extension_requested"
	TypeExtensionApproved      Type = "extension_approved"
	TypeExtensionRejected      Type = "extension_rejected"
	TypeEquipmentReturned      Type = "equipment_returned"
	TypeSuggestionResponded    Type = "suggestion_responded"
	TypeReservationOverdue     Type = "reservation_overdue"
)

// Message is what the lifecycle asks to be delivered.
type Message struct {
	Recipient     string `json:"recipient"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	Type          Type   `json:"type"`
	ReservationID string `json:"reservation_id,omitempty"`
}

// Notification is a delivered Message as stored in a user's inbox.
type Notification struct {
	ID            string     `db:"id"`
	Recipient     string     `db:"recipient"`
	Subject       string     `db:"subject"`
	Body          string     `db:"body"`
	Type          Type       `db:"type"`
	ReservationID string     `db:"reservation_id"`
	CreatedAt     time.Time  `db:"created_at"`
	ReadAt        *time.Time `db:"read_at"`
}

// RoleRecipient returns the fan-out recipient for a role.
func RoleRecipient(role string) string {
	return "role:" + role
}
