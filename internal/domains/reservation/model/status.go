package model

import (
	"fmt"
	"slices"
)

type Kind string

const (
	KindRoomBooking      Kind = "room_booking"
	KindEquipmentRequest Kind = "equipment_request"
)

func (k Kind) Valid() bool {
	return k == KindRoomBooking || k == KindEquipmentRequest
}

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusEscalated   Status = "ESCALATED"
	StatusHodApproved Status = "HOD_APPROVED"
	StatusHodRejected Status = "HOD_REJECTED"
	StatusInUse       Status = "IN_USE"
	StatusReturned    Status = "RETURNED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

var (
	allStatuses = []Status{
		StatusPending, StatusApproved, StatusRejected, StatusEscalated, StatusHodApproved,
		StatusHodRejected, StatusInUse, StatusReturned, StatusCompleted, StatusCancelled,
	}

	// OccupyingStatuses hold the resource for their interval.
	OccupyingStatuses = []Status{StatusPending, StatusApproved, StatusEscalated, StatusHodApproved, StatusInUse}

	// UsedStatuses count towards utilization and occupancy: everything that
	// holds the resource plus reservations that already ran.
	UsedStatuses = []Status{StatusPending, StatusApproved, StatusEscalated, StatusHodApproved, StatusInUse, StatusReturned, StatusCompleted}

	cancellableStatuses = []Status{StatusPending, StatusEscalated, StatusApproved, StatusHodApproved}
)

func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", value)
	}

	return status, nil
}

func (s Status) Valid() bool {
	return slices.Contains(allStatuses, s)
}

func (s Status) Occupies() bool {
	return slices.Contains(OccupyingStatuses, s)
}

func (s Status) Used() bool {
	return slices.Contains(UsedStatuses, s)
}

// Cancellable reports whether the owner or an admin may still withdraw the reservation.
func (s Status) Cancellable() bool {
	return slices.Contains(cancellableStatuses, s)
}

// Approved reports whether an approver has granted the reservation, by either route.
func (s Status) Approved() bool {
	return s == StatusApproved || s == StatusHodApproved
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusHodRejected, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ExtensionStatus is the extension sub-state. The empty value means no
// extension was ever requested.
type ExtensionStatus string

const (
	ExtensionNone     ExtensionStatus = ""
	ExtensionPending  ExtensionStatus = "PENDING"
	ExtensionApproved ExtensionStatus = "APPROVED"
	ExtensionRejected ExtensionStatus = "REJECTED"
)

func (e ExtensionStatus) Valid() bool {
	switch e {
	case ExtensionNone, ExtensionPending, ExtensionApproved, ExtensionRejected:
		return true
	default:
		return false
	}
}

type ReturnCondition string

const (
	ConditionGood         ReturnCondition = "good"
	ConditionDamaged      ReturnCondition = "damaged"
	ConditionMissingParts ReturnCondition = "missing_parts"
	ConditionNeedsRepair  ReturnCondition = "needs_repair"
)

func (c ReturnCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionMissingParts, ConditionNeedsRepair:
		return true
	default:
		return false
	}
}
