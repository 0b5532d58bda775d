package model

import (
	"unires/shared/model"
)

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID                = "id"
	FieldKind              = "kind"
	FieldName              = "name"
	FieldLocation          = "location"
	FieldCapacity          = "capacity"
	FieldQuantity          = "quantity"
	FieldAvailableQuantity = "available_quantity"
	FieldAvailable         = "available"
	FieldUnderMaintenance  = "under_maintenance"
	FieldCreatedAt         = "created_at"
)

// SortableFields may appear in a sort_by query parameter.
var SortableFields = []string{FieldName, FieldKind, FieldCapacity, FieldCreatedAt}

type Kind string

const (
	KindRoom      Kind = "room"
	KindEquipment Kind = "equipment"
)

func (k Kind) Valid() bool {
	return k == KindRoom || k == KindEquipment
}

// Resource is a reservable room or equipment pool. Rooms use Capacity and
// their own opening hours; equipment tracks units through Quantity and
// AvailableQuantity. Zero OpenHour and CloseHour mean the configured window.
type Resource struct {
	ID                string `db:"id"`
	Kind              Kind   `db:"kind"`
	Name              string `db:"name"`
	Location          string `db:"location"`
	Capacity          int    `db:"capacity"`
	Quantity          int    `db:"quantity"`
	AvailableQuantity int    `db:"available_quantity"`
	Available         bool   `db:"available"`
	UnderMaintenance  bool   `db:"under_maintenance"`
	OpenHour          int    `db:"open_hour"`
	CloseHour         int    `db:"close_hour"`
	model.Metadata
}

// Bookable reports whether new reservations may target the resource.
func (r Resource) Bookable() bool {
	return r.Available && !r.UnderMaintenance
}

func (r Resource) HasOwnHours() bool {
	return r.CloseHour > r.OpenHour
}
