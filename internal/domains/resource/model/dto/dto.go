package dto

import (
	"time"

	"github.com/google/uuid"

	"unires/internal/domains/resource/model"
	"unires/shared"
	gDto "unires/shared/dto"
	gModel "unires/shared/model"
)

type CreateResourceRequest struct {
	Kind      model.Kind `json:"kind"       validate:"required,enum"`
	Name      string     `json:"name"       validate:"required,max=100"`
	Location  string     `json:"location"   validate:"omitempty,max=100"`
	Capacity  int        `json:"capacity"   validate:"omitempty,min=0"`
	Quantity  int        `json:"quantity"   validate:"omitempty,min=0"`
	OpenHour  int        `json:"open_hour"  validate:"omitempty,min=0,max=23"`
	CloseHour int        `json:"close_hour" validate:"omitempty,min=1,max=24"`
	Available *bool      `json:"available"  validate:"omitempty"`
}

func (c *CreateResourceRequest) ToModel(user string, now time.Time) model.Resource {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	quantity := c.Quantity
	if c.Kind == model.KindRoom {
		quantity = 0
	}

	return model.Resource{
		ID:                uuid.NewString(),
		Kind:              c.Kind,
		Name:              c.Name,
		Location:          c.Location,
		Capacity:          c.Capacity,
		Quantity:          quantity,
		AvailableQuantity: quantity,
		Available:         available,
		OpenHour:          c.OpenHour,
		CloseHour:         c.CloseHour,
		Metadata:          gModel.NewMetadata(user, now),
	}
}

type UpdateResourceRequest struct {
	Name             string `db:"name"              json:"name"              validate:"omitempty,max=100"`
	Location         string `db:"location"          json:"location"          validate:"omitempty,max=100"`
	Capacity         *int   `db:"capacity"          json:"capacity"          validate:"omitempty,min=0"`
	Quantity         *int   `db:"quantity"          json:"quantity"          validate:"omitempty,min=0"`
	Available        *bool  `db:"available"         json:"available"         validate:"omitempty"`
	UnderMaintenance *bool  `db:"under_maintenance" json:"under_maintenance" validate:"omitempty"`
	OpenHour         *int   `db:"open_hour"         json:"open_hour"         validate:"omitempty,min=0,max=23"`
	CloseHour        *int   `db:"close_hour"        json:"close_hour"        validate:"omitempty,min=1,max=24"`
}

type ResourceResponse struct {
	ID                string     `json:"id"`
	Kind              model.Kind `json:"kind"`
	Name              string     `json:"name"`
	Location          string     `json:"location"`
	Capacity          int        `json:"capacity"`
	Quantity          int        `json:"quantity"`
	AvailableQuantity int        `json:"available_quantity"`
	Available         bool       `json:"available"`
	UnderMaintenance  bool       `json:"under_maintenance"`
	OpenHour          int        `json:"open_hour"`
	CloseHour         int        `json:"close_hour"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(model model.Resource) {
	r.ID = model.ID
	r.Kind = model.Kind
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Quantity = model.Quantity
	r.AvailableQuantity = model.AvailableQuantity
	r.Available = model.Available
	r.UnderMaintenance = model.UnderMaintenance
	r.OpenHour = model.OpenHour
	r.CloseHour = model.CloseHour
	r.Metadata.FromModel(model.Metadata)
}

type GetResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetResourcesResponse) FromModels(models []model.Resource, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Resources = make([]ResourceResponse, len(models))
	for i, mod := range models {
		r.Resources[i].FromModel(mod)
	}
}

// Hours returns the opening hours after applying the update, or false when
// the resulting pair is set but not a valid window.
func (u *UpdateResourceRequest) Hours(current model.Resource) (int, int, bool) {
	open, closing := current.OpenHour, current.CloseHour

	if u.OpenHour != nil {
		open = *u.OpenHour
	}

	if u.CloseHour != nil {
		closing = *u.CloseHour
	}

	if (open != 0 || closing != 0) && closing <= open {
		return open, closing, false
	}

	return open, closing, true
}
