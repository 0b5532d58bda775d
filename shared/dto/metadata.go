package dto

import (
	"unires/shared/constant"
	"unires/shared/model"
	"unires/shared/timezone"
)

// Metadata is the audit block carried by responses.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

// FromModel renders the audit columns in the application zone. The
// modification pair stays empty for records never changed after creation.
func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = timezone.Format(src.CreatedAt, constant.DateFormat)
	m.CreatedBy = src.CreatedBy

	if src.ModifiedAt.Equal(src.CreatedAt) && src.ModifiedBy == src.CreatedBy {
		return
	}

	m.ModifiedAt = timezone.Format(src.ModifiedAt, constant.DateFormat)
	m.ModifiedBy = src.ModifiedBy
}
