package models

import (
	"time"

	"gitlab.com/skao/slt_backend/utils"
)

const defaultUser = "DefaultUser"

// Metadata carries the provenance fields persisted with every entity.
// It is embedded in entities so its fields map onto flat table columns.
type Metadata struct {
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedOn      time.Time `json:"created_on,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	LastModifiedOn time.Time `json:"last_modified_on,omitempty"`
}

// NewMetadata stamps provenance for an entity's first persistence.
// created_* and last_modified_* start out identical.
func NewMetadata(createdBy string) Metadata {
	if createdBy == "" {
		createdBy = defaultUser
	}
	now := utils.NowUTC()
	return Metadata{
		CreatedBy:      createdBy,
		CreatedOn:      now,
		LastModifiedBy: createdBy,
		LastModifiedOn: now,
	}
}

// UpdateMetadata returns the metadata to persist with an update: created_*
// is carried over from the stored row untouched, last_modified_on is
// re-stamped. An empty lastModifiedBy keeps the stored attribution.
func UpdateMetadata(stored Metadata, lastModifiedBy string) Metadata {
	if lastModifiedBy == "" {
		lastModifiedBy = stored.LastModifiedBy
	}
	return Metadata{
		CreatedBy:      stored.CreatedBy,
		CreatedOn:      stored.CreatedOn,
		LastModifiedBy: lastModifiedBy,
		LastModifiedOn: utils.NowUTC(),
	}
}
