package models

import (
	"testing"
	"time"
)

func TestNewMetadataStampsBothPairsIdentically(t *testing.T) {
	meta := NewMetadata("jsmith")
	if meta.CreatedBy != "jsmith" || meta.LastModifiedBy != "jsmith" {
		t.Errorf("attribution = %q / %q", meta.CreatedBy, meta.LastModifiedBy)
	}
	if !meta.CreatedOn.Equal(meta.LastModifiedOn) {
		t.Errorf("timestamps differ: %v / %v", meta.CreatedOn, meta.LastModifiedOn)
	}
	if meta.CreatedOn.Location() != time.UTC {
		t.Errorf("timestamp not UTC: %v", meta.CreatedOn)
	}
}

func TestNewMetadataDefaultsAttribution(t *testing.T) {
	meta := NewMetadata("")
	if meta.CreatedBy != defaultUser || meta.LastModifiedBy != defaultUser {
		t.Errorf("attribution = %q / %q", meta.CreatedBy, meta.LastModifiedBy)
	}
}

func TestUpdateMetadataCarriesCreatedFields(t *testing.T) {
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	stored := Metadata{
		CreatedBy:      "jsmith",
		CreatedOn:      created,
		LastModifiedBy: "jsmith",
		LastModifiedOn: created,
	}

	meta := UpdateMetadata(stored, "mlee")
	if meta.CreatedBy != "jsmith" || !meta.CreatedOn.Equal(created) {
		t.Errorf("created_* changed: %+v", meta)
	}
	if meta.LastModifiedBy != "mlee" {
		t.Errorf("last_modified_by = %q", meta.LastModifiedBy)
	}
	if !meta.LastModifiedOn.After(created) {
		t.Errorf("last_modified_on not re-stamped: %v", meta.LastModifiedOn)
	}
}

func TestUpdateMetadataEmptyAttributionKeepsStored(t *testing.T) {
	stored := Metadata{CreatedBy: "jsmith", LastModifiedBy: "jsmith"}
	meta := UpdateMetadata(stored, "")
	if meta.LastModifiedBy != "jsmith" {
		t.Errorf("last_modified_by = %q", meta.LastModifiedBy)
	}
}

func TestShiftEnded(t *testing.T) {
	if (Shift{}).Ended() {
		t.Error("open shift reported as ended")
	}
	end := time.Now()
	if !(Shift{ShiftEnd: &end}).Ended() {
		t.Error("ended shift reported as open")
	}
}

func TestShiftLogsEbId(t *testing.T) {
	if got := (ShiftLogs{}).EbId(); got != "" {
		t.Errorf("EbId = %q", got)
	}
	log := ShiftLogs{Info: map[string]any{"eb_id": "eb-001"}}
	if got := log.EbId(); got != "eb-001" {
		t.Errorf("EbId = %q", got)
	}
}
