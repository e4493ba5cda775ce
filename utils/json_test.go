package utils

import (
	"testing"
	"time"
)

type decodeTarget struct {
	ShiftId   string    `json:"shift_id"`
	CreatedOn time.Time `json:"created_on"`
	ShiftLogs []struct {
		Info map[string]any `json:"info"`
	} `json:"shift_logs"`
}

func TestDecodeRowInlinesJSONBColumns(t *testing.T) {
	row := map[string]any{
		"shift_id":   "slm-a",
		"created_on": time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		"shift_logs": []byte(`[{"info":{"eb_id":"eb-001"}}]`),
	}

	var out decodeTarget
	if err := DecodeRow(row, &out); err != nil {
		t.Fatal(err)
	}
	if out.ShiftId != "slm-a" {
		t.Errorf("shift_id = %q", out.ShiftId)
	}
	if out.CreatedOn.IsZero() {
		t.Error("created_on not decoded")
	}
	if len(out.ShiftLogs) != 1 || out.ShiftLogs[0].Info["eb_id"] != "eb-001" {
		t.Errorf("shift_logs = %v", out.ShiftLogs)
	}
}

func TestDecodeRowJSONBSurfacedAsString(t *testing.T) {
	row := map[string]any{
		"shift_logs": `[{"info":{"eb_id":"eb-001"}}]`,
	}
	var out decodeTarget
	if err := DecodeRow(row, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.ShiftLogs) != 1 {
		t.Errorf("shift_logs = %v", out.ShiftLogs)
	}
}

func TestDecodeRowPlainStringsStayStrings(t *testing.T) {
	// A bare string that happens to be valid JSON (e.g. "123") must not be
	// inlined as a number.
	row := map[string]any{"shift_id": "123"}
	var out decodeTarget
	if err := DecodeRow(row, &out); err != nil {
		t.Fatal(err)
	}
	if out.ShiftId != "123" {
		t.Errorf("shift_id = %q", out.ShiftId)
	}
}

func TestDecodeRowIntoMap(t *testing.T) {
	row := map[string]any{
		"eb_id":             "eb-001",
		"request_responses": []byte(`[{"status":"OK"}]`),
	}
	var out map[string]any
	if err := DecodeRow(row, &out); err != nil {
		t.Fatal(err)
	}
	if out["eb_id"] != "eb-001" {
		t.Errorf("eb_id = %v", out["eb_id"])
	}
	responses, ok := out["request_responses"].([]any)
	if !ok || len(responses) != 1 {
		t.Errorf("request_responses = %v", out["request_responses"])
	}
}

func TestTelescopeTypeDefaultsToMid(t *testing.T) {
	if got := TelescopeType("UNSET_TELESCOPE_ENV"); got != TelescopeMid {
		t.Errorf("telescope = %q", got)
	}
	t.Setenv("UNIT_TELESCOPE_ENV", "ska-low")
	if got := TelescopeType("UNIT_TELESCOPE_ENV"); got != TelescopeLow {
		t.Errorf("telescope = %q", got)
	}
}
