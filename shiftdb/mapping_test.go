package shiftdb

import (
	"testing"
	"time"

	"gitlab.com/skao/slt_backend/models"
)

func TestKindOfResolvesValuesAndPointers(t *testing.T) {
	cases := []struct {
		entity any
		want   EntityKind
	}{
		{models.Shift{}, KindShift},
		{&models.Shift{}, KindShift},
		{models.ShiftComment{}, KindShiftComment},
		{&models.ShiftLogComment{}, KindShiftLogComment},
		{models.ShiftAnnotation{}, KindShiftAnnotation},
	}
	for _, c := range cases {
		got, err := KindOf(c.entity)
		if err != nil {
			t.Fatalf("KindOf(%T): %v", c.entity, err)
		}
		if got != c.want {
			t.Errorf("KindOf(%T) = %v, want %v", c.entity, got, c.want)
		}
	}
}

func TestKindOfRejectsUnknownType(t *testing.T) {
	if _, err := KindOf("not an entity"); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
	if _, err := DetailsFor(42); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestShiftDescriptorColumnOrder(t *testing.T) {
	td, err := DetailsFor(models.Shift{})
	if err != nil {
		t.Fatal(err)
	}
	if td.TableName != "tab_oda_slt" {
		t.Errorf("table = %q", td.TableName)
	}
	if td.IdentifierField != "shift_id" {
		t.Errorf("identifier = %q", td.IdentifierField)
	}

	want := []string{
		"shift_id", "shift_start", "shift_end", "shift_operator",
		"shift_logs", "media", "annotations", "comments",
		"created_by", "created_on", "last_modified_by", "last_modified_on",
	}
	got := td.ColumnNamesWithMetadata()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParamsWithMetadataLineUpWithColumns(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	shift := models.Shift{
		ShiftId:       "slm-abc",
		ShiftStart:    &start,
		ShiftOperator: "jsmith",
		Annotations:   "calm night",
		Metadata:      models.NewMetadata("jsmith"),
	}

	td, _ := DetailsFor(shift)
	cols := td.ColumnNamesWithMetadata()
	params := td.ParamsWithMetadata(shift)
	if len(params) != len(cols) {
		t.Fatalf("got %d params for %d columns", len(params), len(cols))
	}
	if params[0] != "slm-abc" {
		t.Errorf("shift_id param = %v", params[0])
	}
	if params[3] != "jsmith" {
		t.Errorf("shift_operator param = %v", params[3])
	}
	if params[8] != "jsmith" {
		t.Errorf("created_by param = %v", params[8])
	}
}

func TestJSONParamEmptySlicesPersistAsNull(t *testing.T) {
	td, _ := DetailsFor(models.Shift{})
	params := td.ParamsWithMetadata(models.Shift{ShiftId: "slm-x"})
	// shift_logs and media sit at positions 4 and 5.
	if params[4] != nil {
		t.Errorf("empty shift_logs param = %v, want nil", params[4])
	}
	if params[5] != nil {
		t.Errorf("empty media param = %v, want nil", params[5])
	}
}

func TestJSONParamSerializesDocuments(t *testing.T) {
	shift := models.Shift{
		ShiftId: "slm-x",
		ShiftLogs: []models.ShiftLogs{
			{Info: map[string]any{"eb_id": "eb-001"}, Source: "ODA"},
		},
	}
	td, _ := DetailsFor(shift)
	params := td.ParamsWithMetadata(shift)
	doc, ok := params[4].(string)
	if !ok {
		t.Fatalf("shift_logs param is %T, want string", params[4])
	}
	if doc == "" || doc[0] != '[' {
		t.Errorf("shift_logs param = %q, want a JSON array", doc)
	}
}

func TestEveryDescriptorCarriesMetadataColumns(t *testing.T) {
	want := []string{"created_by", "created_on", "last_modified_by", "last_modified_on"}
	for kind, td := range registry {
		got := td.MetadataColumnNames()
		if len(got) != len(want) {
			t.Fatalf("%v metadata columns = %v", kind, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%v metadata column[%d] = %q, want %q", kind, i, got[i], want[i])
			}
		}
	}
}
