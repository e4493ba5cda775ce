package shiftdb

import (
	"context"
	"strings"
	"testing"

	"gitlab.com/skao/slt_backend/models"
)

// fakeDataAccess records statements and plays back canned rows.
type fakeDataAccess struct {
	lastQuery  string
	lastParams []any
	rows       []map[string]any
	insertId   int
	affected   int64
	err        error
}

func (f *fakeDataAccess) Insert(_ context.Context, query string, params []any) (int, error) {
	f.lastQuery, f.lastParams = query, params
	return f.insertId, f.err
}

func (f *fakeDataAccess) Update(_ context.Context, query string, params []any) (int64, error) {
	f.lastQuery, f.lastParams = query, params
	return f.affected, f.err
}

func (f *fakeDataAccess) Get(_ context.Context, query string, params []any) ([]map[string]any, error) {
	f.lastQuery, f.lastParams = query, params
	return f.rows, f.err
}

func (f *fakeDataAccess) GetOne(_ context.Context, query string, params []any) (map[string]any, error) {
	rows, err := f.Get(nil, query, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func TestInsertEntityRoutesToEntityTable(t *testing.T) {
	fake := &fakeDataAccess{insertId: 7}
	crud := NewDBCrud(fake)

	id, err := crud.InsertEntity(context.Background(), models.ShiftAnnotation{
		Annotation: "note", ShiftId: "slm-a",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != 7 {
		t.Errorf("id = %d", id)
	}
	if !strings.Contains(fake.lastQuery, `"tab_oda_slt_shift_annotations"`) {
		t.Errorf("query = %q", fake.lastQuery)
	}
}

func TestInsertEntityRejectsUnknownType(t *testing.T) {
	crud := NewDBCrud(&fakeDataAccess{})
	if _, err := crud.InsertEntity(context.Background(), struct{}{}); err == nil {
		t.Fatal("expected unknown entity error")
	}
}

func TestGetEntityNotFound(t *testing.T) {
	crud := NewDBCrud(&fakeDataAccess{})
	_, err := crud.GetEntity(context.Background(), models.Shift{}, "slm-missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestGetEntitiesDispatch(t *testing.T) {
	cases := []struct {
		name  string
		query EntityQuery
		want  string
	}{
		{"status", ByStatus{models.SbiEntityStatus{SbiStatus: models.SbiStatusFailed}}, "sbi_status"},
		{"entity", ByODAEntity{models.EntityFilter{EbId: "eb-001"}}, "eb_id"},
		{"user", ByUserMatch{models.UserQuery{ShiftOperator: "jsmith", MatchType: models.MatchEquals}}, "LIKE"},
		{"fields", ByFields{ShiftId: "slm-a"}, `"shift_id" = ?`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fake := &fakeDataAccess{rows: []map[string]any{{"id": 1}}}
			crud := NewDBCrud(fake)
			rows, err := crud.GetEntities(context.Background(), models.Shift{}, c.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != 1 {
				t.Errorf("rows = %v", rows)
			}
			if !strings.Contains(fake.lastQuery, c.want) {
				t.Errorf("query = %q, want substring %q", fake.lastQuery, c.want)
			}
		})
	}
}

func TestGetEntitiesNilQuerySelectsAll(t *testing.T) {
	fake := &fakeDataAccess{rows: []map[string]any{{"id": 1}}}
	crud := NewDBCrud(fake)
	if _, err := crud.GetEntities(context.Background(), models.Shift{}, nil); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(fake.lastQuery, "WHERE") {
		t.Errorf("query = %q", fake.lastQuery)
	}
}

func TestGetEntitiesUnderspecifiedFiltersCarryHints(t *testing.T) {
	crud := NewDBCrud(&fakeDataAccess{})

	_, err := crud.GetEntities(context.Background(), models.Shift{}, ByODAEntity{})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}

	_, err = crud.GetEntities(context.Background(), models.Shift{}, ByUserMatch{
		models.UserQuery{ShiftOperator: "jsmith"},
	})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "match type") {
		t.Errorf("error should hint at the match type: %v", err)
	}

	_, err = crud.GetEntities(context.Background(), models.Shift{}, ByDateRange{
		models.DateQuery{QueryType: models.QueryCreatedBetween},
	})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestGetEntitiesNoRowsIsNotFound(t *testing.T) {
	crud := NewDBCrud(&fakeDataAccess{})
	_, err := crud.GetEntities(context.Background(), models.Shift{}, ByFields{ShiftId: "slm-a"})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestPatchShiftLogsUsesPatchStatement(t *testing.T) {
	fake := &fakeDataAccess{affected: 1}
	crud := NewDBCrud(fake)

	affected, err := crud.PatchShiftLogs(context.Background(), models.Shift{
		ShiftId:   "slm-a",
		ShiftLogs: []models.ShiftLogs{{Info: map[string]any{"eb_id": "eb-001"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if affected != 1 {
		t.Errorf("affected = %d", affected)
	}
	if strings.Contains(fake.lastQuery, `"comments"`) {
		t.Errorf("patch must not touch comments: %q", fake.lastQuery)
	}
}

func TestGetLastShiftEmptyTable(t *testing.T) {
	crud := NewDBCrud(&fakeDataAccess{})
	if _, err := crud.GetLastShift(context.Background()); !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
