package logsync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/models"
)

func TestDeriveStatus(t *testing.T) {
	ok := map[string]any{"status": "OK"}
	errored := map[string]any{"status": "ERROR"}

	cases := []struct {
		name      string
		responses []map[string]any
		want      models.SbiStatus
	}{
		{"no responses", nil, models.SbiStatusCreated},
		{"partial", []map[string]any{ok, ok}, models.SbiStatusExecuting},
		{"complete", []map[string]any{ok, ok, ok, ok, ok}, models.SbiStatusCompleted},
		{"any error fails", []map[string]any{ok, errored, ok}, models.SbiStatusFailed},
		{"error beats completion", []map[string]any{ok, ok, ok, ok, errored}, models.SbiStatusFailed},
		{"unknown status counts as pending", []map[string]any{ok, {"status": "RUNNING"}}, models.SbiStatusExecuting},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DeriveStatus(c.responses, 5); got != c.want {
				t.Errorf("DeriveStatus = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDeriveStatusConfigurableExpectedCount(t *testing.T) {
	ok := map[string]any{"status": "OK"}
	if got := DeriveStatus([]map[string]any{ok, ok, ok}, 3); got != models.SbiStatusCompleted {
		t.Errorf("DeriveStatus = %v, want Completed", got)
	}
}

// fakeStore plays back one canned result set for the repository query.
type fakeStore struct {
	rows       []map[string]any
	lastQuery  string
	lastParams []any
	err        error
}

func (f *fakeStore) Insert(context.Context, string, []any) (int, error) { return 0, f.err }

func (f *fakeStore) Update(context.Context, string, []any) (int64, error) { return 0, f.err }

func (f *fakeStore) Get(_ context.Context, query string, params []any) ([]map[string]any, error) {
	f.lastQuery, f.lastParams = query, params
	return f.rows, f.err
}

func (f *fakeStore) GetOne(_ context.Context, query string, params []any) (map[string]any, error) {
	rows, err := f.Get(context.Background(), query, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func TestRecordsSinceFoldsStatusIntoPayload(t *testing.T) {
	store := &fakeStore{rows: []map[string]any{
		{
			"eb_id":             "eb-001",
			"sbi_ref":           "sbi-001",
			"request_responses": []byte(`[{"status":"OK"},{"status":"ERROR"}]`),
		},
		{
			"eb_id":             "eb-002",
			"request_responses": nil,
		},
	}}
	repo := NewPostgresODARepository(store, logrus.New())

	records, err := repo.RecordsSince(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %v", records)
	}
	if records["eb-001"]["sbi_status"] != string(models.SbiStatusFailed) {
		t.Errorf("eb-001 status = %v", records["eb-001"]["sbi_status"])
	}
	if records["eb-002"]["sbi_status"] != string(models.SbiStatusCreated) {
		t.Errorf("eb-002 status = %v", records["eb-002"]["sbi_status"])
	}
	if len(store.lastParams) != 1 {
		t.Errorf("params = %v", store.lastParams)
	}
	if !strings.Contains(store.lastQuery, "tab_oda_eb_status_history") {
		t.Errorf("query must attach the latest eb_status: %q", store.lastQuery)
	}
}

func TestRecordsSinceSkipsRowsWithoutEbId(t *testing.T) {
	store := &fakeStore{rows: []map[string]any{
		{"sbi_ref": "sbi-001"},
		{"eb_id": "eb-001"},
	}}
	repo := NewPostgresODARepository(store, logrus.New())

	records, err := repo.RecordsSince(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %v", records)
	}
	if _, ok := records["eb-001"]; !ok {
		t.Errorf("records = %v", records)
	}
}
