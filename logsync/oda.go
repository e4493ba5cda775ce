package logsync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/config"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

// ODALogRepository reads external observation records in scope for a shift.
// Records come back keyed by eb_id with their derived status already folded
// into the payload.
type ODALogRepository interface {
	RecordsSince(ctx context.Context, since time.Time) (map[string]map[string]any, error)
}

// PostgresODARepository reads the observation tables the external archive
// maintains in the same database.
type PostgresODARepository struct {
	store             shiftdb.DataAccess
	expectedResponses int
	log               *logrus.Logger
}

func NewPostgresODARepository(store shiftdb.DataAccess, log *logrus.Logger) *PostgresODARepository {
	return &PostgresODARepository{
		store:             store,
		expectedResponses: config.IntFromEnv("ODA_EXPECTED_REQUEST_RESPONSES", 5),
		log:               log,
	}
}

const odaRecordsQuery = `SELECT e.eb_id, e.sbd_id, e.sbd_version, e.sbi_id, e.sbd_ref, e.sbi_ref,
	e.telescope, e.created_on, e.last_modified_on, e.request_responses,
	(SELECT h.current_status FROM tab_oda_eb_status_history h
		WHERE h.eb_ref = e.eb_id ORDER BY h.id DESC LIMIT 1) AS eb_status
	FROM tab_oda_eb e WHERE e.last_modified_on >= ? ORDER BY e.eb_id`

// RecordsSince returns every record modified at or after the given instant.
// Each payload is JSON-normalized and carries the derived sbi_status.
func (r *PostgresODARepository) RecordsSince(ctx context.Context, since time.Time) (map[string]map[string]any, error) {
	rows, err := r.store.Get(ctx, odaRecordsQuery, []any{since})
	if err != nil {
		return nil, err
	}

	records := make(map[string]map[string]any, len(rows))
	for _, row := range rows {
		var info map[string]any
		if err := utils.DecodeRow(row, &info); err != nil {
			return nil, fmt.Errorf("decode oda record: %w", err)
		}
		ebId, _ := info["eb_id"].(string)
		if ebId == "" {
			r.log.WithField("record", info).Warn("skipping oda record without eb_id")
			continue
		}
		info["sbi_status"] = string(DeriveStatus(responsesOf(info), r.expectedResponses))
		records[ebId] = info
	}
	return records, nil
}

func responsesOf(info map[string]any) []map[string]any {
	raw, _ := info["request_responses"].([]any)
	responses := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			responses = append(responses, m)
		}
	}
	return responses
}

// DeriveStatus folds a record's sub-responses into one status. No responses
// means the record was only created; any errored response fails the whole
// record; a full set of OK responses completes it.
func DeriveStatus(responses []map[string]any, expected int) models.SbiStatus {
	if len(responses) == 0 {
		return models.SbiStatusCreated
	}
	ok := 0
	for _, resp := range responses {
		switch resp["status"] {
		case "ERROR":
			return models.SbiStatusFailed
		case "OK":
			ok++
		}
	}
	if ok == expected {
		return models.SbiStatusCompleted
	}
	return models.SbiStatusExecuting
}
