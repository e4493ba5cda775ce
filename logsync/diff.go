package logsync

import (
	"reflect"
	"sort"
	"time"

	"gitlab.com/skao/slt_backend/models"
)

const logSource = "ODA"

// LogDiff lists what a reconciliation cycle changed, by external record id.
type LogDiff struct {
	New     []string
	Changed []string
}

func (d LogDiff) Empty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0
}

// DiffShiftLogs merges fetched observation records into the stored log list.
// Stored entries keep their position; a changed payload is replaced in
// place, an unseen eb_id is appended with the given timestamp, and stored
// entries absent from the fetch are left untouched. Comments attached to a
// log entry always survive the merge.
func DiffShiftLogs(stored []models.ShiftLogs, fetched map[string]map[string]any, now time.Time) ([]models.ShiftLogs, LogDiff) {
	merged := make([]models.ShiftLogs, len(stored))
	copy(merged, stored)

	var diff LogDiff
	seen := make(map[string]bool, len(stored))
	for i, entry := range merged {
		ebId := entry.EbId()
		if ebId == "" {
			continue
		}
		seen[ebId] = true
		info, ok := fetched[ebId]
		if !ok || reflect.DeepEqual(entry.Info, info) {
			continue
		}
		merged[i].Info = info
		diff.Changed = append(diff.Changed, ebId)
	}

	// New entries append in sorted eb_id order so merge output is stable.
	var added []string
	for ebId := range fetched {
		if !seen[ebId] {
			added = append(added, ebId)
		}
	}
	sort.Strings(added)
	for _, ebId := range added {
		logTime := now
		merged = append(merged, models.ShiftLogs{
			Info:    fetched[ebId],
			Source:  logSource,
			LogTime: &logTime,
		})
		diff.New = append(diff.New, ebId)
	}

	return merged, diff
}
