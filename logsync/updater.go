package logsync

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/config"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

// ShiftStore is the slice of the persistence facade the updater needs.
type ShiftStore interface {
	GetEntity(ctx context.Context, entity any, identifier any) (map[string]any, error)
	GetEntityMetadata(ctx context.Context, entity any, identifier any) (map[string]any, error)
	GetLastShift(ctx context.Context) (map[string]any, error)
	PatchShiftLogs(ctx context.Context, shift models.Shift) (int64, error)
}

// ShiftLogUpdater keeps the active shift's stored logs reconciled with the
// external observation records. One updater runs per process; Start is
// idempotent and Stop waits for the loop to drain.
type ShiftLogUpdater struct {
	store    ShiftStore
	oda      ODALogRepository
	notifier Notifier
	interval time.Duration
	log      *logrus.Logger

	mu             sync.Mutex
	started        bool
	cancel         context.CancelFunc
	done           chan struct{}
	currentShiftId string
}

func NewShiftLogUpdater(store ShiftStore, oda ODALogRepository, notifier Notifier, log *logrus.Logger) *ShiftLogUpdater {
	return &ShiftLogUpdater{
		store:    store,
		oda:      oda,
		notifier: notifier,
		interval: PollingInterval(),
		log:      log,
	}
}

// PollingInterval reads the reconciliation period from the environment,
// defaulting to 20 seconds.
func PollingInterval() time.Duration {
	return time.Duration(config.IntFromEnv("ODA_DATA_POLLING_TIME", 20)) * time.Second
}

// SetCurrentShift pins the shift the loop reconciles. Without a pin the loop
// falls back to the most recently created shift.
func (u *ShiftLogUpdater) SetCurrentShift(shiftId string) {
	u.mu.Lock()
	u.currentShiftId = shiftId
	u.mu.Unlock()
}

// Start launches the background loop. Calling it again while running is a
// no-op.
func (u *ShiftLogUpdater) Start(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.started {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	u.started = true
	u.cancel = cancel
	u.done = make(chan struct{})
	go u.run(loopCtx, u.done)
	u.log.WithField("interval", u.interval.String()).Info("shift log updater started")
}

// Stop cancels the loop and blocks until the in-flight cycle finishes.
func (u *ShiftLogUpdater) Stop() {
	u.mu.Lock()
	if !u.started {
		u.mu.Unlock()
		return
	}
	cancel, done := u.cancel, u.done
	u.started = false
	u.mu.Unlock()

	cancel()
	<-done
	u.log.Info("shift log updater stopped")
}

func (u *ShiftLogUpdater) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		if err := u.UpdateShiftLogs(ctx); err != nil && ctx.Err() == nil {
			config.LogError(u.log, "logsync", "run", "reconciliation cycle failed", nil, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// UpdateShiftLogs runs one reconciliation cycle: load the pinned (or latest)
// shift, fetch records modified since it started, merge, and patch only the
// log payload. No active shift and no difference are both quiet no-ops.
func (u *ShiftLogUpdater) UpdateShiftLogs(ctx context.Context) error {
	u.mu.Lock()
	shiftId := u.currentShiftId
	u.mu.Unlock()

	var row map[string]any
	var err error
	if shiftId != "" {
		row, err = u.store.GetEntity(ctx, models.Shift{}, shiftId)
	} else {
		row, err = u.store.GetLastShift(ctx)
	}
	if err != nil {
		if shiftdb.IsNotFound(err) {
			return nil
		}
		return err
	}

	var shift models.Shift
	if err := utils.DecodeRow(row, &shift); err != nil {
		return err
	}
	if shift.Ended() || shift.ShiftStart == nil {
		return nil
	}

	fetched, err := u.oda.RecordsSince(ctx, *shift.ShiftStart)
	if err != nil {
		return err
	}

	merged, diff := DiffShiftLogs(shift.ShiftLogs, fetched, utils.NowUTC())
	if diff.Empty() {
		u.log.WithField("shift_id", shift.ShiftId).Debug("no new logs")
		return nil
	}

	shift.ShiftLogs = merged

	// The row may have been rewritten mid-cycle; re-read provenance so the
	// patch carries current created_* values.
	metaRow, err := u.store.GetEntityMetadata(ctx, models.Shift{}, shift.ShiftId)
	if err != nil {
		return err
	}
	var meta models.Metadata
	if err := utils.DecodeRow(metaRow, &meta); err != nil {
		return err
	}
	shift.Metadata = models.UpdateMetadata(meta, shift.ShiftOperator)

	affected, err := u.store.PatchShiftLogs(ctx, shift)
	if err != nil {
		return err
	}
	if affected == 0 {
		u.log.WithField("shift_id", shift.ShiftId).Warn("shift vanished before patch applied")
		return nil
	}

	u.log.WithFields(logrus.Fields{
		"shift_id": shift.ShiftId,
		"new":      diff.New,
		"changed":  diff.Changed,
	}).Info("shift logs reconciled")

	if u.notifier != nil {
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		u.notifier.LogsUpdated(ctx, config.ShiftLogsMessage{
			ShiftID:       shift.ShiftId,
			UpdatedLogIDs: diff.Changed,
			NewLogIDs:     diff.New,
			UpdatedAt:     shift.LastModifiedOn,
			ShiftOperator: shift.ShiftOperator,
			TelescopeType: utils.TelescopeType("TELESCOPE_TYPE"),
			CorrelationId: correlationId,
		})
	}
	return nil
}
