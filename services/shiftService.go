package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

// ShiftCrud is the slice of the persistence facade the services use.
// *shiftdb.DBCrud satisfies it; tests substitute fakes.
type ShiftCrud interface {
	InsertEntity(ctx context.Context, entity any) (int, error)
	UpdateEntity(ctx context.Context, identifier any, entity any) (int64, error)
	GetEntity(ctx context.Context, entity any, identifier any) (map[string]any, error)
	GetEntityMetadata(ctx context.Context, entity any, identifier any) (map[string]any, error)
	GetEntities(ctx context.Context, entity any, q shiftdb.EntityQuery) ([]map[string]any, error)
	GetLastShift(ctx context.Context) (map[string]any, error)
}

// ShiftTracker is told which shift is current so the reconciliation loop can
// pin its cycles. A nil tracker is allowed.
type ShiftTracker interface {
	SetCurrentShift(shiftId string)
}

// ShiftService owns the lifecycle of shifts: creation, reads, guarded
// updates and the terminal end-of-shift transition.
type ShiftService struct {
	crud    ShiftCrud
	tracker ShiftTracker
	log     *logrus.Logger
}

func NewShiftService(crud ShiftCrud, tracker ShiftTracker, log *logrus.Logger) *ShiftService {
	return &ShiftService{crud: crud, tracker: tracker, log: log}
}

// NewShiftId mints a shift identifier carrying the telescope type, e.g.
// slm-7f0c... for mid and sll-... for low.
func NewShiftId() string {
	letter := "m"
	if utils.TelescopeType("TELESCOPE_TYPE") == utils.TelescopeLow {
		letter = "l"
	}
	return fmt.Sprintf("sl%s-%s", letter, uuid.NewString())
}

// CreateShift opens a new shift for the given operator, stamped as started
// now.
func (s *ShiftService) CreateShift(ctx context.Context, operator string) (models.Shift, error) {
	now := utils.NowUTC()
	shift := models.Shift{
		ShiftId:       NewShiftId(),
		ShiftStart:    &now,
		ShiftOperator: operator,
		Metadata:      models.NewMetadata(operator),
	}

	id, err := s.crud.InsertEntity(ctx, shift)
	if err != nil {
		return models.Shift{}, err
	}
	shift.Id = id
	if s.tracker != nil {
		s.tracker.SetCurrentShift(shift.ShiftId)
	}

	s.log.WithFields(logrus.Fields{
		"shift_id": shift.ShiftId,
		"operator": operator,
	}).Info("shift created")
	return shift, nil
}

// GetShift returns the newest stored row for a shift identifier.
func (s *ShiftService) GetShift(ctx context.Context, shiftId string) (models.Shift, error) {
	row, err := s.crud.GetEntity(ctx, models.Shift{}, shiftId)
	if err != nil {
		return models.Shift{}, err
	}
	var shift models.Shift
	if err := utils.DecodeRow(row, &shift); err != nil {
		return models.Shift{}, err
	}
	return shift, nil
}

// GetShifts returns every shift matching the query, newest first.
func (s *ShiftService) GetShifts(ctx context.Context, q shiftdb.EntityQuery) ([]models.Shift, error) {
	rows, err := s.crud.GetEntities(ctx, models.Shift{}, q)
	if err != nil {
		return nil, err
	}
	shifts := make([]models.Shift, 0, len(rows))
	for _, row := range rows {
		var shift models.Shift
		if err := utils.DecodeRow(row, &shift); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

// GetCurrentShift returns the most recently created shift.
func (s *ShiftService) GetCurrentShift(ctx context.Context) (models.Shift, error) {
	row, err := s.crud.GetLastShift(ctx)
	if err != nil {
		return models.Shift{}, err
	}
	var shift models.Shift
	if err := utils.DecodeRow(row, &shift); err != nil {
		return models.Shift{}, err
	}
	return shift, nil
}

// GetShiftMetadata returns only the provenance fields of a shift.
func (s *ShiftService) GetShiftMetadata(ctx context.Context, shiftId string) (models.Metadata, error) {
	row, err := s.crud.GetEntityMetadata(ctx, models.Shift{}, shiftId)
	if err != nil {
		return models.Metadata{}, err
	}
	var meta models.Metadata
	if err := utils.DecodeRow(row, &meta); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}

// UpdateShift merges the populated fields of the update onto the stored
// shift and rewrites the row. Once a shift has ended only Annotations and
// ShiftStart may still change; any other populated field is rejected with
// ShiftEndedError.
func (s *ShiftService) UpdateShift(ctx context.Context, update models.Shift) (models.Shift, error) {
	stored, err := s.GetShift(ctx, update.ShiftId)
	if err != nil {
		return models.Shift{}, err
	}

	if stored.Ended() && touchesMoreThanAnnotations(update) {
		return models.Shift{}, &ShiftEndedError{ShiftId: update.ShiftId}
	}

	merged := mergeShift(stored, update)
	operator, _ := utils.GetOperatorFromContext(ctx)
	merged.Metadata = models.UpdateMetadata(stored.Metadata, operator)

	if err := s.writeShift(ctx, merged); err != nil {
		return models.Shift{}, err
	}
	return merged, nil
}

// EndShift sets the terminal end marker. Ending an already ended shift is
// rejected.
func (s *ShiftService) EndShift(ctx context.Context, shiftId string) (models.Shift, error) {
	stored, err := s.GetShift(ctx, shiftId)
	if err != nil {
		return models.Shift{}, err
	}
	if stored.Ended() {
		return models.Shift{}, &ShiftEndedError{ShiftId: shiftId}
	}

	now := utils.NowUTC()
	stored.ShiftEnd = &now
	operator, _ := utils.GetOperatorFromContext(ctx)
	stored.Metadata = models.UpdateMetadata(stored.Metadata, operator)

	if err := s.writeShift(ctx, stored); err != nil {
		return models.Shift{}, err
	}
	s.log.WithField("shift_id", shiftId).Info("shift ended")
	return stored, nil
}

func (s *ShiftService) writeShift(ctx context.Context, shift models.Shift) error {
	affected, err := s.crud.UpdateEntity(ctx, shift.ShiftId, shift)
	if err != nil {
		return err
	}
	if affected == 0 {
		return shiftdb.NewNotFound("no shift found for shift_id=%s", shift.ShiftId)
	}
	return nil
}

func touchesMoreThanAnnotations(update models.Shift) bool {
	return update.ShiftOperator != "" ||
		update.Comments != "" ||
		update.ShiftEnd != nil ||
		len(update.ShiftLogs) > 0 ||
		len(update.Media) > 0
}

func mergeShift(stored, update models.Shift) models.Shift {
	merged := stored
	if update.ShiftOperator != "" {
		merged.ShiftOperator = update.ShiftOperator
	}
	if update.Annotations != "" {
		merged.Annotations = update.Annotations
	}
	if update.Comments != "" {
		merged.Comments = update.Comments
	}
	if update.ShiftStart != nil {
		merged.ShiftStart = update.ShiftStart
	}
	if update.ShiftEnd != nil {
		merged.ShiftEnd = update.ShiftEnd
	}
	if len(update.ShiftLogs) > 0 {
		merged.ShiftLogs = update.ShiftLogs
	}
	if len(update.Media) > 0 {
		merged.Media = update.Media
	}
	return merged
}
