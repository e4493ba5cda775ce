package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

// CommentService manages free-text commentary on shifts and on individual
// log entries. Comments may only be added while the shift is open.
type CommentService struct {
	crud   ShiftCrud
	shifts *ShiftService
	log    *logrus.Logger
}

func NewCommentService(crud ShiftCrud, shifts *ShiftService, log *logrus.Logger) *CommentService {
	return &CommentService{crud: crud, shifts: shifts, log: log}
}

func (s *CommentService) guardOpenShift(ctx context.Context, shiftId string) error {
	shift, err := s.shifts.GetShift(ctx, shiftId)
	if err != nil {
		return err
	}
	if shift.Ended() {
		return &ShiftEndedError{ShiftId: shiftId}
	}
	return nil
}

// CreateShiftComment validates and persists a comment against an open shift.
func (s *CommentService) CreateShiftComment(ctx context.Context, input models.NewShiftComment) (models.ShiftComment, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return models.ShiftComment{}, err
	}
	if err := s.guardOpenShift(ctx, input.ShiftId); err != nil {
		return models.ShiftComment{}, err
	}

	comment := models.ShiftComment{
		Comment:  input.Comment,
		ShiftId:  input.ShiftId,
		Metadata: models.NewMetadata(input.OperatorName),
	}
	id, err := s.crud.InsertEntity(ctx, comment)
	if err != nil {
		return models.ShiftComment{}, err
	}
	comment.Id = id
	return comment, nil
}

// GetShiftComments returns every comment on a shift, newest first.
func (s *CommentService) GetShiftComments(ctx context.Context, shiftId string) ([]models.ShiftComment, error) {
	rows, err := s.crud.GetEntities(ctx, models.ShiftComment{}, shiftdb.ByFields{ShiftId: shiftId})
	if err != nil {
		return nil, err
	}
	comments := make([]models.ShiftComment, 0, len(rows))
	for _, row := range rows {
		var c models.ShiftComment
		if err := utils.DecodeRow(row, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// UpdateShiftComment replaces the text of an existing comment.
func (s *CommentService) UpdateShiftComment(ctx context.Context, commentId int, text string) (models.ShiftComment, error) {
	stored, err := s.getShiftComment(ctx, commentId)
	if err != nil {
		return models.ShiftComment{}, err
	}
	if err := s.guardOpenShift(ctx, stored.ShiftId); err != nil {
		return models.ShiftComment{}, err
	}

	stored.Comment = text
	operator, _ := utils.GetOperatorFromContext(ctx)
	stored.Metadata = models.UpdateMetadata(stored.Metadata, operator)
	if _, err := s.crud.UpdateEntity(ctx, commentId, stored); err != nil {
		return models.ShiftComment{}, err
	}
	return stored, nil
}

func (s *CommentService) getShiftComment(ctx context.Context, commentId int) (models.ShiftComment, error) {
	row, err := s.crud.GetEntity(ctx, models.ShiftComment{}, commentId)
	if err != nil {
		return models.ShiftComment{}, err
	}
	var c models.ShiftComment
	if err := utils.DecodeRow(row, &c); err != nil {
		return models.ShiftComment{}, err
	}
	c.Id = commentId
	return c, nil
}

// CreateShiftLogComment validates and persists commentary on one log entry.
func (s *CommentService) CreateShiftLogComment(ctx context.Context, input models.NewShiftLogComment) (models.ShiftLogComment, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return models.ShiftLogComment{}, err
	}
	if err := s.guardOpenShift(ctx, input.ShiftId); err != nil {
		return models.ShiftLogComment{}, err
	}

	comment := models.ShiftLogComment{
		LogComment:   input.LogComment,
		OperatorName: input.OperatorName,
		ShiftId:      input.ShiftId,
		EbId:         input.EbId,
		Metadata:     models.NewMetadata(input.OperatorName),
	}
	id, err := s.crud.InsertEntity(ctx, comment)
	if err != nil {
		return models.ShiftLogComment{}, err
	}
	comment.Id = id
	return comment, nil
}

// GetShiftLogComments returns log commentary filtered by shift and
// optionally by external record id, newest first.
func (s *CommentService) GetShiftLogComments(ctx context.Context, shiftId, ebId string) ([]models.ShiftLogComment, error) {
	rows, err := s.crud.GetEntities(ctx, models.ShiftLogComment{}, shiftdb.ByFields{ShiftId: shiftId, EbId: ebId})
	if err != nil {
		return nil, err
	}
	comments := make([]models.ShiftLogComment, 0, len(rows))
	for _, row := range rows {
		var c models.ShiftLogComment
		if err := utils.DecodeRow(row, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// UpdateShiftLogComment replaces the text of an existing log comment.
func (s *CommentService) UpdateShiftLogComment(ctx context.Context, commentId int, text string) (models.ShiftLogComment, error) {
	row, err := s.crud.GetEntity(ctx, models.ShiftLogComment{}, commentId)
	if err != nil {
		return models.ShiftLogComment{}, err
	}
	var stored models.ShiftLogComment
	if err := utils.DecodeRow(row, &stored); err != nil {
		return models.ShiftLogComment{}, err
	}
	stored.Id = commentId
	if err := s.guardOpenShift(ctx, stored.ShiftId); err != nil {
		return models.ShiftLogComment{}, err
	}

	stored.LogComment = text
	operator, _ := utils.GetOperatorFromContext(ctx)
	stored.Metadata = models.UpdateMetadata(stored.Metadata, operator)
	if _, err := s.crud.UpdateEntity(ctx, commentId, stored); err != nil {
		return models.ShiftLogComment{}, err
	}
	return stored, nil
}
