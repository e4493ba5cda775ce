package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

// AnnotationService manages operator annotations. Unlike comments,
// annotations stay writable after a shift has ended.
type AnnotationService struct {
	crud   ShiftCrud
	shifts *ShiftService
	log    *logrus.Logger
}

func NewAnnotationService(crud ShiftCrud, shifts *ShiftService, log *logrus.Logger) *AnnotationService {
	return &AnnotationService{crud: crud, shifts: shifts, log: log}
}

// CreateShiftAnnotation validates and persists an annotation. The shift must
// exist but need not be open.
func (s *AnnotationService) CreateShiftAnnotation(ctx context.Context, input models.NewShiftAnnotation) (models.ShiftAnnotation, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return models.ShiftAnnotation{}, err
	}
	if _, err := s.shifts.GetShift(ctx, input.ShiftId); err != nil {
		return models.ShiftAnnotation{}, err
	}

	annotation := models.ShiftAnnotation{
		Annotation:   input.Annotation,
		OperatorName: input.OperatorName,
		ShiftId:      input.ShiftId,
		Metadata:     models.NewMetadata(input.OperatorName),
	}
	id, err := s.crud.InsertEntity(ctx, annotation)
	if err != nil {
		return models.ShiftAnnotation{}, err
	}
	annotation.Id = id
	return annotation, nil
}

// GetShiftAnnotations returns every annotation on a shift, newest first.
func (s *AnnotationService) GetShiftAnnotations(ctx context.Context, shiftId string) ([]models.ShiftAnnotation, error) {
	rows, err := s.crud.GetEntities(ctx, models.ShiftAnnotation{}, shiftdb.ByFields{ShiftId: shiftId})
	if err != nil {
		return nil, err
	}
	annotations := make([]models.ShiftAnnotation, 0, len(rows))
	for _, row := range rows {
		var a models.ShiftAnnotation
		if err := utils.DecodeRow(row, &a); err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

// UpdateShiftAnnotation replaces the text of an existing annotation.
func (s *AnnotationService) UpdateShiftAnnotation(ctx context.Context, annotationId int, text string) (models.ShiftAnnotation, error) {
	row, err := s.crud.GetEntity(ctx, models.ShiftAnnotation{}, annotationId)
	if err != nil {
		return models.ShiftAnnotation{}, err
	}
	var stored models.ShiftAnnotation
	if err := utils.DecodeRow(row, &stored); err != nil {
		return models.ShiftAnnotation{}, err
	}
	stored.Id = annotationId

	stored.Annotation = text
	operator, _ := utils.GetOperatorFromContext(ctx)
	stored.Metadata = models.UpdateMetadata(stored.Metadata, operator)
	if _, err := s.crud.UpdateEntity(ctx, annotationId, stored); err != nil {
		return models.ShiftAnnotation{}, err
	}
	return stored, nil
}
