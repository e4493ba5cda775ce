package shiftdb

import (
	"fmt"

	"gitlab.com/skao/slt_backend/models"
	"gitlab.com/skao/slt_backend/utils"
)

// EntityKind discriminates the persistable entity families. Every kind owns
// exactly one table descriptor.
type EntityKind int

const (
	KindShift EntityKind = iota
	KindShiftComment
	KindShiftLogComment
	KindShiftAnnotation
)

func (k EntityKind) String() string {
	switch k {
	case KindShift:
		return "shift"
	case KindShiftComment:
		return "shift_comment"
	case KindShiftLogComment:
		return "shift_log_comment"
	case KindShiftAnnotation:
		return "shift_annotation"
	}
	return fmt.Sprintf("EntityKind(%d)", int(k))
}

// Column pairs a table column name with the extractor pulling its value out
// of an entity. Extractors assert the concrete entity type; passing the
// wrong entity to a descriptor panics, which the registry prevents.
type Column struct {
	Name  string
	Value func(entity any) any
}

// TableDetails is the per-kind descriptor: table name, identifier column,
// ordered data columns and ordered metadata columns. Column order is fixed
// so builders and extractors always line up.
type TableDetails struct {
	Kind            EntityKind
	TableName       string
	IdentifierField string
	Columns         []Column
	MetadataCols    []Column
}

// ColumnNames returns the data column names in declaration order.
func (td TableDetails) ColumnNames() []string {
	return columnNames(td.Columns)
}

// ColumnNamesWithMetadata returns data columns followed by metadata columns.
func (td TableDetails) ColumnNamesWithMetadata() []string {
	return append(td.ColumnNames(), columnNames(td.MetadataCols)...)
}

// MetadataColumnNames returns the metadata column names in declaration order.
func (td TableDetails) MetadataColumnNames() []string {
	return columnNames(td.MetadataCols)
}

// ParamsWithMetadata extracts one value per column of
// ColumnNamesWithMetadata, in the same order.
func (td TableDetails) ParamsWithMetadata(entity any) []any {
	params := make([]any, 0, len(td.Columns)+len(td.MetadataCols))
	for _, c := range td.Columns {
		params = append(params, c.Value(entity))
	}
	for _, c := range td.MetadataCols {
		params = append(params, c.Value(entity))
	}
	return params
}

// MetadataParams extracts the metadata values only.
func (td TableDetails) MetadataParams(entity any) []any {
	params := make([]any, 0, len(td.MetadataCols))
	for _, c := range td.MetadataCols {
		params = append(params, c.Value(entity))
	}
	return params
}

func columnNames(cols []Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

// KindOf resolves the entity kind for a model value or pointer.
func KindOf(entity any) (EntityKind, error) {
	switch entity.(type) {
	case models.Shift, *models.Shift:
		return KindShift, nil
	case models.ShiftComment, *models.ShiftComment:
		return KindShiftComment, nil
	case models.ShiftLogComment, *models.ShiftLogComment:
		return KindShiftLogComment, nil
	case models.ShiftAnnotation, *models.ShiftAnnotation:
		return KindShiftAnnotation, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownEntityType, entity)
}

// DetailsFor resolves the table descriptor for a model value or pointer.
func DetailsFor(entity any) (TableDetails, error) {
	kind, err := KindOf(entity)
	if err != nil {
		return TableDetails{}, err
	}
	return DetailsForKind(kind)
}

// DetailsForKind resolves the table descriptor for a known kind.
func DetailsForKind(kind EntityKind) (TableDetails, error) {
	td, ok := registry[kind]
	if !ok {
		return TableDetails{}, fmt.Errorf("%w: %v", ErrUnknownEntityType, kind)
	}
	return td, nil
}

var registry = map[EntityKind]TableDetails{
	KindShift:           shiftDetails(),
	KindShiftComment:    shiftCommentDetails(),
	KindShiftLogComment: shiftLogCommentDetails(),
	KindShiftAnnotation: shiftAnnotationDetails(),
}

func shiftDetails() TableDetails {
	return TableDetails{
		Kind:            KindShift,
		TableName:       "tab_oda_slt",
		IdentifierField: "shift_id",
		Columns: []Column{
			{"shift_id", func(e any) any { return asShift(e).ShiftId }},
			{"shift_start", func(e any) any { return asShift(e).ShiftStart }},
			{"shift_end", func(e any) any { return asShift(e).ShiftEnd }},
			{"shift_operator", func(e any) any { return asShift(e).ShiftOperator }},
			{"shift_logs", func(e any) any { return jsonParam(asShift(e).ShiftLogs) }},
			{"media", func(e any) any { return jsonParam(asShift(e).Media) }},
			{"annotations", func(e any) any { return asShift(e).Annotations }},
			{"comments", func(e any) any { return asShift(e).Comments }},
		},
		MetadataCols: metadataColumns(),
	}
}

func shiftCommentDetails() TableDetails {
	return TableDetails{
		Kind:            KindShiftComment,
		TableName:       "tab_oda_slt_shift_comments",
		IdentifierField: "id",
		Columns: []Column{
			{"comment", func(e any) any { return asShiftComment(e).Comment }},
			{"shift_id", func(e any) any { return asShiftComment(e).ShiftId }},
			{"image", func(e any) any { return jsonParam(asShiftComment(e).Image) }},
		},
		MetadataCols: metadataColumns(),
	}
}

func shiftLogCommentDetails() TableDetails {
	return TableDetails{
		Kind:            KindShiftLogComment,
		TableName:       "tab_oda_slt_shift_log_comments",
		IdentifierField: "id",
		Columns: []Column{
			{"log_comment", func(e any) any { return asShiftLogComment(e).LogComment }},
			{"operator_name", func(e any) any { return asShiftLogComment(e).OperatorName }},
			{"shift_id", func(e any) any { return asShiftLogComment(e).ShiftId }},
			{"eb_id", func(e any) any { return asShiftLogComment(e).EbId }},
			{"image", func(e any) any { return jsonParam(asShiftLogComment(e).Image) }},
		},
		MetadataCols: metadataColumns(),
	}
}

func shiftAnnotationDetails() TableDetails {
	return TableDetails{
		Kind:            KindShiftAnnotation,
		TableName:       "tab_oda_slt_shift_annotations",
		IdentifierField: "id",
		Columns: []Column{
			{"annotation", func(e any) any { return asShiftAnnotation(e).Annotation }},
			{"operator_name", func(e any) any { return asShiftAnnotation(e).OperatorName }},
			{"shift_id", func(e any) any { return asShiftAnnotation(e).ShiftId }},
		},
		MetadataCols: metadataColumns(),
	}
}

// metadataColumns is shared across every descriptor; all four tables carry
// the same provenance columns.
func metadataColumns() []Column {
	return []Column{
		{"created_by", func(e any) any { return metadataOf(e).CreatedBy }},
		{"created_on", func(e any) any { return metadataOf(e).CreatedOn }},
		{"last_modified_by", func(e any) any { return metadataOf(e).LastModifiedBy }},
		{"last_modified_on", func(e any) any { return metadataOf(e).LastModifiedOn }},
	}
}

func metadataOf(entity any) models.Metadata {
	switch e := entity.(type) {
	case models.Shift:
		return e.Metadata
	case *models.Shift:
		return e.Metadata
	case models.ShiftComment:
		return e.Metadata
	case *models.ShiftComment:
		return e.Metadata
	case models.ShiftLogComment:
		return e.Metadata
	case *models.ShiftLogComment:
		return e.Metadata
	case models.ShiftAnnotation:
		return e.Metadata
	case *models.ShiftAnnotation:
		return e.Metadata
	}
	panic(fmt.Sprintf("shiftdb: no metadata on %T", entity))
}

func asShift(entity any) models.Shift {
	switch e := entity.(type) {
	case models.Shift:
		return e
	case *models.Shift:
		return *e
	}
	panic(fmt.Sprintf("shiftdb: %T is not a shift", entity))
}

func asShiftComment(entity any) models.ShiftComment {
	switch e := entity.(type) {
	case models.ShiftComment:
		return e
	case *models.ShiftComment:
		return *e
	}
	panic(fmt.Sprintf("shiftdb: %T is not a shift comment", entity))
}

func asShiftLogComment(entity any) models.ShiftLogComment {
	switch e := entity.(type) {
	case models.ShiftLogComment:
		return e
	case *models.ShiftLogComment:
		return *e
	}
	panic(fmt.Sprintf("shiftdb: %T is not a shift log comment", entity))
}

func asShiftAnnotation(entity any) models.ShiftAnnotation {
	switch e := entity.(type) {
	case models.ShiftAnnotation:
		return e
	case *models.ShiftAnnotation:
		return *e
	}
	panic(fmt.Sprintf("shiftdb: %T is not a shift annotation", entity))
}

// jsonParam serialises a document-valued field for a jsonb column. Empty
// slices persist as NULL so reads stay distinguishable from "[]".
func jsonParam(v any) any {
	switch doc := v.(type) {
	case []models.ShiftLogs:
		if len(doc) == 0 {
			return nil
		}
	case []models.Media:
		if len(doc) == 0 {
			return nil
		}
	}
	raw, err := utils.MarshalToJSON(v)
	if err != nil {
		panic(fmt.Sprintf("shiftdb: marshal jsonb param: %v", err))
	}
	return raw
}
