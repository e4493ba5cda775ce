package models

// ShiftAnnotation is operator-added context on a shift. Annotations are the
// one entity that may still be written after a shift has ended.
type ShiftAnnotation struct {
	Id           int    `json:"id,omitempty"`
	Annotation   string `json:"annotation,omitempty"`
	OperatorName string `json:"operator_name,omitempty"`
	ShiftId      string `json:"shift_id,omitempty"`
	Metadata
}

// NewShiftAnnotation is the caller-supplied input for creating an annotation.
type NewShiftAnnotation struct {
	Annotation   string `json:"annotation" validate:"required"`
	ShiftId      string `json:"shift_id" validate:"required"`
	OperatorName string `json:"operator_name"`
}
