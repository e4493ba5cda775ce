package models

// ShiftComment is free-text commentary attached to a whole shift.
type ShiftComment struct {
	Id      int     `json:"id,omitempty"`
	Comment string  `json:"comment,omitempty"`
	ShiftId string  `json:"shift_id,omitempty"`
	Image   []Media `json:"image,omitempty"`
	Metadata
}

// NewShiftComment is the caller-supplied input for creating a comment.
type NewShiftComment struct {
	Comment      string `json:"comment" validate:"required"`
	ShiftId      string `json:"shift_id" validate:"required"`
	OperatorName string `json:"operator_name"`
}
