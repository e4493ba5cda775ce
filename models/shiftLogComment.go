package models

// ShiftLogComment is commentary attached to a single log entry within a
// shift, tied to the external record by eb_id.
type ShiftLogComment struct {
	Id           int     `json:"id,omitempty"`
	LogComment   string  `json:"log_comment,omitempty"`
	OperatorName string  `json:"operator_name,omitempty"`
	ShiftId      string  `json:"shift_id,omitempty"`
	EbId         string  `json:"eb_id,omitempty"`
	Image        []Media `json:"image,omitempty"`
	Metadata
}

// NewShiftLogComment is the caller-supplied input for creating a log comment.
type NewShiftLogComment struct {
	LogComment   string `json:"log_comment" validate:"required"`
	ShiftId      string `json:"shift_id" validate:"required"`
	EbId         string `json:"eb_id" validate:"required"`
	OperatorName string `json:"operator_name"`
}
