package models

import (
	"time"
)

// Media is a stable reference to an uploaded object, not the bytes
// themselves.
type Media struct {
	Path          string     `json:"path,omitempty"`
	UniqueId      string     `json:"unique_id,omitempty"`
	FileExtension string     `json:"file_extension,omitempty"`
	ContentType   string     `json:"content_type,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
}

// ShiftLogs wraps one external observation record inside a shift. Info is
// the opaque payload keyed by the record's eb_id; it also carries the
// derived sbi_status and the record's latest eb_status.
type ShiftLogs struct {
	Info     map[string]any    `json:"info,omitempty"`
	Source   string            `json:"source,omitempty"`
	LogTime  *time.Time        `json:"log_time,omitempty"`
	Comments []ShiftLogComment `json:"comments,omitempty"`
}

// EbId returns the external record identifier this log entry wraps.
func (l ShiftLogs) EbId() string {
	if l.Info == nil {
		return ""
	}
	id, _ := l.Info["eb_id"].(string)
	return id
}

// Shift is one operational log period of the facility. Once ShiftEnd is set
// the shift is terminal: only annotations and the start timestamp may still
// change through the service layer, while reconciliation keeps merging logs
// (see logsync).
type Shift struct {
	Id            int         `json:"id,omitempty"`
	ShiftId       string      `json:"shift_id,omitempty"`
	ShiftStart    *time.Time  `json:"shift_start,omitempty"`
	ShiftEnd      *time.Time  `json:"shift_end,omitempty"`
	ShiftOperator string      `json:"shift_operator,omitempty"`
	ShiftLogs     []ShiftLogs `json:"shift_logs,omitempty"`
	Media         []Media     `json:"media,omitempty"`
	Annotations   string      `json:"annotations,omitempty"`
	Comments      string      `json:"comments,omitempty"`
	Metadata
}

// Ended reports whether the terminal end-of-shift marker is set.
func (s Shift) Ended() bool {
	return s.ShiftEnd != nil && !s.ShiftEnd.IsZero()
}
