package models

import "time"

// MatchType controls the wildcard template applied to text filters.
type MatchType string

const (
	MatchEquals     MatchType = "equals"
	MatchStartsWith MatchType = "starts_with"
	MatchContains   MatchType = "contains"
)

// QueryType selects which provenance timestamp a date-range query filters on.
type QueryType string

const (
	QueryCreatedBetween  QueryType = "created_between"
	QueryModifiedBetween QueryType = "modified_between"
)

// DateQuery filters entities by a provenance timestamp range. At least one
// bound must be set; a missing bound leaves that side open.
type DateQuery struct {
	Start     *time.Time
	End       *time.Time
	QueryType QueryType
}

// UserQuery filters shifts on populated text fields, combined with AND.
type UserQuery struct {
	ShiftId       string `json:"shift_id,omitempty"`
	ShiftOperator string `json:"shift_operator,omitempty"`
	Comments      string `json:"comments,omitempty"`
	MatchType     MatchType
}

// SbiStatus is the status derived for an external record from its
// sub-responses.
type SbiStatus string

const (
	SbiStatusCreated   SbiStatus = "Created"
	SbiStatusExecuting SbiStatus = "Executing"
	SbiStatusCompleted SbiStatus = "Completed"
	SbiStatusFailed    SbiStatus = "Failed"
)

// SbiEntityStatus filters shifts by the derived status embedded in their
// stored log payloads.
type SbiEntityStatus struct {
	SbiStatus SbiStatus
}

// EntityFilter filters shift logs by external entity identifiers.
type EntityFilter struct {
	SbiId string
	EbId  string
}
