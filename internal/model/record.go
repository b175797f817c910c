package model

import "math"

// Record is one validated row of the priority dataset.
type Record struct {
	Borough       string   `json:"borough" yaml:"borough"`
	Latitude      *float64 `json:"latitude" yaml:"latitude"`
	Longitude     *float64 `json:"longitude" yaml:"longitude"`
	PriorityScore float64  `json:"priority_score" yaml:"priority_score"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// DropReason explains why a source row was excluded.
type DropReason string

const (
	DropMissingBorough DropReason = "missing_borough"
	DropMissingScore   DropReason = "missing_score"
)

// RowOutcome records what the loader did with one source row.
type RowOutcome struct {
	Line   int        `json:"line"`
	Record *Record    `json:"record,omitempty"`
	Kept   bool       `json:"kept"`
	Reason DropReason `json:"reason,omitempty"`
}

// Float returns a pointer to v, for optional coordinate fields.
func Float(v float64) *float64 {
	return &v
}

// Round3 rounds v to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
