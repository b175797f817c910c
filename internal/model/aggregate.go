package model

// Suggested actions attached to ranked rows.
const (
	ActionHigh   = "Immediate infrastructure expansion"
	ActionMedium = "Monitor and phased upgrades"
	ActionLow    = "No immediate action required"
)

// SuggestedAction returns the action text for a label, or "" if unknown.
func SuggestedAction(l Label) string {
	switch l {
	case LabelHigh:
		return ActionHigh
	case LabelMedium:
		return ActionMedium
	case LabelLow:
		return ActionLow
	}
	return ""
}

// AggregateRow is one ranked borough within a label.
type AggregateRow struct {
	Borough          string  `json:"borough" yaml:"borough"`
	Label            Label   `json:"label" yaml:"label"`
	AvgPriorityScore float64 `json:"avg_priority_score" yaml:"avg_priority_score"`
	StationCount     int     `json:"station_count" yaml:"station_count"`
	SuggestedAction  string  `json:"suggested_action" yaml:"suggested_action"`
}

// Rounded returns the average score rounded for display.
func (a AggregateRow) Rounded() float64 {
	return Round3(a.AvgPriorityScore)
}

// Marker is one point on the placement map: a borough within a label.
type Marker struct {
	Borough       string   `json:"borough" yaml:"borough"`
	Label         Label    `json:"label" yaml:"label"`
	Latitude      *float64 `json:"latitude" yaml:"latitude"`
	Longitude     *float64 `json:"longitude" yaml:"longitude"`
	PriorityScore float64  `json:"priority_score" yaml:"priority_score"`
	StationCount  int      `json:"station_count" yaml:"station_count"`
}
