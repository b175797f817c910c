// Package priority classifies priority scores into tiers and builds the
// ranked and spatial summaries derived from them.
package priority

import "github.com/sells-group/ev-priority/internal/model"

// Score thresholds. Each band is closed below and open above.
const (
	HighThreshold   = 0.15
	MediumThreshold = 0.08
)

// Classify returns the priority label for a score.
// Rules:
//   - High: score >= 0.15
//   - Medium: 0.08 <= score < 0.15
//   - Low: score < 0.08
func Classify(score float64) model.Label {
	if score >= HighThreshold {
		return model.LabelHigh
	}
	if score >= MediumThreshold {
		return model.LabelMedium
	}
	return model.LabelLow
}

// Band describes the score range covered by one label. A nil bound is open.
type Band struct {
	Label  model.Label `json:"label" yaml:"label"`
	Min    *float64    `json:"min" yaml:"min"`
	Max    *float64    `json:"max" yaml:"max"`
	Action string      `json:"suggested_action" yaml:"suggested_action"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score float64) bool {
	if b.Min != nil && score < *b.Min {
		return false
	}
	if b.Max != nil && score >= *b.Max {
		return false
	}
	return true
}

// Thresholds returns the label bands, most urgent first.
func Thresholds() []Band {
	return []Band{
		{Label: model.LabelHigh, Min: model.Float(HighThreshold), Action: model.ActionHigh},
		{Label: model.LabelMedium, Min: model.Float(MediumThreshold), Max: model.Float(HighThreshold), Action: model.ActionMedium},
		{Label: model.LabelLow, Max: model.Float(MediumThreshold), Action: model.ActionLow},
	}
}
