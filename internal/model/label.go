package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Label is the priority tier derived from a priority score.
type Label string

const (
	LabelHigh   Label = "High"
	LabelMedium Label = "Medium"
	LabelLow    Label = "Low"
)

// labelRank orders labels from most to least urgent.
var labelRank = map[Label]int{
	LabelHigh:   0,
	LabelMedium: 1,
	LabelLow:    2,
}

// Labels returns every label, most urgent first.
func Labels() []Label {
	return []Label{LabelHigh, LabelMedium, LabelLow}
}

// Rank returns the position of l in Labels, or -1 for an unknown label.
func (l Label) Rank() int {
	r, ok := labelRank[l]
	if !ok {
		return -1
	}
	return r
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	_, ok := labelRank[l]
	return ok
}

// ParseLabel parses a label name case-insensitively.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return LabelHigh, nil
	case "medium":
		return LabelMedium, nil
	case "low":
		return LabelLow, nil
	}
	return "", eris.Errorf("model: unknown priority label %q", s)
}
