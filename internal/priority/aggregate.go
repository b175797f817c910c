package priority

import (
	"sort"

	"github.com/sells-group/ev-priority/internal/model"
)

// Ranked table limits.
const (
	DefaultTopN = 10
	MaxTopN     = 10
)

// Filter returns the records whose score classifies as label.
func Filter(records []model.Record, label model.Label) []model.Record {
	var out []model.Record
	for _, r := range records {
		if Classify(r.PriorityScore) == label {
			out = append(out, r)
		}
	}
	return out
}

// Partition splits records by label. Every label is present in the result,
// possibly with an empty slice.
func Partition(records []model.Record) map[model.Label][]model.Record {
	parts := make(map[model.Label][]model.Record, 3)
	for _, l := range model.Labels() {
		parts[l] = []model.Record{}
	}
	for _, r := range records {
		l := Classify(r.PriorityScore)
		parts[l] = append(parts[l], r)
	}
	return parts
}

// TopN ranks boroughs within label by their mean priority score and returns
// at most n rows (n <= 0 or n > MaxTopN is treated as MaxTopN). High and
// Medium rank highest mean first; Low ranks lowest mean first. Equal means
// fall back to borough name order.
func TopN(records []model.Record, label model.Label, n int) []model.AggregateRow {
	if n <= 0 || n > MaxTopN {
		n = MaxTopN
	}

	groups := groupRecords(Filter(records, label), byBorough)
	rows := make([]model.AggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, model.AggregateRow{
			Borough:          g.key.borough,
			Label:            label,
			AvgPriorityScore: g.meanScore(),
			StationCount:     g.count,
			SuggestedAction:  model.SuggestedAction(label),
		})
	}

	ascending := label == model.LabelLow
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].AvgPriorityScore, rows[j].AvgPriorityScore
		if a != b {
			if ascending {
				return a < b
			}
			return a > b
		}
		return rows[i].Borough < rows[j].Borough
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// LabelCount summarizes the records that fall in one label.
type LabelCount struct {
	Label            model.Label `json:"label" yaml:"label"`
	Records          int         `json:"records" yaml:"records"`
	Boroughs         int         `json:"boroughs" yaml:"boroughs"`
	AvgPriorityScore float64     `json:"avg_priority_score" yaml:"avg_priority_score"`
}

// Summary returns per-label counts, most urgent label first. Labels with no
// records are reported with zero values.
func Summary(records []model.Record) []LabelCount {
	parts := Partition(records)
	out := make([]LabelCount, 0, len(parts))
	for _, l := range model.Labels() {
		rs := parts[l]
		lc := LabelCount{Label: l, Records: len(rs)}
		if len(rs) > 0 {
			boroughs := make(map[string]struct{})
			var sum float64
			for _, r := range rs {
				boroughs[r.Borough] = struct{}{}
				sum += r.PriorityScore
			}
			lc.Boroughs = len(boroughs)
			lc.AvgPriorityScore = sum / float64(len(rs))
		}
		out = append(out, lc)
	}
	return out
}
